package json

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	zhttp "github.com/saucelabs/zipdeploy/internal/http"
	"github.com/saucelabs/zipdeploy/internal/report"
)

// Reporter represents struct to report in json format
type Reporter struct {
	WebhookURL string
	Filename   string
	// Dst receives the rendered results, e.g. os.Stdout. Optional.
	Dst        io.Writer
	Results    []report.Result
}

// Add adds a Result
func (r *Reporter) Add(t report.Result) {
	r.Results = append(r.Results, t)
}

// Render sends the results to the specified webhook WebhookURL and writes them to the specified json file.
func (r *Reporter) Render() {
	body, err := json.MarshalIndent(r.Results, "", "  ")
	if err != nil {
		log.Error().Msgf("failed to generate publish result (%v)", err)
		return
	}

	if r.WebhookURL != "" {
		r.post(body)
	}

	if r.Dst != nil {
		if _, err := fmt.Fprintln(r.Dst, string(body)); err != nil {
			log.Error().Err(err).Msg("failed to write publish result")
		}
	}

	if r.Filename != "" {
		err = os.WriteFile(r.Filename, body, 0666)
		if err != nil {
			log.Error().Err(err).Msgf("failed to write publish result to %s", r.Filename)
		}
	}
}

func (r *Reporter) post(body []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	req, err := zhttp.NewRequestWithContext(ctx, http.MethodPost, r.WebhookURL, bytes.NewReader(body))
	if err != nil {
		log.Error().Err(err).Str("webhook", r.WebhookURL).Msg("failed to send publish result to webhook.")
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := zhttp.NewClient(30 * time.Second).StandardClient().Do(req)
	if err != nil {
		log.Error().Err(err).Str("webhook", r.WebhookURL).Msg("failed to send publish result to webhook.")
		return
	}
	defer resp.Body.Close()

	webhookBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= http.StatusBadRequest {
		log.Error().Str("webhook", r.WebhookURL).Msgf("failed to send publish result to webhook, status: '%d', msg:'%v'", resp.StatusCode, string(webhookBody))
		return
	}
	log.Info().Str("webhook", r.WebhookURL).Msg("Publish result has been sent successfully to webhook.")
}

// Reset resets the reporter to its initial state. This action will delete all results.
func (r *Reporter) Reset() {
	r.Results = make([]report.Result, 0)
}
