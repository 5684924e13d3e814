package http

import (
	"context"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog/log"
	"github.com/saucelabs/zipdeploy/internal/deploy"
	"github.com/saucelabs/zipdeploy/internal/human"
)

// ContentTypeZip is the media type of zip archives.
const ContentTypeZip = "application/zip"

// maxResponseBody limits how much of a response body is kept for diagnostics.
const maxResponseBody = 64 * 1024

// Kudu implements deploy.Uploader for Kudu-style zip deployment endpoints, e.g. the
// https://<app>.scm.azurewebsites.net/api/zip/site/wwwroot API of Azure App Service.
type Kudu struct {
	HTTPClient *retryablehttp.Client
	URL        string
	Username   string
	Password   string
}

// NewKudu returns an implementation for Kudu.
func NewKudu(url, username, password string, timeout time.Duration) *Kudu {
	return &Kudu{
		HTTPClient: NewClient(timeout),
		URL:        url,
		Username:   username,
		Password:   password,
	}
}

// Deploy streams the archive at archivePath to the endpoint with a PUT request.
func (k *Kudu) Deploy(ctx context.Context, archivePath string) (deploy.Response, error) {
	finfo, err := os.Stat(archivePath)
	if err != nil {
		return deploy.Response{}, &deploy.ArchiveError{Source: archivePath, Path: archivePath, Err: err}
	}

	req, err := NewRetryableRequestWithContext(ctx, http.MethodPut, k.URL,
		retryablehttp.ReaderFunc(func() (io.Reader, error) {
			return os.Open(archivePath)
		}))
	if err != nil {
		return deploy.Response{}, &deploy.TransportError{URL: k.URL, Err: err}
	}

	req.ContentLength = finfo.Size()
	req.Header.Set("Content-Type", ContentTypeZip)
	req.SetBasicAuth(k.Username, k.Password)

	log.Info().
		Str("url", k.URL).
		Str("archive", archivePath).
		Str("size", human.Bytes(finfo.Size())).
		Msg("Uploading archive.")

	resp, err := k.HTTPClient.Do(req)
	if err != nil {
		return deploy.Response{}, &deploy.TransportError{URL: k.URL, Err: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	r := deploy.Response{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       strings.TrimSpace(string(body)),
	}

	log.Debug().Int("statusCode", r.StatusCode).Str("body", r.Body).Msg("Deployment endpoint responded.")

	if outcome := deploy.Classify(resp.StatusCode); outcome != deploy.Succeeded {
		return r, &deploy.RejectionError{URL: k.URL, Outcome: outcome, Response: r}
	}

	return r, nil
}
