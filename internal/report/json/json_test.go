package json

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gotest.tools/v3/fs"

	"github.com/saucelabs/zipdeploy/internal/report"
)

func newResult() report.Result {
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	return report.Result{
		Name:       "demo-app",
		Source:     "/work/site",
		Archive:    "/work/demo-app.zip",
		Files:      2,
		Size:       2048,
		SHA256:     "abc",
		URL:        "https://demo-app.scm.azurewebsites.net/api/zip/site/wwwroot",
		StatusCode: 200,
		Outcome:    "succeeded",
		Passed:     true,
		StartTime:  start,
		EndTime:    start.Add(3 * time.Second),
		Duration:   3 * time.Second,
	}
}

func TestReporter_Render_File(t *testing.T) {
	dir := fs.NewDir(t, "json-report")
	defer dir.Remove()

	r := &Reporter{Filename: dir.Join("report.json")}
	r.Add(newResult())
	r.Render()

	data, err := os.ReadFile(dir.Join("report.json"))
	require.NoError(t, err)

	var results []report.Result
	require.NoError(t, json.Unmarshal(data, &results))
	assert.Equal(t, []report.Result{newResult()}, results)
}

func TestReporter_Render_Webhook(t *testing.T) {
	var (
		gotBody        []byte
		gotContentType string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	r := &Reporter{WebhookURL: server.URL}
	r.Add(newResult())
	r.Render()

	assert.Equal(t, "application/json", gotContentType)
	var results []report.Result
	require.NoError(t, json.Unmarshal(gotBody, &results))
	require.Len(t, results, 1)
	assert.Equal(t, "demo-app", results[0].Name)
}

func TestReporter_Reset(t *testing.T) {
	r := &Reporter{}
	r.Add(newResult())
	r.Reset()
	assert.Empty(t, r.Results)
}

func TestReporter_Render_Dst(t *testing.T) {
	var buf bytes.Buffer
	r := &Reporter{Dst: &buf}
	r.Add(newResult())
	r.Render()

	var results []report.Result
	require.NoError(t, json.Unmarshal(buf.Bytes(), &results))
	assert.Equal(t, []report.Result{newResult()}, results)
}
