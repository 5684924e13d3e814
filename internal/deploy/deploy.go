// Package deploy describes the publishing of an archive to a Kudu-style deployment endpoint.
package deploy

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// Uploader is the interface for uploading an archive to a deployment endpoint.
type Uploader interface {
	// Deploy uploads the archive at archivePath. A nil error means the endpoint accepted the archive.
	Deploy(ctx context.Context, archivePath string) (Response, error)
}

// Response describes the answer of the deployment endpoint.
type Response struct {
	StatusCode int
	Status     string
	Body       string
}

// Outcome is the result of a deployment request as derived from its status code.
type Outcome int

const (
	// Unexpected is any status code outside of the ranges below, e.g. informational responses.
	Unexpected Outcome = iota
	// Succeeded means the endpoint accepted the archive (2xx).
	Succeeded
	// Redirected means the endpoint asked to go elsewhere (3xx). Redirects are never followed, since the archive
	// stream cannot be replayed, and count as a failure.
	Redirected
	// Rejected means the endpoint refused the archive (4xx, 5xx), e.g. bad credentials, quota or server errors.
	Rejected
)

func (o Outcome) String() string {
	switch o {
	case Succeeded:
		return "succeeded"
	case Redirected:
		return "redirected"
	case Rejected:
		return "rejected"
	default:
		return "unexpected"
	}
}

// Classify maps every possible status code to an Outcome.
func Classify(statusCode int) Outcome {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return Succeeded
	case statusCode >= 300 && statusCode < 400:
		return Redirected
	case statusCode >= 400 && statusCode < 600:
		return Rejected
	default:
		return Unexpected
	}
}

// KuduURL returns the zip deployment endpoint of the Azure App Service app.
func KuduURL(app string) string {
	return fmt.Sprintf("https://%s.scm.azurewebsites.net/api/zip/site/wwwroot", strings.ToLower(app))
}

// DefaultUsername returns the user name of the app's publishing profile.
func DefaultUsername(app string) string {
	if app == "" {
		return ""
	}
	return "$" + app
}

// StatusText returns a short description of statusCode, e.g. "401 Unauthorized".
func StatusText(statusCode int) string {
	if t := http.StatusText(statusCode); t != "" {
		return fmt.Sprintf("%d %s", statusCode, t)
	}
	return fmt.Sprintf("%d", statusCode)
}
