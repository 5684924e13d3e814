package report

import (
	"time"

	"github.com/saucelabs/zipdeploy/internal/ci"
)

// Result represents the result of a single publish.
type Result struct {
	// Name is the app or directory name that identifies the publish.
	Name       string        `json:"name"`
	Source     string        `json:"source"`
	Archive    string        `json:"archive"`
	Files      int           `json:"files"`
	Size       int64         `json:"size"`
	SHA256     string        `json:"sha256,omitempty"`
	URL        string        `json:"url"`
	StatusCode int           `json:"statusCode,omitempty"`
	Outcome    string        `json:"outcome"`
	Passed     bool          `json:"passed"`
	Error      string        `json:"error,omitempty"`
	StartTime  time.Time     `json:"startTime"`
	EndTime    time.Time     `json:"endTime"`
	Duration   time.Duration `json:"duration"`
	// ArchiveKept is true if the archive is still on disk after the publish.
	ArchiveKept bool   `json:"archiveKept"`
	CI          *ci.CI `json:"ci,omitempty"`
}

// Reporter is the interface for publish result reporting.
type Reporter interface {
	// Add adds the Result to the reporter. Results added this way can then be rendered out by calling Render().
	Add(r Result)
	// Render renders the results. The destination depends on the implementation.
	Render()
	// Reset resets the state of the reporter (e.g. remove any previously reported Results).
	Reset()
}
