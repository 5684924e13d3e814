package deploy

import (
	"fmt"
)

// ArchiveError is returned when the archive could not be created.
type ArchiveError struct {
	Source string
	Path   string
	Err    error
}

func (e *ArchiveError) Error() string {
	return fmt.Sprintf("failed to archive %s into %s: %v", e.Source, e.Path, e.Err)
}

func (e *ArchiveError) Unwrap() error {
	return e.Err
}

// TransportError is returned when the deployment endpoint could not be reached or the request did not complete,
// e.g. DNS failures, refused connections, TLS errors or cancellation.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("failed to reach %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RejectionError is returned when the deployment endpoint answered with anything but a 2xx status code.
type RejectionError struct {
	URL     string
	Outcome Outcome
	Response
}

func (e *RejectionError) Error() string {
	status := e.Status
	if status == "" {
		status = StatusText(e.StatusCode)
	}
	if e.Body == "" {
		return fmt.Sprintf("deployment %s by %s (%s)", e.Outcome, e.URL, status)
	}
	return fmt.Sprintf("deployment %s by %s (%s): %s", e.Outcome, e.URL, status, e.Body)
}
