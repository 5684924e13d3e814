// Package publish archives a directory and deploys the archive.
package publish

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/saucelabs/zipdeploy/internal/archive/zip"
	"github.com/saucelabs/zipdeploy/internal/ci"
	"github.com/saucelabs/zipdeploy/internal/deploy"
	"github.com/saucelabs/zipdeploy/internal/deployignore"
	"github.com/saucelabs/zipdeploy/internal/hashio"
	"github.com/saucelabs/zipdeploy/internal/msg"
	"github.com/saucelabs/zipdeploy/internal/notification"
	"github.com/saucelabs/zipdeploy/internal/report"
)

// Publisher archives Source into Archive and hands the archive to the Uploader.
type Publisher struct {
	// Name identifies the publish in logs and reports.
	Name    string
	Source  string
	Archive string
	// URL of the deployment endpoint. Only used for reporting.
	URL      string
	Matcher  deployignore.Matcher
	Uploader deploy.Uploader
	// KeepArchive keeps the archive on disk after a successful upload.
	KeepArchive bool

	Reporters []report.Reporter
	Notifier  notification.Notifier
}

// Run archives and uploads. The archive is removed after a successful upload, unless KeepArchive is set, and always
// left on disk after a failed one. The returned error is one of *deploy.ArchiveError, *deploy.TransportError or
// *deploy.RejectionError, or nil.
func (p *Publisher) Run(ctx context.Context) (report.Result, error) {
	res := p.newResult()

	summary, err := zip.ArchiveDir(p.Source, p.Archive, p.Matcher)
	if err != nil {
		err = &deploy.ArchiveError{Source: p.Source, Path: p.Archive, Err: err}
		return p.finish(ctx, res, err), err
	}
	res.Files = summary.Files
	res.Size = summary.Size

	return p.upload(ctx, res)
}

// Upload deploys an existing archive. Cleanup follows the same rules as Run.
func (p *Publisher) Upload(ctx context.Context) (report.Result, error) {
	res := p.newResult()
	res.Source = ""

	finfo, err := os.Stat(p.Archive)
	if err != nil {
		err = &deploy.ArchiveError{Source: p.Archive, Path: p.Archive, Err: err}
		return p.finish(ctx, res, err), err
	}
	if finfo.IsDir() {
		err = &deploy.ArchiveError{Source: p.Archive, Path: p.Archive, Err: errors.New("is a directory")}
		return p.finish(ctx, res, err), err
	}
	res.Size = finfo.Size()

	return p.upload(ctx, res)
}

func (p *Publisher) newResult() report.Result {
	res := report.Result{
		Name:      p.Name,
		Source:    p.Source,
		Archive:   p.Archive,
		URL:       p.URL,
		StartTime: time.Now(),
	}
	if c, ok := ci.Detect(); ok {
		res.CI = &c
	}
	return res
}

func (p *Publisher) upload(ctx context.Context, res report.Result) (report.Result, error) {
	sum, err := hashio.SHA256(p.Archive)
	if err != nil {
		log.Warn().Err(err).Str("archive", p.Archive).Msg("Failed to compute the archive checksum.")
	}
	res.SHA256 = sum

	resp, err := p.Uploader.Deploy(ctx, p.Archive)
	if err != nil && !isTyped(err) {
		err = &deploy.TransportError{URL: p.URL, Err: err}
	}
	res.StatusCode = resp.StatusCode
	if resp.StatusCode != 0 {
		res.Outcome = deploy.Classify(resp.StatusCode).String()
	}

	return p.finish(ctx, res, err), err
}

// finish cleans up, completes res and hands it to the reporters and the notifier.
func (p *Publisher) finish(ctx context.Context, res report.Result, err error) report.Result {
	res.EndTime = time.Now()
	res.Duration = res.EndTime.Sub(res.StartTime)
	res.Passed = err == nil

	if err != nil {
		res.Error = err.Error()
		if res.Outcome == "" {
			res.Outcome = outcomeOf(err)
		}
	}

	res.ArchiveKept = p.cleanup(err)

	for _, r := range p.Reporters {
		r.Add(res)
		r.Render()
	}
	if p.Notifier != nil {
		p.Notifier.Notify(ctx, res)
	}

	if err != nil {
		msg.LogPublishFailure(p.Name, err)
	} else {
		msg.LogPublishSuccess(p.Name)
	}

	return res
}

// cleanup removes the archive after a successful upload and reports whether it is still on disk.
func (p *Publisher) cleanup(err error) bool {
	var archiveErr *deploy.ArchiveError
	if errors.As(err, &archiveErr) {
		// Nothing was written, or the partial archive has already been removed.
		return false
	}

	if err != nil {
		msg.LogArchiveKept(p.Archive)
		return true
	}
	if p.KeepArchive {
		log.Info().Str("archive", p.Archive).Msg("Keeping archive.")
		return true
	}

	if err := os.Remove(p.Archive); err != nil {
		log.Warn().Err(err).Str("archive", p.Archive).Msg("Failed to delete the archive.")
		return true
	}
	log.Debug().Str("archive", p.Archive).Msg("Archive deleted.")

	return false
}

// isTyped reports whether err is one of the errors that Run and Upload document.
func isTyped(err error) bool {
	var archiveErr *deploy.ArchiveError
	var transportErr *deploy.TransportError
	var rejectionErr *deploy.RejectionError
	return errors.As(err, &archiveErr) || errors.As(err, &transportErr) || errors.As(err, &rejectionErr)
}

func outcomeOf(err error) string {
	var archiveErr *deploy.ArchiveError
	var transportErr *deploy.TransportError
	switch {
	case errors.As(err, &archiveErr):
		return "archive failed"
	case errors.As(err, &transportErr):
		return "unreachable"
	default:
		return "failed"
	}
}
