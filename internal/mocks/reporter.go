package mocks

import (
	"context"

	"github.com/saucelabs/zipdeploy/internal/report"
)

// FakeReporter collects results for inspection.
type FakeReporter struct {
	Results  []report.Result
	Rendered int
}

// Add adds r to Results.
func (f *FakeReporter) Add(r report.Result) {
	f.Results = append(f.Results, r)
}

// Render counts the number of renders.
func (f *FakeReporter) Render() {
	f.Rendered++
}

// Reset clears Results.
func (f *FakeReporter) Reset() {
	f.Results = nil
}

// FakeNotifier is a mock for the notification.Notifier interface.
type FakeNotifier struct {
	Notified []report.Result
}

// Notify records r.
func (f *FakeNotifier) Notify(_ context.Context, r report.Result) {
	f.Notified = append(f.Notified, r)
}
