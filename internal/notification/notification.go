// Package notification sends publish results to chat services.
package notification

import (
	"context"

	"github.com/saucelabs/zipdeploy/internal/report"
)

// Notifier represents common interface for sending notifications.
type Notifier interface {
	// Notify announces the result. Failures are logged, since a missed notification must not fail a publish.
	Notify(ctx context.Context, r report.Result)
}
