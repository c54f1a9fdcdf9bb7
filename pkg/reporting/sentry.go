// Package reporting forwards command failures to Sentry. A Reporter built
// without a DSN is nil and every method on it is a no-op.
package reporting

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
)

// Options configures the Sentry client
type Options struct {
	DSN         string
	Environment string
	Release     string
	// BeforeSend may inspect or drop events before they leave the process
	BeforeSend func(event *sentry.Event, hint *sentry.EventHint) *sentry.Event
}

// Reporter captures errors on its own hub
type Reporter struct {
	hub *sentry.Hub
}

// New creates a Reporter, or nil when opts.DSN is empty
func New(opts Options) (*Reporter, error) {
	if opts.DSN == "" {
		return nil, nil
	}

	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:         opts.DSN,
		Environment: opts.Environment,
		Release:     opts.Release,
		BeforeSend:  opts.BeforeSend,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create sentry client: %w", err)
	}

	return &Reporter{hub: sentry.NewHub(client, sentry.NewScope())}, nil
}

// Capture sends err with tags attached
func (r *Reporter) Capture(err error, tags map[string]string) {
	if r == nil || err == nil {
		return
	}
	r.hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
		r.hub.CaptureException(err)
	})
}

// Flush waits up to timeout for queued events to be delivered
func (r *Reporter) Flush(timeout time.Duration) bool {
	if r == nil {
		return true
	}
	return r.hub.Flush(timeout)
}
