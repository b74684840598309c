package logging

import (
	"log/slog"

	"github.com/rollbar/rollbar-go"
)

// Reporter forwards server errors to Rollbar. A zero token disables reporting.
type Reporter struct {
	enabled bool
	log     *slog.Logger
}

// NewReporter configures the global rollbar client.
func NewReporter(log *slog.Logger, token, env, version string) *Reporter {
	r := &Reporter{enabled: token != "", log: log}
	rollbar.SetToken(token)
	rollbar.SetEnvironment(env)
	rollbar.SetCodeVersion(version)
	rollbar.SetEnabled(r.enabled)
	return r
}

// Report logs the error and sends it to Rollbar with request metadata.
func (r *Reporter) Report(msg string, err error, extras map[string]interface{}) {
	if r == nil {
		return
	}
	if r.log != nil {
		r.log.Error(msg, Err(err))
	}
	if !r.enabled {
		return
	}
	rollbar.Error(err, extras)
}

// Close flushes pending reports.
func (r *Reporter) Close() {
	if r == nil || !r.enabled {
		return
	}
	rollbar.Close()
}
