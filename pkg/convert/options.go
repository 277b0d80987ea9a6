// Package convert translates between the canvas graph and the recorrido
// flow executed by the runtime.
//
// Compile lowers a canvas to a recorrido; Lift raises a recorrido back into
// an editable canvas, inferring node kinds from step types and templates.
// The two directions preserve topology, not bytes.
package convert

import (
	"log/slog"
	"time"
)

type config struct {
	keepUnreachable bool
	layout          bool
	now             func() time.Time
	logger          *slog.Logger
}

func newConfig(opts []Option) config {
	cfg := config{layout: true, now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Option configures a conversion.
type Option func(*config)

// KeepUnreachable makes Compile keep steps that cannot be reached from the
// entry step.
func KeepUnreachable() Option {
	return func(c *config) {
		c.keepUnreachable = true
	}
}

// WithoutLayout makes Lift place every node at the origin.
func WithoutLayout() Option {
	return func(c *config) {
		c.layout = false
	}
}

// WithClock sets the clock used for the timestamps of lifted canvases.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger sets a logger for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}
