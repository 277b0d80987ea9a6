package actions

import (
	"log/slog"
	"time"

	"github.com/aretw0/lienzo/pkg/validate"
)

type config struct {
	logger      *slog.Logger
	now         func() time.Time
	passthrough validate.PassthroughPolicy
	maxCycles   int
	observe     func(action string, err error)
}

func newConfig(opts []Option) config {
	cfg := config{passthrough: validate.PassthroughWarn}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Option configures an action.
type Option func(*config)

// WithLogger routes debug output of the repair, validate and normalize
// stages to l.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithClock sets the clock used to stamp the normalized result.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		c.now = now
	}
}

// WithPassthroughPolicy sets how single-choice decisions are judged.
func WithPassthroughPolicy(p validate.PassthroughPolicy) Option {
	return func(c *config) {
		c.passthrough = p
	}
}

// WithMaxCycles caps the cycles the validate stage enumerates. Values
// below 1 keep the validator default.
func WithMaxCycles(n int) Option {
	return func(c *config) {
		c.maxCycles = n
	}
}

// WithObserver registers a callback invoked once per finished action with
// its outcome. Macros report each primitive they run.
func WithObserver(fn func(action string, err error)) Option {
	return func(c *config) {
		c.observe = fn
	}
}
