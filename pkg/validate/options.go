package validate

import "log/slog"

// Mode selects the rule set.
type Mode string

const (
	// ModeDraft is the permissive rule set applied while editing.
	ModeDraft Mode = "draft"
	// ModeStrict is the publish-time rule set.
	ModeStrict Mode = "strict"
)

// PassthroughPolicy decides how strict mode treats a decision with a
// single choice. The engine never rewrites such a decision; the policy
// only controls whether publishing is blocked.
type PassthroughPolicy string

const (
	// PassthroughWarn reports single-choice decisions as warnings.
	PassthroughWarn PassthroughPolicy = "warn"
	// PassthroughReject reports them as errors in strict mode.
	PassthroughReject PassthroughPolicy = "reject"
)

// DefaultMaxCycles bounds cycle enumeration on pathological graphs.
const DefaultMaxCycles = 1000

type config struct {
	mode        Mode
	passthrough PassthroughPolicy
	maxCycles   int
	logger      *slog.Logger
}

func defaultConfig() config {
	return config{
		mode:        ModeDraft,
		passthrough: PassthroughWarn,
		maxCycles:   DefaultMaxCycles,
	}
}

// Option configures a validation run.
type Option func(*config)

// Strict selects the publish-time rule set.
func Strict() Option {
	return WithMode(ModeStrict)
}

// WithMode selects the rule set explicitly.
func WithMode(m Mode) Option {
	return func(c *config) {
		if m == ModeStrict || m == ModeDraft {
			c.mode = m
		}
	}
}

// WithPassthroughPolicy sets the single-choice decision policy.
func WithPassthroughPolicy(p PassthroughPolicy) Option {
	return func(c *config) {
		if p == PassthroughWarn || p == PassthroughReject {
			c.passthrough = p
		}
	}
}

// WithMaxCycles caps the number of cycles enumerated. Values below 1 are ignored.
func WithMaxCycles(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxCycles = n
		}
	}
}

// WithLogger sets a logger for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}
