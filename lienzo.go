package lienzo

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/lienzo/internal/logging"
	"github.com/aretw0/lienzo/internal/metrics"
	"github.com/aretw0/lienzo/pkg/actions"
	"github.com/aretw0/lienzo/pkg/convert"
	"github.com/aretw0/lienzo/pkg/domain"
	"github.com/aretw0/lienzo/pkg/normalize"
	"github.com/aretw0/lienzo/pkg/ports"
	"github.com/aretw0/lienzo/pkg/repair"
	"github.com/aretw0/lienzo/pkg/validate"
)

// Engine is the high-level entry point for the lienzo library.
// It is safe for concurrent use; all document operations are pure and the
// workflows delegate concurrency control to the store.
type Engine struct {
	store     ports.Store
	locker    ports.DistributedLocker
	metrics   *metrics.Metrics
	logger    *slog.Logger
	now       func() time.Time
	policy    validate.PassthroughPolicy
	maxCycles int
	lockTTL   time.Duration
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithStore sets the persistence collaborator used by Load, Save and Publish.
func WithStore(s ports.Store) Option {
	return func(e *Engine) {
		e.store = s
	}
}

// WithLocker serializes publishes of the same document across replicas.
func WithLocker(l ports.DistributedLocker) Option {
	return func(e *Engine) {
		e.locker = l
	}
}

// WithMetrics registers the engine collectors with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(e *Engine) {
		e.metrics = metrics.New(reg)
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithClock sets the clock used for document timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithPassthroughPolicy sets how single-choice decisions are judged.
func WithPassthroughPolicy(p validate.PassthroughPolicy) Option {
	return func(e *Engine) {
		e.policy = p
	}
}

// WithMaxCycles bounds the cycle enumeration of the validator.
func WithMaxCycles(n int) Option {
	return func(e *Engine) {
		e.maxCycles = n
	}
}

// New initializes a new Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		now:       time.Now,
		policy:    validate.PassthroughWarn,
		maxCycles: validate.DefaultMaxCycles,
		lockTTL:   30 * time.Second,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = logging.NewNop()
	}
	return e
}

func (e *Engine) validateOpts(extra []validate.Option) []validate.Option {
	opts := []validate.Option{
		validate.WithPassthroughPolicy(e.policy),
		validate.WithMaxCycles(e.maxCycles),
		validate.WithLogger(e.logger),
	}
	return append(opts, extra...)
}

func (e *Engine) actionOpts() []actions.Option {
	return []actions.Option{
		actions.WithLogger(e.logger),
		actions.WithClock(e.now),
		actions.WithPassthroughPolicy(e.policy),
		actions.WithMaxCycles(e.maxCycles),
		actions.WithObserver(e.observe),
	}
}

func (e *Engine) observe(action string, err error) {
	e.metrics.ObserveAction(action, err)
	if err != nil {
		e.logger.Warn("action rejected",
			slog.String("action", action),
			slog.String("code", actions.ErrorCode(err)),
			slog.Any("err", err),
		)
		return
	}
	e.logger.Debug("action applied", slog.String("action", action))
}

func (e *Engine) record(res validate.Result) {
	for _, i := range res.Errors {
		e.metrics.ObserveIssue(string(i.Severity), string(i.Code))
	}
	for _, i := range res.Warnings {
		e.metrics.ObserveIssue(string(i.Severity), string(i.Code))
	}
}

// Validate checks doc in draft mode unless validate.Strict is passed.
// The engine passthrough policy and cycle limit apply first.
func (e *Engine) Validate(doc *domain.Canvas, opts ...validate.Option) validate.Result {
	start := time.Now()
	defer e.metrics.Since("validate", start)

	res := validate.Canvas(doc, e.validateOpts(opts)...)
	e.record(res)
	return res
}

// Normalize returns the canonical form of doc.
func (e *Engine) Normalize(doc *domain.Canvas) *domain.Canvas {
	start := time.Now()
	defer e.metrics.Since("normalize", start)

	return normalize.Canvas(doc, normalize.WithClock(e.now), normalize.WithLogger(e.logger))
}

// Repair connects every unreachable end node of doc.
func (e *Engine) Repair(doc *domain.Canvas) *domain.Canvas {
	return repair.UnreachableEnds(doc, repair.WithLogger(e.logger))
}

// Compile lowers doc to a recorrido.
func (e *Engine) Compile(doc *domain.Canvas, opts ...convert.Option) (*domain.Recorrido, error) {
	start := time.Now()
	defer e.metrics.Since("compile", start)

	opts = append([]convert.Option{convert.WithLogger(e.logger), convert.WithClock(e.now)}, opts...)
	return convert.Compile(doc, opts...)
}

// Lift raises rec into an editable canvas.
func (e *Engine) Lift(rec *domain.Recorrido, opts ...convert.Option) (*domain.Canvas, error) {
	opts = append([]convert.Option{convert.WithLogger(e.logger), convert.WithClock(e.now)}, opts...)
	return convert.Lift(rec, opts...)
}
