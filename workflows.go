package lienzo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/lienzo/internal/metrics"
	"github.com/aretw0/lienzo/pkg/domain"
	"github.com/aretw0/lienzo/pkg/ports"
	"github.com/aretw0/lienzo/pkg/validate"
)

// ErrNoStore is returned by the workflows when the engine has no store.
var ErrNoStore = errors.New("no store configured")

// ValidationFailedError is returned by Publish when the canvas has strict
// validation errors.
type ValidationFailedError struct {
	DocumentID string
	Issues     []validate.Issue
}

func (e *ValidationFailedError) Error() string {
	return fmt.Sprintf("publish of %q blocked: %v", e.DocumentID, e.Unwrap())
}

// Unwrap exposes the issues as a *validate.Error.
func (e *ValidationFailedError) Unwrap() error {
	return &validate.Error{Issues: e.Issues}
}

// LoadResult is the effective canvas of a draft.
type LoadResult struct {
	Draft  *ports.Draft
	Canvas *domain.Canvas
	// Derived is set when the canvas was lifted from the draft definition
	// because no canvas was stored.
	Derived bool
}

// SaveResult reports the outcome of Save. OK is true only when the write
// landed and the canvas has no errors; Stored is false when the optimistic
// update affected no row.
type SaveResult struct {
	OK       bool             `json:"ok"`
	Stored   bool             `json:"stored"`
	Conflict bool             `json:"conflict"`
	Revision int64            `json:"revision,omitempty"`
	Canvas   *domain.Canvas   `json:"canvas"`
	Errors   []validate.Issue `json:"errors"`
	Warnings []validate.Issue `json:"warnings"`
}

// PublishRequest carries the audit fields of a publish.
type PublishRequest struct {
	Actor string
	Notes string
}

// PublishResult is the stored version and the warnings it was published with.
type PublishResult struct {
	Version  *ports.Version
	Warnings []validate.Issue
}

// Load returns the effective canvas of the current draft of documentID.
func (e *Engine) Load(ctx context.Context, documentID string) (*LoadResult, error) {
	if e.store == nil {
		return nil, ErrNoStore
	}
	draft, err := e.store.GetCurrentDraft(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load draft %q: %w", documentID, err)
	}
	return e.effective(draft)
}

func (e *Engine) effective(draft *ports.Draft) (*LoadResult, error) {
	if draft.Canvas != nil {
		return &LoadResult{Draft: draft, Canvas: draft.Canvas}, nil
	}
	if draft.Definition == nil {
		doc := domain.NewCanvas(draft.DocumentID, "")
		return &LoadResult{Draft: draft, Canvas: doc, Derived: true}, nil
	}
	doc, err := e.Lift(draft.Definition)
	if err != nil {
		return nil, fmt.Errorf("failed to lift definition of %q: %w", draft.DocumentID, err)
	}
	return &LoadResult{Draft: draft, Canvas: doc, Derived: true}, nil
}

// Save repairs, normalizes and validates doc in draft mode, then stores it
// against the revision read at the start of the call. The canvas is stored
// even when it has validation errors. A concurrent write is reported as a
// conflict, not as an error.
func (e *Engine) Save(ctx context.Context, documentID string, doc *domain.Canvas, actor string) (*SaveResult, error) {
	if e.store == nil {
		return nil, ErrNoStore
	}
	if doc == nil {
		return nil, domain.ErrNilDocument
	}
	start := time.Now()
	defer e.metrics.Since("save", start)
	log := e.logger.With(slog.String("document_id", documentID))

	draft, err := e.store.GetCurrentDraft(ctx, documentID)
	if err != nil {
		e.metrics.ObserveSave(metrics.OutcomeError)
		return nil, fmt.Errorf("failed to load draft %q: %w", documentID, err)
	}

	canvas := e.Normalize(e.Repair(doc))
	res := e.Validate(canvas)

	upd, err := e.store.UpdateCanvas(ctx, ports.CanvasUpdate{
		DraftID:          draft.ID,
		Canvas:           canvas,
		Actor:            actor,
		ExpectedRevision: draft.Revision,
	})
	if err != nil {
		e.metrics.ObserveSave(metrics.OutcomeError)
		return nil, fmt.Errorf("failed to store canvas of %q: %w", documentID, err)
	}

	out := &SaveResult{
		Canvas:   canvas,
		Errors:   res.Errors,
		Warnings: res.Warnings,
	}
	switch {
	case upd.RowCount == 0:
		out.Conflict = true
		e.metrics.ObserveSave(metrics.OutcomeConflict)
		log.Warn("canvas not stored: draft changed concurrently", slog.Int64("revision", draft.Revision))
	case !res.OK:
		out.Stored = true
		out.Revision = upd.Revision
		e.metrics.ObserveSave(metrics.OutcomeInvalid)
		log.Info("canvas stored with errors", slog.Int("errors", len(res.Errors)), slog.Int64("revision", upd.Revision))
	default:
		out.OK, out.Stored = true, true
		out.Revision = upd.Revision
		e.metrics.ObserveSave(metrics.OutcomeStored)
		log.Info("canvas stored", slog.Int64("revision", upd.Revision))
	}
	return out, nil
}

// Publish compiles the effective canvas of documentID into the next
// immutable version. Strict validation errors block the publish with a
// *ValidationFailedError.
func (e *Engine) Publish(ctx context.Context, documentID string, req PublishRequest) (*PublishResult, error) {
	if e.store == nil {
		return nil, ErrNoStore
	}
	start := time.Now()
	defer e.metrics.Since("publish", start)
	log := e.logger.With(slog.String("document_id", documentID))

	if e.locker != nil {
		unlock, err := e.locker.Lock(ctx, "publish:"+documentID, e.lockTTL)
		if err != nil {
			e.metrics.ObservePublish(metrics.OutcomeError)
			return nil, fmt.Errorf("failed to lock %q: %w", documentID, err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				log.Warn("failed to release publish lock", slog.Any("err", err))
			}
		}()
	}

	res, err := e.publish(ctx, documentID, req)
	switch {
	case err == nil:
		e.metrics.ObservePublish(metrics.OutcomeOK)
		log.Info("version published", slog.Int("version", res.Version.Number), slog.String("actor", req.Actor))
	case errors.As(err, new(*ValidationFailedError)):
		e.metrics.ObservePublish(metrics.OutcomeBlocked)
		log.Warn("publish blocked", slog.Any("err", err))
	default:
		e.metrics.ObservePublish(metrics.OutcomeError)
	}
	return res, err
}

func (e *Engine) publish(ctx context.Context, documentID string, req PublishRequest) (*PublishResult, error) {
	loaded, err := e.Load(ctx, documentID)
	if err != nil {
		return nil, err
	}

	canvas := e.Normalize(loaded.Canvas)
	check := e.Validate(canvas, validate.Strict())
	if !check.OK {
		return nil, &ValidationFailedError{DocumentID: documentID, Issues: check.Errors}
	}

	rec, err := e.Compile(canvas)
	if err != nil {
		return nil, fmt.Errorf("failed to compile %q: %w", documentID, err)
	}

	number := 1
	latest, err := e.store.LatestVersion(ctx, documentID)
	switch {
	case err == nil:
		number = latest.Number + 1
	case !errors.Is(err, domain.ErrVersionNotFound):
		return nil, fmt.Errorf("failed to read latest version of %q: %w", documentID, err)
	}

	v := &ports.Version{
		DocumentID:  documentID,
		Number:      number,
		Definition:  rec,
		Canvas:      canvas,
		PublishedBy: req.Actor,
		Notes:       req.Notes,
		PublishedAt: e.now(),
	}
	if err := e.store.CreateVersion(ctx, v); err != nil {
		return nil, fmt.Errorf("failed to create version %d of %q: %w", number, documentID, err)
	}
	return &PublishResult{Version: v, Warnings: check.Warnings}, nil
}
