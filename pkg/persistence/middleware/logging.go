package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/lienzo/pkg/ports"
)

type loggingMiddleware struct {
	next   ports.Store
	logger *slog.Logger
}

// NewLoggingMiddleware logs every store call at debug level, and failures
// at warn level, with the document id and the call duration.
func NewLoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next ports.Store) ports.Store {
		return &loggingMiddleware{next: next, logger: logger}
	}
}

func (m *loggingMiddleware) log(ctx context.Context, op, documentID string, start time.Time, err error, attrs ...slog.Attr) {
	attrs = append(attrs,
		slog.String("op", op),
		slog.String("document_id", documentID),
		slog.Duration("took", time.Since(start)),
	)
	if err != nil {
		attrs = append(attrs, slog.Any("err", err))
		m.logger.LogAttrs(ctx, slog.LevelWarn, "store call failed", attrs...)
		return
	}
	m.logger.LogAttrs(ctx, slog.LevelDebug, "store call", attrs...)
}

func (m *loggingMiddleware) PutDraft(ctx context.Context, draft *ports.Draft) error {
	start := time.Now()
	err := m.next.PutDraft(ctx, draft)
	m.log(ctx, "put_draft", draft.DocumentID, start, err, slog.Int64("revision", draft.Revision))
	return err
}

func (m *loggingMiddleware) GetCurrentDraft(ctx context.Context, documentID string) (*ports.Draft, error) {
	start := time.Now()
	d, err := m.next.GetCurrentDraft(ctx, documentID)
	m.log(ctx, "get_current_draft", documentID, start, err)
	return d, err
}

func (m *loggingMiddleware) UpdateCanvas(ctx context.Context, u ports.CanvasUpdate) (ports.UpdateResult, error) {
	start := time.Now()
	res, err := m.next.UpdateCanvas(ctx, u)
	m.log(ctx, "update_canvas", u.DraftID, start, err,
		slog.Int64("rows", res.RowCount),
		slog.Int64("revision", res.Revision),
	)
	return res, err
}

func (m *loggingMiddleware) CreateVersion(ctx context.Context, v *ports.Version) error {
	start := time.Now()
	err := m.next.CreateVersion(ctx, v)
	m.log(ctx, "create_version", v.DocumentID, start, err, slog.Int("version", v.Number))
	return err
}

func (m *loggingMiddleware) LatestVersion(ctx context.Context, documentID string) (*ports.Version, error) {
	start := time.Now()
	v, err := m.next.LatestVersion(ctx, documentID)
	m.log(ctx, "latest_version", documentID, start, err)
	return v, err
}
