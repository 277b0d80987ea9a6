// Package postgres implements ports.Store on PostgreSQL via pgx.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/aretw0/lienzo/pkg/domain"
	"github.com/aretw0/lienzo/pkg/ports"
)

// Querier is the subset of *pgxpool.Pool (and pgx.Tx) the store uses.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PGStore implements ports.Store using PostgreSQL.
type PGStore struct {
	db  Querier
	now func() time.Time
}

// New creates a new PGStore backed by the given pgx connection pool.
func New(db Querier) *PGStore {
	return &PGStore{db: db, now: time.Now}
}

const uniqueViolation = "23505"

const (
	putDraftSQL = `
INSERT INTO lienzo_drafts (id, document_id, definition, canvas, revision, updated_by, updated_at)
VALUES ($1, $2, $3, $4, 1, $5, $6)
ON CONFLICT (document_id) DO UPDATE SET
    id = EXCLUDED.id,
    definition = EXCLUDED.definition,
    canvas = EXCLUDED.canvas,
    revision = lienzo_drafts.revision + 1,
    updated_by = EXCLUDED.updated_by,
    updated_at = EXCLUDED.updated_at
RETURNING revision`

	getDraftSQL = `
SELECT id, document_id, definition, canvas, revision, updated_by, updated_at
FROM lienzo_drafts WHERE document_id = $1`

	updateCanvasSQL = `
UPDATE lienzo_drafts
SET canvas = $2, updated_by = $3, updated_at = $4, revision = revision + 1
WHERE id = $1 AND ($5::bigint = 0 OR revision = $5)`

	draftRevisionSQL = `SELECT revision FROM lienzo_drafts WHERE id = $1`

	createVersionSQL = `
INSERT INTO lienzo_versions (document_id, number, definition, canvas, published_by, notes, published_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	latestVersionSQL = `
SELECT document_id, number, definition, canvas, published_by, notes, published_at
FROM lienzo_versions WHERE document_id = $1
ORDER BY number DESC LIMIT 1`
)

// PutDraft upserts the draft of draft.DocumentID.
func (s *PGStore) PutDraft(ctx context.Context, draft *ports.Draft) error {
	definition, err := jsonb(draft.Definition)
	if err != nil {
		return fmt.Errorf("lienzo: marshal definition: %w", err)
	}
	canvas, err := jsonb(draft.Canvas)
	if err != nil {
		return fmt.Errorf("lienzo: marshal canvas: %w", err)
	}
	updatedAt := draft.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = s.now()
	}

	var revision int64
	err = s.db.QueryRow(ctx, putDraftSQL,
		draft.ID, draft.DocumentID, definition, canvas, draft.UpdatedBy, updatedAt,
	).Scan(&revision)
	if err != nil {
		return fmt.Errorf("lienzo: put draft: %w", err)
	}
	draft.Revision = revision
	return nil
}

// GetCurrentDraft fetches the draft of documentID.
func (s *PGStore) GetCurrentDraft(ctx context.Context, documentID string) (*ports.Draft, error) {
	var (
		d                  ports.Draft
		definition, canvas []byte
	)
	err := s.db.QueryRow(ctx, getDraftSQL, documentID).Scan(
		&d.ID, &d.DocumentID, &definition, &canvas, &d.Revision, &d.UpdatedBy, &d.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrDraftNotFound
		}
		return nil, fmt.Errorf("lienzo: get draft: %w", err)
	}
	if d.Definition, err = decode[domain.Recorrido](definition); err != nil {
		return nil, fmt.Errorf("lienzo: decode definition: %w", err)
	}
	if d.Canvas, err = decode[domain.Canvas](canvas); err != nil {
		return nil, fmt.Errorf("lienzo: decode canvas: %w", err)
	}
	return &d, nil
}

// UpdateCanvas replaces the canvas when the revision matches. The write
// lands when exactly one row is affected.
func (s *PGStore) UpdateCanvas(ctx context.Context, u ports.CanvasUpdate) (ports.UpdateResult, error) {
	canvas, err := jsonb(u.Canvas)
	if err != nil {
		return ports.UpdateResult{}, fmt.Errorf("lienzo: marshal canvas: %w", err)
	}
	ct, err := s.db.Exec(ctx, updateCanvasSQL, u.DraftID, canvas, u.Actor, s.now(), u.ExpectedRevision)
	if err != nil {
		return ports.UpdateResult{}, fmt.Errorf("lienzo: update canvas: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ports.UpdateResult{}, nil
	}

	res := ports.UpdateResult{RowCount: ct.RowsAffected(), Revision: u.ExpectedRevision + 1}
	if u.ExpectedRevision == 0 {
		if err := s.db.QueryRow(ctx, draftRevisionSQL, u.DraftID).Scan(&res.Revision); err != nil {
			return ports.UpdateResult{}, fmt.Errorf("lienzo: read revision: %w", err)
		}
	}
	return res, nil
}

// CreateVersion inserts v. The (document_id, number) primary key rejects
// duplicates.
func (s *PGStore) CreateVersion(ctx context.Context, v *ports.Version) error {
	definition, err := jsonb(v.Definition)
	if err != nil {
		return fmt.Errorf("lienzo: marshal definition: %w", err)
	}
	canvas, err := jsonb(v.Canvas)
	if err != nil {
		return fmt.Errorf("lienzo: marshal canvas: %w", err)
	}
	publishedAt := v.PublishedAt
	if publishedAt.IsZero() {
		publishedAt = s.now()
	}

	_, err = s.db.Exec(ctx, createVersionSQL,
		v.DocumentID, v.Number, definition, canvas, v.PublishedBy, v.Notes, publishedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrVersionExists
		}
		return fmt.Errorf("lienzo: insert version: %w", err)
	}
	return nil
}

// LatestVersion fetches the highest-numbered version of documentID.
func (s *PGStore) LatestVersion(ctx context.Context, documentID string) (*ports.Version, error) {
	var (
		v                  ports.Version
		definition, canvas []byte
	)
	err := s.db.QueryRow(ctx, latestVersionSQL, documentID).Scan(
		&v.DocumentID, &v.Number, &definition, &canvas, &v.PublishedBy, &v.Notes, &v.PublishedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrVersionNotFound
		}
		return nil, fmt.Errorf("lienzo: latest version: %w", err)
	}
	if v.Definition, err = decode[domain.Recorrido](definition); err != nil {
		return nil, fmt.Errorf("lienzo: decode definition: %w", err)
	}
	if v.Canvas, err = decode[domain.Canvas](canvas); err != nil {
		return nil, fmt.Errorf("lienzo: decode canvas: %w", err)
	}
	return &v, nil
}

// jsonb encodes v for a JSONB column; nil becomes SQL NULL.
func jsonb[T any](v *T) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

func decode[T any](data []byte) (*T, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
