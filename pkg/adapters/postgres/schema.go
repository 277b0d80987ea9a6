package postgres

import "context"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS lienzo_drafts (
    id          TEXT PRIMARY KEY,
    document_id TEXT NOT NULL UNIQUE,
    definition  JSONB,
    canvas      JSONB,
    revision    BIGINT NOT NULL DEFAULT 1,
    updated_by  TEXT NOT NULL DEFAULT '',
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS lienzo_versions (
    document_id  TEXT NOT NULL,
    number       INTEGER NOT NULL,
    definition   JSONB NOT NULL,
    canvas       JSONB,
    published_by TEXT NOT NULL DEFAULT '',
    notes        TEXT NOT NULL DEFAULT '',
    published_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (document_id, number)
);
`

// CreateSchema creates the lienzo_drafts and lienzo_versions tables if they don't exist.
func (s *PGStore) CreateSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, schemaSQL)
	return err
}

// DropSchema drops the lienzo_versions and lienzo_drafts tables.
func (s *PGStore) DropSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `DROP TABLE IF EXISTS lienzo_versions, lienzo_drafts CASCADE;`)
	return err
}
