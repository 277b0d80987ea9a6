package ports

import (
	"context"
	"time"

	"github.com/aretw0/lienzo/pkg/domain"
)

// Draft is the editable state of a document. A draft carries the canvas
// authored in the editor and, for documents created before the canvas
// existed, the recorrido definition it was saved as.
type Draft struct {
	ID         string            `json:"id"`
	DocumentID string            `json:"document_id"`
	Definition *domain.Recorrido `json:"definition,omitempty"`
	Canvas     *domain.Canvas    `json:"canvas,omitempty"`
	Revision   int64             `json:"revision"`
	UpdatedBy  string            `json:"updated_by,omitempty"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// CanvasUpdate replaces the canvas of a draft.
type CanvasUpdate struct {
	DraftID string
	Canvas  *domain.Canvas
	Actor   string
	// ExpectedRevision guards the write; zero writes unconditionally.
	ExpectedRevision int64
}

// UpdateResult reports the outcome of an optimistic update.
type UpdateResult struct {
	// RowCount is 0 when the draft is gone or its revision moved.
	RowCount int64
	// Revision is the revision of the stored draft after the write.
	Revision int64
}

// Version is an immutable published snapshot of a document.
type Version struct {
	DocumentID  string            `json:"document_id"`
	Number      int               `json:"number"`
	Definition  *domain.Recorrido `json:"definition"`
	Canvas      *domain.Canvas    `json:"canvas,omitempty"`
	PublishedBy string            `json:"published_by,omitempty"`
	Notes       string            `json:"notes,omitempty"`
	PublishedAt time.Time         `json:"published_at"`
}

// DraftStore persists drafts.
type DraftStore interface {
	// PutDraft creates or replaces the draft of draft.DocumentID and bumps
	// its revision. The stored revision is written back into draft.
	PutDraft(ctx context.Context, draft *Draft) error

	// GetCurrentDraft returns the draft of a document.
	// Returns domain.ErrDraftNotFound if there is none.
	GetCurrentDraft(ctx context.Context, documentID string) (*Draft, error)

	// UpdateCanvas replaces the canvas of a draft when its revision still
	// matches. A lost update is reported through RowCount, not an error.
	UpdateCanvas(ctx context.Context, update CanvasUpdate) (UpdateResult, error)
}

// VersionStore persists published versions.
type VersionStore interface {
	// CreateVersion stores v. Returns domain.ErrVersionExists when the
	// document already has a version with that number.
	CreateVersion(ctx context.Context, v *Version) error

	// LatestVersion returns the highest-numbered version of a document.
	// Returns domain.ErrVersionNotFound if nothing was published yet.
	LatestVersion(ctx context.Context, documentID string) (*Version, error)
}

// Store is the complete persistence collaborator.
type Store interface {
	DraftStore
	VersionStore
}
