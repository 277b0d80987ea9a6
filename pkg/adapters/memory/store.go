package memory

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/lienzo/pkg/domain"
	"github.com/aretw0/lienzo/pkg/ports"
)

// Store implements ports.Store in memory.
// Safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	drafts   map[string]*ports.Draft // by document id
	byID     map[string]string       // draft id -> document id
	versions map[string]map[int]*ports.Version
	now      func() time.Time
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		drafts:   make(map[string]*ports.Draft),
		byID:     make(map[string]string),
		versions: make(map[string]map[int]*ports.Version),
		now:      time.Now,
	}
}

func copyDraft(d *ports.Draft) *ports.Draft {
	out := *d
	out.Canvas = d.Canvas.DeepCopy()
	out.Definition = d.Definition.DeepCopy()
	return &out
}

func copyVersion(v *ports.Version) *ports.Version {
	out := *v
	out.Canvas = v.Canvas.DeepCopy()
	out.Definition = v.Definition.DeepCopy()
	return &out
}

// PutDraft stores a copy of draft.
func (s *Store) PutDraft(ctx context.Context, draft *ports.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := copyDraft(draft)
	stored.Revision = 1
	if prev, ok := s.drafts[draft.DocumentID]; ok {
		stored.Revision = prev.Revision + 1
		delete(s.byID, prev.ID)
	}
	if stored.UpdatedAt.IsZero() {
		stored.UpdatedAt = s.now()
	}
	s.drafts[draft.DocumentID] = stored
	s.byID[draft.ID] = draft.DocumentID
	draft.Revision = stored.Revision
	return nil
}

// GetCurrentDraft returns a copy of the draft of documentID.
func (s *Store) GetCurrentDraft(ctx context.Context, documentID string) (*ports.Draft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.drafts[documentID]
	if !ok {
		return nil, domain.ErrDraftNotFound
	}
	return copyDraft(d), nil
}

// UpdateCanvas replaces the canvas when the revision matches.
func (s *Store) UpdateCanvas(ctx context.Context, u ports.CanvasUpdate) (ports.UpdateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[s.byID[u.DraftID]]
	if !ok || (u.ExpectedRevision != 0 && d.Revision != u.ExpectedRevision) {
		return ports.UpdateResult{}, nil
	}
	d.Canvas = u.Canvas.DeepCopy()
	d.UpdatedBy = u.Actor
	d.UpdatedAt = s.now()
	d.Revision++
	return ports.UpdateResult{RowCount: 1, Revision: d.Revision}, nil
}

// CreateVersion stores a copy of v.
func (s *Store) CreateVersion(ctx context.Context, v *ports.Version) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byNumber, ok := s.versions[v.DocumentID]
	if !ok {
		byNumber = make(map[int]*ports.Version)
		s.versions[v.DocumentID] = byNumber
	}
	if _, taken := byNumber[v.Number]; taken {
		return domain.ErrVersionExists
	}
	stored := copyVersion(v)
	if stored.PublishedAt.IsZero() {
		stored.PublishedAt = s.now()
	}
	byNumber[v.Number] = stored
	return nil
}

// LatestVersion returns a copy of the highest-numbered version.
func (s *Store) LatestVersion(ctx context.Context, documentID string) (*ports.Version, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *ports.Version
	for _, v := range s.versions[documentID] {
		if latest == nil || v.Number > latest.Number {
			latest = v
		}
	}
	if latest == nil {
		return nil, domain.ErrVersionNotFound
	}
	return copyVersion(latest), nil
}
