// Package file implements ports.Store on the local filesystem: one JSON file
// per draft and one per published version.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/lienzo/pkg/domain"
	"github.com/aretw0/lienzo/pkg/ports"
)

// Store implements ports.Store using the local filesystem.
// Writes are serialized within the process; concurrent processes sharing a
// directory are not coordinated.
type Store struct {
	BasePath string

	mu  sync.Mutex
	now func() time.Time
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to ".lienzo/store".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".lienzo", "store")
	}
	return &Store{BasePath: basePath, now: time.Now}
}

func (s *Store) draftsDir() string { return filepath.Join(s.BasePath, "drafts") }

func (s *Store) draftPath(documentID string) string {
	return filepath.Join(s.draftsDir(), url.PathEscape(documentID)+".json")
}

func (s *Store) versionsDir(documentID string) string {
	return filepath.Join(s.BasePath, "versions", url.PathEscape(documentID))
}

// PutDraft writes the draft file atomically.
func (s *Store) PutDraft(ctx context.Context, draft *ports.Draft) error {
	if draft.DocumentID == "" {
		return fmt.Errorf("documentID cannot be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *draft
	stored.Revision = 1
	prev, err := s.readDraft(s.draftPath(draft.DocumentID))
	switch {
	case err == nil:
		stored.Revision = prev.Revision + 1
	case !errors.Is(err, domain.ErrDraftNotFound):
		return err
	}
	if stored.UpdatedAt.IsZero() {
		stored.UpdatedAt = s.now()
	}
	if err := writeJSON(s.draftPath(draft.DocumentID), &stored); err != nil {
		return err
	}
	draft.Revision = stored.Revision
	return nil
}

// GetCurrentDraft reads the draft file of documentID.
func (s *Store) GetCurrentDraft(ctx context.Context, documentID string) (*ports.Draft, error) {
	if documentID == "" {
		return nil, fmt.Errorf("documentID cannot be empty")
	}
	return s.readDraft(s.draftPath(documentID))
}

// UpdateCanvas rewrites the draft when the revision matches.
func (s *Store) UpdateCanvas(ctx context.Context, u ports.CanvasUpdate) (ports.UpdateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, d, err := s.findDraft(u.DraftID)
	if err != nil || d == nil {
		return ports.UpdateResult{}, err
	}
	if u.ExpectedRevision != 0 && d.Revision != u.ExpectedRevision {
		return ports.UpdateResult{}, nil
	}
	d.Canvas = u.Canvas
	d.UpdatedBy = u.Actor
	d.UpdatedAt = s.now()
	d.Revision++
	if err := writeJSON(path, d); err != nil {
		return ports.UpdateResult{}, err
	}
	return ports.UpdateResult{RowCount: 1, Revision: d.Revision}, nil
}

func (s *Store) findDraft(draftID string) (string, *ports.Draft, error) {
	entries, err := os.ReadDir(s.draftsDir())
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, nil
		}
		return "", nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		path := filepath.Join(s.draftsDir(), entry.Name())
		d, err := s.readDraft(path)
		if err != nil {
			return "", nil, err
		}
		if d.ID == draftID {
			return path, d, nil
		}
	}
	return "", nil, nil
}

func (s *Store) readDraft(path string) (*ports.Draft, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrDraftNotFound
		}
		return nil, fmt.Errorf("failed to read draft file: %w", err)
	}
	var d ports.Draft
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft: %w", err)
	}
	return &d, nil
}

// CreateVersion writes a new version file. Existing versions are never
// overwritten.
func (s *Store) CreateVersion(ctx context.Context, v *ports.Version) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := s.versionsDir(v.DocumentID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to ensure versions directory: %w", err)
	}
	stored := *v
	if stored.PublishedAt.IsZero() {
		stored.PublishedAt = s.now()
	}
	data, err := json.MarshalIndent(&stored, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal version: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(dir, strconv.Itoa(v.Number)+".json"), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if os.IsExist(err) {
			return domain.ErrVersionExists
		}
		return fmt.Errorf("failed to create version file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write version file: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to fsync version file: %w", err)
	}
	return f.Close()
}

// LatestVersion reads the highest-numbered version file.
func (s *Store) LatestVersion(ctx context.Context, documentID string) (*ports.Version, error) {
	entries, err := os.ReadDir(s.versionsDir(documentID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrVersionNotFound
		}
		return nil, fmt.Errorf("failed to list versions: %w", err)
	}
	latest := 0
	for _, entry := range entries {
		n, err := strconv.Atoi(strings.TrimSuffix(entry.Name(), ".json"))
		if err == nil && n > latest {
			latest = n
		}
	}
	if latest == 0 {
		return nil, domain.ErrVersionNotFound
	}

	data, err := os.ReadFile(filepath.Join(s.versionsDir(documentID), strconv.Itoa(latest)+".json"))
	if err != nil {
		return nil, fmt.Errorf("failed to read version file: %w", err)
	}
	var v ports.Version
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to unmarshal version: %w", err)
	}
	return &v, nil
}

// writeJSON writes v to path atomically.
// It writes to a temporary file first, syncs via fsync, and then renames it to the destination.
func writeJSON(path string, v any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to ensure directory: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	// same directory, so the rename stays on one filesystem
	tmpFile, err := os.CreateTemp(dir, "tmp-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Windows cannot rename an open file.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
