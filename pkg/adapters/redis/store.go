// Package redis implements ports.Store and ports.DistributedLocker on Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/aretw0/lienzo/pkg/domain"
	"github.com/aretw0/lienzo/pkg/ports"
)

// DefaultPrefix namespaces every key the store writes.
const DefaultPrefix = "lienzo:"

// Store implements ports.Store using Redis. Canvas updates are optimistic:
// the draft key is WATCHed and rewritten inside MULTI/EXEC.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
	now    func() time.Time
}

type Option func(*Store)

// WithTTL sets the expiration of drafts. Versions never expire.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: DefaultPrefix,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *Store) draftKey(documentID string) string    { return s.prefix + "draft:" + documentID }
func (s *Store) draftIDKey(draftID string) string     { return s.prefix + "draftid:" + draftID }
func (s *Store) versionsKey(documentID string) string { return s.prefix + "versions:" + documentID }

func (s *Store) versionKey(documentID string, n int) string {
	return s.prefix + "version:" + documentID + ":" + strconv.Itoa(n)
}

const maxRetries = 3

// PutDraft stores the draft, bumping the revision of any previous one.
func (s *Store) PutDraft(ctx context.Context, draft *ports.Draft) error {
	key := s.draftKey(draft.DocumentID)
	for attempt := 0; attempt < maxRetries; attempt++ {
		err := s.client.Watch(ctx, func(tx *backend.Tx) error {
			prev, err := getDraft(ctx, tx, key)
			if err != nil && !errors.Is(err, domain.ErrDraftNotFound) {
				return err
			}

			stored := *draft
			stored.Revision = 1
			if prev != nil {
				stored.Revision = prev.Revision + 1
			}
			if stored.UpdatedAt.IsZero() {
				stored.UpdatedAt = s.now()
			}
			data, err := json.Marshal(&stored)
			if err != nil {
				return fmt.Errorf("failed to marshal draft: %w", err)
			}

			_, err = tx.TxPipelined(ctx, func(pipe backend.Pipeliner) error {
				if prev != nil && prev.ID != draft.ID {
					pipe.Del(ctx, s.draftIDKey(prev.ID))
				}
				pipe.Set(ctx, key, data, s.ttl)
				pipe.Set(ctx, s.draftIDKey(draft.ID), draft.DocumentID, s.ttl)
				return nil
			})
			if err == nil {
				draft.Revision = stored.Revision
			}
			return err
		}, key)
		if !errors.Is(err, backend.TxFailedErr) {
			if err != nil {
				return fmt.Errorf("failed to save draft to redis: %w", err)
			}
			return nil
		}
	}
	return fmt.Errorf("failed to save draft to redis: %w", backend.TxFailedErr)
}

// GetCurrentDraft retrieves the draft of documentID.
func (s *Store) GetCurrentDraft(ctx context.Context, documentID string) (*ports.Draft, error) {
	return getDraft(ctx, s.client, s.draftKey(documentID))
}

type getter interface {
	Get(ctx context.Context, key string) *backend.StringCmd
}

func getDraft(ctx context.Context, c getter, key string) (*ports.Draft, error) {
	val, err := c.Get(ctx, key).Result()
	if err != nil {
		if err == backend.Nil {
			return nil, domain.ErrDraftNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}
	var d ports.Draft
	if err := json.Unmarshal([]byte(val), &d); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft: %w", err)
	}
	return &d, nil
}

// UpdateCanvas replaces the canvas when the revision matches. A concurrent
// write to the same draft makes the transaction fail, which is reported as
// a lost update.
func (s *Store) UpdateCanvas(ctx context.Context, u ports.CanvasUpdate) (ports.UpdateResult, error) {
	documentID, err := s.client.Get(ctx, s.draftIDKey(u.DraftID)).Result()
	if err == backend.Nil {
		return ports.UpdateResult{}, nil
	}
	if err != nil {
		return ports.UpdateResult{}, fmt.Errorf("failed to resolve draft: %w", err)
	}

	key := s.draftKey(documentID)
	var res ports.UpdateResult
	err = s.client.Watch(ctx, func(tx *backend.Tx) error {
		d, err := getDraft(ctx, tx, key)
		if errors.Is(err, domain.ErrDraftNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if d.ID != u.DraftID || (u.ExpectedRevision != 0 && d.Revision != u.ExpectedRevision) {
			return nil
		}

		d.Canvas = u.Canvas
		d.UpdatedBy = u.Actor
		d.UpdatedAt = s.now()
		d.Revision++
		data, err := json.Marshal(d)
		if err != nil {
			return fmt.Errorf("failed to marshal draft: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe backend.Pipeliner) error {
			pipe.Set(ctx, key, data, s.ttl)
			return nil
		})
		if err == nil {
			res = ports.UpdateResult{RowCount: 1, Revision: d.Revision}
		}
		return err
	}, key)
	if errors.Is(err, backend.TxFailedErr) {
		return ports.UpdateResult{}, nil
	}
	if err != nil {
		return ports.UpdateResult{}, fmt.Errorf("failed to update canvas in redis: %w", err)
	}
	return res, nil
}

// CreateVersion stores v unless its number is taken.
func (s *Store) CreateVersion(ctx context.Context, v *ports.Version) error {
	stored := *v
	if stored.PublishedAt.IsZero() {
		stored.PublishedAt = s.now()
	}
	data, err := json.Marshal(&stored)
	if err != nil {
		return fmt.Errorf("failed to marshal version: %w", err)
	}

	ok, err := s.client.SetNX(ctx, s.versionKey(v.DocumentID, v.Number), data, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to save version to redis: %w", err)
	}
	if !ok {
		return domain.ErrVersionExists
	}
	err = s.client.ZAdd(ctx, s.versionsKey(v.DocumentID), backend.Z{
		Score:  float64(v.Number),
		Member: strconv.Itoa(v.Number),
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to index version: %w", err)
	}
	return nil
}

// LatestVersion returns the highest-numbered version of documentID.
func (s *Store) LatestVersion(ctx context.Context, documentID string) (*ports.Version, error) {
	top, err := s.client.ZRevRange(ctx, s.versionsKey(documentID), 0, 0).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list versions: %w", err)
	}
	if len(top) == 0 {
		return nil, domain.ErrVersionNotFound
	}
	n, err := strconv.Atoi(top[0])
	if err != nil {
		return nil, fmt.Errorf("corrupt version index entry %q: %w", top[0], err)
	}

	val, err := s.client.Get(ctx, s.versionKey(documentID, n)).Result()
	if err != nil {
		if err == backend.Nil {
			return nil, domain.ErrVersionNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}
	var v ports.Version
	if err := json.Unmarshal([]byte(val), &v); err != nil {
		return nil, fmt.Errorf("failed to unmarshal version: %w", err)
	}
	return &v, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
