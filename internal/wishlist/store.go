package wishlist

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"

	pkgerrors "github.com/akashch1512/crystalreadymades.com/pkg/errors"
	"github.com/akashch1512/crystalreadymades.com/pkg/redis"
)

const snapshotKind = "wishlist"

// Entry is one liked product. Entries behave as a set keyed by product id.
type Entry struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"productId"`
}

// SnapshotStore persists per-user wishlists across sessions.
type SnapshotStore interface {
	Load(ctx context.Context, userID uuid.UUID) ([]Entry, error)
	Save(ctx context.Context, userID uuid.UUID, entries []Entry) error
	Delete(ctx context.Context, userID uuid.UUID) error
}

// RedisStore keeps wishlists as JSON arrays in Redis.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wires the store to a shared redis client.
func NewRedisStore(client *redis.Client) (*RedisStore, error) {
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "redis client is required")
	}
	return &RedisStore{client: client}, nil
}

// Load returns the stored entries. Missing keys and blobs that are not a
// JSON array both come back as an empty wishlist.
func (s *RedisStore) Load(ctx context.Context, userID uuid.UUID) ([]Entry, error) {
	raw, err := s.client.Get(ctx, s.client.SnapshotKey(snapshotKind, userID.String()))
	if err != nil {
		if redis.IsNil(err) {
			return []Entry{}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load wishlist")
	}

	var entries []Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil || entries == nil {
		return []Entry{}, nil
	}
	return entries, nil
}

// Save writes the entries with no expiry.
func (s *RedisStore) Save(ctx context.Context, userID uuid.UUID, entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	payload, err := json.Marshal(entries)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal wishlist")
	}
	if err := s.client.Set(ctx, s.client.SnapshotKey(snapshotKind, userID.String()), payload, 0); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save wishlist")
	}
	return nil
}

// Delete drops the stored wishlist.
func (s *RedisStore) Delete(ctx context.Context, userID uuid.UUID) error {
	if err := s.client.Del(ctx, s.client.SnapshotKey(snapshotKind, userID.String())); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete wishlist")
	}
	return nil
}

// MemoryStore is an in-process SnapshotStore used by tests and local tooling.
type MemoryStore struct {
	mu    sync.RWMutex
	snaps map[uuid.UUID][]byte
}

// NewMemoryStore builds an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snaps: make(map[uuid.UUID][]byte)}
}

func (s *MemoryStore) Load(_ context.Context, userID uuid.UUID) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	raw, ok := s.snaps[userID]
	if !ok {
		return []Entry{}, nil
	}
	var entries []Entry
	if err := json.Unmarshal(raw, &entries); err != nil || entries == nil {
		return []Entry{}, nil
	}
	return entries, nil
}

func (s *MemoryStore) Save(_ context.Context, userID uuid.UUID, entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	payload, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snaps[userID] = payload
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snaps, userID)
	return nil
}

var _ SnapshotStore = (*RedisStore)(nil)
var _ SnapshotStore = (*MemoryStore)(nil)
