package cart

import (
	"context"
	"encoding/json"
	"sync"

	pkgerrors "github.com/akashch1512/crystalreadymades.com/pkg/errors"
	"github.com/akashch1512/crystalreadymades.com/pkg/redis"
	"github.com/google/uuid"
)

const snapshotKind = "cart"

// SnapshotStore persists per-user cart snapshots across sessions.
type SnapshotStore interface {
	Load(ctx context.Context, userID uuid.UUID) (*Snapshot, error)
	Save(ctx context.Context, userID uuid.UUID, snap Snapshot) error
	Delete(ctx context.Context, userID uuid.UUID) error
}

// RedisStore keeps cart snapshots as JSON blobs in Redis.
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

// Load returns the stored snapshot. A missing key returns (nil, nil). A
// corrupt blob is treated as missing rather than failing the request.
func (s *RedisStore) Load(ctx context.Context, userID uuid.UUID) (*Snapshot, error) {
	raw, err := s.client.Get(ctx, s.client.SnapshotKey(snapshotKind, userID.String()))
	if err != nil {
		if redis.IsNil(err) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart snapshot")
	}

	var snap Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, nil
	}
	if snap.Lines == nil {
		snap.Lines = []Line{}
	}
	return &snap, nil
}

// Save writes the snapshot with no expiry.
func (s *RedisStore) Save(ctx context.Context, userID uuid.UUID, snap Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal cart snapshot")
	}
	if err := s.client.Set(ctx, s.client.SnapshotKey(snapshotKind, userID.String()), payload, 0); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart snapshot")
	}
	return nil
}

// Delete drops the stored snapshot.
func (s *RedisStore) Delete(ctx context.Context, userID uuid.UUID) error {
	if err := s.client.Del(ctx, s.client.SnapshotKey(snapshotKind, userID.String())); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart snapshot")
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

func (s *MemoryStore) Load(_ context.Context, userID uuid.UUID) (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	raw, ok := s.snaps[userID]
	if !ok {
		return nil, nil
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, nil
	}
	if snap.Lines == nil {
		snap.Lines = []Line{}
	}
	return &snap, nil
}

func (s *MemoryStore) Save(_ context.Context, userID uuid.UUID, snap Snapshot) error {
	payload, err := json.Marshal(snap)
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
