package persist

import (
	"context"
	"sync"

	"github.com/hmori/quizquest/engine/save"
)

// MemoryStore is an in-process backend for tests and ephemeral sessions.
// Snapshots round-trip through JSON so it behaves like the real backends.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string][]byte

	// FailLoad / FailSave force errors, for exercising the failure policy.
	FailLoad error
	FailSave error
}

// NewMemoryStore creates an empty in-memory backend.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: map[string][]byte{}}
}

func (m *MemoryStore) Load(ctx context.Context, playerID string) (*save.Snapshot, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailLoad != nil {
		return nil, false, m.FailLoad
	}
	data, ok := m.records[playerID]
	if !ok {
		return nil, false, nil
	}
	sn, err := save.Unmarshal(data)
	if err != nil {
		return nil, false, err
	}
	return sn, true, nil
}

func (m *MemoryStore) Save(ctx context.Context, playerID string, sn *save.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSave != nil {
		return m.FailSave
	}
	data, err := save.Marshal(sn)
	if err != nil {
		return err
	}
	m.records[playerID] = data
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}
