package snippet

import (
	"context"
	"sync"
	"time"

	apperrors "github.com/matzehuels/graphtext/pkg/errors"
)

// MemoryStore keeps snippets in a map. Contents are lost on restart.
type MemoryStore struct {
	mu       sync.RWMutex
	snippets map[string]Snippet
	order    []string
	limit    int
	now      func() time.Time
}

// NewMemoryStore returns an empty store. When limit > 0 the oldest snippet
// is dropped once more than limit are stored.
func NewMemoryStore(limit int) *MemoryStore {
	return &MemoryStore{
		snippets: make(map[string]Snippet),
		limit:    limit,
		now:      time.Now,
	}
}

func (m *MemoryStore) Create(ctx context.Context, s Snippet) (Snippet, error) {
	s, err := prepare(s, m.now())
	if err != nil {
		return Snippet{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.snippets[s.ID] = s
	m.order = append(m.order, s.ID)
	if m.limit > 0 && len(m.order) > m.limit {
		delete(m.snippets, m.order[0])
		m.order = m.order[1:]
	}
	return s, nil
}

func (m *MemoryStore) Get(ctx context.Context, id string) (Snippet, error) {
	if err := apperrors.ValidateSnippetID(id); err != nil {
		return Snippet{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.snippets[id]
	if !ok {
		return Snippet{}, notFound(id)
	}
	return s, nil
}

// Len returns the number of stored snippets.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.snippets)
}

func (m *MemoryStore) Close(ctx context.Context) error { return nil }

var _ Store = (*MemoryStore)(nil)
