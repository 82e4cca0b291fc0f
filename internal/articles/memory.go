package articles

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepository keeps articles in process memory. It backs tests and the
// default CLI configuration.
type MemoryRepository struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]*Article
	bySlug map[string]uuid.UUID
}

var _ Repository = (*MemoryRepository)(nil)

// NewMemoryRepository returns an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:   make(map[uuid.UUID]*Article),
		bySlug: make(map[string]uuid.UUID),
	}
}

func (m *MemoryRepository) Create(_ context.Context, record *Article) (*Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.bySlug[record.Slug]; exists {
		return nil, ErrSlugExists
	}
	stored := cloneArticle(record)
	m.byID[stored.ID] = stored
	m.bySlug[stored.Slug] = stored.ID
	return cloneArticle(stored), nil
}

func (m *MemoryRepository) Update(_ context.Context, record *Article) (*Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.byID[record.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "article", Key: record.ID.String()}
	}
	if current.Slug != record.Slug {
		if _, taken := m.bySlug[record.Slug]; taken {
			return nil, ErrSlugExists
		}
		delete(m.bySlug, current.Slug)
		m.bySlug[record.Slug] = record.ID
	}
	stored := cloneArticle(record)
	m.byID[stored.ID] = stored
	return cloneArticle(stored), nil
}

func (m *MemoryRepository) GetBySlug(_ context.Context, slug string) (*Article, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.bySlug[slug]
	if !ok {
		return nil, &NotFoundError{Resource: "article", Key: slug}
	}
	return cloneArticle(m.byID[id]), nil
}

// List returns every article ordered by slug.
func (m *MemoryRepository) List(_ context.Context) ([]*Article, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Article, 0, len(m.byID))
	for _, record := range m.byID {
		out = append(out, cloneArticle(record))
	}
	slices.SortFunc(out, func(a, b *Article) int { return cmp.Compare(a.Slug, b.Slug) })
	return out, nil
}

func (m *MemoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.byID[id]
	if !ok {
		return &NotFoundError{Resource: "article", Key: id.String()}
	}
	delete(m.bySlug, record.Slug)
	delete(m.byID, id)
	return nil
}
