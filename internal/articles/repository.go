package articles

import (
	"context"
	"fmt"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository persists articles keyed by slug. Implementations return
// *NotFoundError for unknown slugs and must be safe for concurrent use.
type Repository interface {
	Create(ctx context.Context, record *Article) (*Article, error)
	Update(ctx context.Context, record *Article) (*Article, error)
	GetBySlug(ctx context.Context, slug string) (*Article, error)
	List(ctx context.Context) ([]*Article, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// NewArticleRepository builds the go-repository-bun repository for Article,
// using the slug column as the natural identifier.
func NewArticleRepository(db *bun.DB) repository.Repository[*Article] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Article]{
		NewRecord: func() *Article { return &Article{} },
		GetID: func(a *Article) uuid.UUID {
			if a == nil {
				return uuid.Nil
			}
			return a.ID
		},
		SetID: func(a *Article, id uuid.UUID) {
			a.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(a *Article) string {
			if a == nil {
				return ""
			}
			return a.Slug
		},
	})
}

// Models lists the bun models owned by this package, in creation order.
func Models() []any {
	return []any{(*Article)(nil)}
}

// EnsureSchema creates the tables for Models when they are missing.
func EnsureSchema(ctx context.Context, db *bun.DB) error {
	for _, model := range Models() {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("articles: create table %T: %w", model, err)
		}
	}
	return nil
}
