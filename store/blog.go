package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/beesaferoot/casadf-schema/integrity"
	"github.com/beesaferoot/casadf-schema/models"
)

type BlogPostFilter struct {
	Status    string
	Published *bool
}

func (s *Store) CreateBlogPost(ctx context.Context, b *models.BlogPost) error {
	return create(ctx, s, b)
}

func (s *Store) GetBlogPost(ctx context.Context, id uint) (*models.BlogPost, error) {
	return get[models.BlogPost](ctx, s, id)
}

// GetBlogPostBySlug normalizes slug the same way writes do before matching.
func (s *Store) GetBlogPostBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	return getBy[models.BlogPost](ctx, s, "slug", models.NormalizeSlug(slug))
}

func (s *Store) ListBlogPosts(ctx context.Context, f BlogPostFilter, p Page) (Result[models.BlogPost], error) {
	return list[models.BlogPost](ctx, s, integrity.TableBlogPosts, p, func(q *gorm.DB) *gorm.DB {
		q = where(q, f.Status != "", "status", f.Status)
		if f.Published != nil {
			q = q.Where(eq("published", *f.Published))
		}
		return q
	})
}

func (s *Store) UpdateBlogPost(ctx context.Context, b *models.BlogPost) error {
	return update(ctx, s, b, nil)
}

func (s *Store) DeleteBlogPost(ctx context.Context, id uint) error {
	return s.remove(ctx, integrity.TableBlogPosts, id)
}
