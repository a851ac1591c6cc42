package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/beesaferoot/casadf-schema/integrity"
	"github.com/beesaferoot/casadf-schema/models"
)

type PropertyFilter struct {
	City         string
	PropertyType models.PropertyType
	Status       string
	OwnerID      *uint
}

func (s *Store) CreateProperty(ctx context.Context, p *models.Property) error {
	return create(ctx, s, p)
}

func (s *Store) GetProperty(ctx context.Context, id uint) (*models.Property, error) {
	return get[models.Property](ctx, s, id)
}

func (s *Store) ListProperties(ctx context.Context, f PropertyFilter, p Page) (Result[models.Property], error) {
	return list[models.Property](ctx, s, integrity.TableProperties, p, func(q *gorm.DB) *gorm.DB {
		q = where(q, f.City != "", "city", f.City)
		q = where(q, f.PropertyType != "", "property_type", f.PropertyType)
		q = where(q, f.Status != "", "status", f.Status)
		if f.OwnerID != nil {
			q = q.Where(eq("owner_id", *f.OwnerID))
		}
		return q
	})
}

func (s *Store) UpdateProperty(ctx context.Context, p *models.Property) error {
	return update(ctx, s, p, nil)
}

// DeleteProperty removes the property's contracts and detaches its leads and
// ledger entries.
func (s *Store) DeleteProperty(ctx context.Context, id uint) error {
	return s.remove(ctx, integrity.TableProperties, id)
}
