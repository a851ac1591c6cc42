package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/beesaferoot/casadf-schema/integrity"
	"github.com/beesaferoot/casadf-schema/models"
)

type ContractFilter struct {
	PropertyID *uint
	TenantID   *uint
	OwnerID    *uint
	Status     models.ContractStatus
}

func (s *Store) CreateContract(ctx context.Context, c *models.Contract) error {
	return create(ctx, s, c)
}

func (s *Store) GetContract(ctx context.Context, id uint) (*models.Contract, error) {
	return get[models.Contract](ctx, s, id)
}

func (s *Store) ListContracts(ctx context.Context, f ContractFilter, p Page) (Result[models.Contract], error) {
	return list[models.Contract](ctx, s, integrity.TableContracts, p, func(q *gorm.DB) *gorm.DB {
		if f.PropertyID != nil {
			q = q.Where(eq("property_id", *f.PropertyID))
		}
		if f.TenantID != nil {
			q = q.Where(eq("tenant_id", *f.TenantID))
		}
		if f.OwnerID != nil {
			q = q.Where(eq("owner_id", *f.OwnerID))
		}
		return where(q, f.Status != "", "status", f.Status)
	})
}

func (s *Store) UpdateContract(ctx context.Context, c *models.Contract) error {
	return update(ctx, s, c, nil)
}

// DeleteContract detaches ledger entries from the contract before removing it.
func (s *Store) DeleteContract(ctx context.Context, id uint) error {
	return s.remove(ctx, integrity.TableContracts, id)
}
