package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/beesaferoot/casadf-schema/integrity"
	"github.com/beesaferoot/casadf-schema/models"
)

// FinancialTransactionFilter narrows the ledger. DueFrom is inclusive and
// DueBefore exclusive.
type FinancialTransactionFilter struct {
	ContractID *uint
	PropertyID *uint
	Type       models.FinanceType
	Status     models.TransactionStatus
	DueFrom    *time.Time
	DueBefore  *time.Time
}

func (s *Store) CreateFinancialTransaction(ctx context.Context, t *models.FinancialTransaction) error {
	return create(ctx, s, t)
}

func (s *Store) GetFinancialTransaction(ctx context.Context, id uint) (*models.FinancialTransaction, error) {
	return get[models.FinancialTransaction](ctx, s, id)
}

func (s *Store) ListFinancialTransactions(ctx context.Context, f FinancialTransactionFilter, p Page) (Result[models.FinancialTransaction], error) {
	return list[models.FinancialTransaction](ctx, s, integrity.TableFinancialTransactions, p, func(q *gorm.DB) *gorm.DB {
		if f.ContractID != nil {
			q = q.Where(eq("contract_id", *f.ContractID))
		}
		if f.PropertyID != nil {
			q = q.Where(eq("property_id", *f.PropertyID))
		}
		q = where(q, f.Type != "", "type", f.Type)
		q = where(q, f.Status != "", "status", f.Status)
		if f.DueFrom != nil {
			q = q.Where("due_date >= ?", f.DueFrom.UTC())
		}
		if f.DueBefore != nil {
			q = q.Where("due_date < ?", f.DueBefore.UTC())
		}
		return q
	})
}

func (s *Store) UpdateFinancialTransaction(ctx context.Context, t *models.FinancialTransaction) error {
	return update(ctx, s, t, nil)
}

func (s *Store) DeleteFinancialTransaction(ctx context.Context, id uint) error {
	return s.remove(ctx, integrity.TableFinancialTransactions, id)
}
