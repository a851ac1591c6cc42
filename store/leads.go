package store

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/beesaferoot/casadf-schema/integrity"
	"github.com/beesaferoot/casadf-schema/models"
)

type LeadFilter struct {
	Status     models.LeadStatus
	Source     string
	AssignedTo *uint
}

func (s *Store) CreateLead(ctx context.Context, l *models.Lead) error {
	return create(ctx, s, l)
}

func (s *Store) GetLead(ctx context.Context, id uint) (*models.Lead, error) {
	return get[models.Lead](ctx, s, id)
}

func (s *Store) ListLeads(ctx context.Context, f LeadFilter, p Page) (Result[models.Lead], error) {
	return list[models.Lead](ctx, s, integrity.TableLeads, p, func(q *gorm.DB) *gorm.DB {
		q = where(q, f.Status != "", "status", f.Status)
		q = where(q, f.Source != "", "source", f.Source)
		if f.AssignedTo != nil {
			q = q.Where(eq("assigned_to", *f.AssignedTo))
		}
		return q
	})
}

// UpdateLead accepts any status change. Moving out of a terminal status is
// logged since the funnel is not expected to reopen.
func (s *Store) UpdateLead(ctx context.Context, l *models.Lead) error {
	return update(ctx, s, l, func(_ *gorm.DB, prev *models.Lead) error {
		if prev.Status.IsTerminal() && l.Status != prev.Status {
			s.logger.Warn("lead left terminal status",
				zap.Uint("lead_id", l.ID),
				zap.String("from", string(prev.Status)),
				zap.String("to", string(l.Status)),
			)
		}
		return nil
	})
}

// DeleteLead removes the lead together with all of its insights.
func (s *Store) DeleteLead(ctx context.Context, id uint) error {
	return s.remove(ctx, integrity.TableLeads, id)
}
