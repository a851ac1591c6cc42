package store

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/beesaferoot/casadf-schema/integrity"
	"github.com/beesaferoot/casadf-schema/models"
)

type InsightFilter struct {
	LeadID    *uint
	SessionID string
}

// StartInsightSession returns a new conversation id for an existing lead.
func (s *Store) StartInsightSession(ctx context.Context, leadID uint) (string, error) {
	start := time.Now()
	err := first(s.db.WithContext(ctx), &models.Lead{}, leadID)
	s.observe(integrity.TableLeadInsights, "session", start, err)
	if err != nil {
		return "", err
	}
	return s.sessionIDs(), nil
}

// AppendLeadInsight records a message against its lead. A missing or blank
// session id is filled with a fresh one.
func (s *Store) AppendLeadInsight(ctx context.Context, in *models.LeadInsight) error {
	if in.SessionID == nil || strings.TrimSpace(*in.SessionID) == "" {
		id := s.sessionIDs()
		in.SessionID = &id
	}
	return create(ctx, s, in)
}

func (s *Store) GetLeadInsight(ctx context.Context, id uint) (*models.LeadInsight, error) {
	return get[models.LeadInsight](ctx, s, id)
}

func (s *Store) ListLeadInsights(ctx context.Context, f InsightFilter, p Page) (Result[models.LeadInsight], error) {
	return list[models.LeadInsight](ctx, s, integrity.TableLeadInsights, p, func(q *gorm.DB) *gorm.DB {
		if f.LeadID != nil {
			q = q.Where(eq("lead_id", *f.LeadID))
		}
		return where(q, f.SessionID != "", "session_id", f.SessionID)
	})
}
