package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/beesaferoot/casadf-schema/integrity"
	"github.com/beesaferoot/casadf-schema/models"
)

type WebhookLogFilter struct {
	Source string
	Event  string
	Status string
}

func (s *Store) AppendWebhookLog(ctx context.Context, w *models.WebhookLog) error {
	return create(ctx, s, w)
}

func (s *Store) GetWebhookLog(ctx context.Context, id uint) (*models.WebhookLog, error) {
	return get[models.WebhookLog](ctx, s, id)
}

func (s *Store) ListWebhookLogs(ctx context.Context, f WebhookLogFilter, p Page) (Result[models.WebhookLog], error) {
	return list[models.WebhookLog](ctx, s, integrity.TableWebhookLogs, p, func(q *gorm.DB) *gorm.DB {
		q = where(q, f.Source != "", "source", f.Source)
		q = where(q, f.Event != "", "event", f.Event)
		return where(q, f.Status != "", "status", f.Status)
	})
}
