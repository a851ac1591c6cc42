package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/beesaferoot/casadf-schema/integrity"
)

// WebhookLog records one inbound or outbound webhook call. Rows are append-only.
type WebhookLog struct {
	Record
	Source       string         `gorm:"column:source;type:varchar(100);not null;index:webhook_logs_source_idx" json:"source" validate:"required,max=100"`
	Event        string         `gorm:"column:event;type:varchar(100);not null;index:webhook_logs_event_idx" json:"event" validate:"required,max=100"`
	Payload      datatypes.JSON `gorm:"column:payload" json:"payload,omitempty"`
	Response     datatypes.JSON `gorm:"column:response" json:"response,omitempty"`
	Status       string         `gorm:"column:status;type:varchar(50);not null;index:webhook_logs_status_idx" json:"status" validate:"required,max=50"`
	ErrorMessage *string        `gorm:"column:error_message;type:text" json:"errorMessage,omitempty"`
}

func (WebhookLog) TableName() string { return integrity.TableWebhookLogs }

func (w *WebhookLog) BeforeUpdate(*gorm.DB) error { return ErrImmutable }

func (w *WebhookLog) Normalize() {
	trim(&w.Source)
	trim(&w.Event)
	trim(&w.Status)
}

func (w *WebhookLog) ApplyDefaults() {}

func (w *WebhookLog) UniqueKeys() []UniqueKey { return nil }

func (w *WebhookLog) References() []Reference { return nil }
