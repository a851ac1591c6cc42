package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/beesaferoot/casadf-schema/integrity"
)

// LeadInsight is one message or AI analysis recorded against a lead conversation.
// Rows are append-only.
type LeadInsight struct {
	Record
	LeadID    uint    `gorm:"column:lead_id;not null;index:lead_insights_lead_id_idx" json:"leadId" validate:"required"`
	Lead      *Lead   `gorm:"foreignKey:LeadID;constraint:OnDelete:CASCADE" json:"-"`
	SessionID *string `gorm:"column:session_id;type:varchar(255);index:lead_insights_session_id_idx" json:"sessionId,omitempty" validate:"omitempty,max=255"`

	Content *string `gorm:"column:content;type:text" json:"content,omitempty"`
	Sender  *Sender `gorm:"column:sender;type:varchar(50)" json:"sender,omitempty" validate:"omitempty,enum"`

	SentimentScore    *int    `gorm:"column:sentiment_score" json:"sentimentScore,omitempty" validate:"omitempty,min=0,max=100"`
	AISummary         *string `gorm:"column:ai_summary;type:text" json:"aiSummary,omitempty"`
	RecommendedAction *string `gorm:"column:recommended_action;type:text" json:"recommendedAction,omitempty"`

	Metadata datatypes.JSON `gorm:"column:metadata" json:"metadata,omitempty"`
}

func (LeadInsight) TableName() string { return integrity.TableLeadInsights }

func (i *LeadInsight) BeforeUpdate(*gorm.DB) error { return ErrImmutable }

func (i *LeadInsight) Normalize() {
	trimOptional(&i.SessionID)
}

func (i *LeadInsight) ApplyDefaults() {}

func (i *LeadInsight) UniqueKeys() []UniqueKey { return nil }

func (i *LeadInsight) References() []Reference {
	return []Reference{ref("lead_id", i.LeadID)}
}
