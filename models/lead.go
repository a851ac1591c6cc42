package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/beesaferoot/casadf-schema/integrity"
)

const DefaultLeadPriority = "media"

// Lead represents a prospect captured from the website, WhatsApp or the simulator
type Lead struct {
	Model
	Name     string  `gorm:"column:name;type:varchar(255);not null" json:"name" validate:"required,max=255"`
	Email    *string `gorm:"column:email;type:varchar(320);uniqueIndex:leads_email_key;index:leads_email_idx" json:"email,omitempty" validate:"omitempty,max=320"`
	Phone    *string `gorm:"column:phone;type:varchar(20)" json:"phone,omitempty" validate:"omitempty,max=20"`
	Whatsapp *string `gorm:"column:whatsapp;type:varchar(20)" json:"whatsapp,omitempty" validate:"omitempty,max=20"`

	Status   LeadStatus `gorm:"column:status;not null;default:novo;index:leads_status_idx" json:"status" validate:"enum"`
	Source   *string    `gorm:"column:source;type:varchar(50);index:leads_source_idx" json:"source,omitempty" validate:"omitempty,max=50"`
	Score    *int       `gorm:"column:score;default:0" json:"score,omitempty"`
	Priority *string    `gorm:"column:priority;type:varchar(20);default:media" json:"priority,omitempty" validate:"omitempty,max=20"`

	InterestedPropertyType *string             `gorm:"column:interested_property_type;type:varchar(50)" json:"interestedPropertyType,omitempty" validate:"omitempty,max=50"`
	TransactionType        *string             `gorm:"column:transaction_type;type:varchar(50)" json:"transactionType,omitempty" validate:"omitempty,max=50"`
	BudgetMin              decimal.NullDecimal `gorm:"column:budget_min;type:numeric(15,2)" json:"budgetMin"`
	BudgetMax              decimal.NullDecimal `gorm:"column:budget_max;type:numeric(15,2)" json:"budgetMax"`
	PreferredNeighborhoods *string             `gorm:"column:preferred_neighborhoods;type:text" json:"preferredNeighborhoods,omitempty"`
	PreferredPropertyTypes *string             `gorm:"column:preferred_property_types;type:text" json:"preferredPropertyTypes,omitempty"`

	InterestedPropertyID *uint     `gorm:"column:interested_property_id" json:"interestedPropertyId,omitempty"`
	InterestedProperty   *Property `gorm:"foreignKey:InterestedPropertyID;constraint:OnDelete:SET NULL" json:"-"`
	AssignedTo           *uint     `gorm:"column:assigned_to;index:leads_assigned_to_idx" json:"assignedTo,omitempty"`
	Assignee             *User     `gorm:"foreignKey:AssignedTo;constraint:OnDelete:SET NULL" json:"-"`

	Notes *string                    `gorm:"column:notes;type:text" json:"notes,omitempty"`
	Tags  datatypes.JSONSlice[string] `gorm:"column:tags" json:"tags,omitempty"`

	LastContactedAt *time.Time `gorm:"column:last_contacted_at" json:"lastContactedAt,omitempty"`
	ConvertedAt     *time.Time `gorm:"column:converted_at" json:"convertedAt,omitempty"`
}

func (Lead) TableName() string { return integrity.TableLeads }

func (l *Lead) Normalize() {
	trim(&l.Name)
	trimOptional(&l.Email)
	trimOptional(&l.Phone)
	trimOptional(&l.Whatsapp)
	trimOptional(&l.Source)
	trimOptional(&l.Priority)
}

func (l *Lead) ApplyDefaults() {
	if l.Status == "" {
		l.Status = LeadNovo
	}
	if l.Score == nil {
		l.Score = intPtr(0)
	}
	if l.Priority == nil {
		l.Priority = stringPtr(DefaultLeadPriority)
	}
}

func (l *Lead) UniqueKeys() []UniqueKey {
	if l.Email == nil {
		return nil
	}
	return []UniqueKey{{Column: "email", Field: "email", Value: *l.Email}}
}

func (l *Lead) References() []Reference {
	return []Reference{
		optionalRef("interested_property_id", l.InterestedPropertyID),
		optionalRef("assigned_to", l.AssignedTo),
	}
}
