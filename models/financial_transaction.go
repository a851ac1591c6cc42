package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/beesaferoot/casadf-schema/integrity"
)

const DefaultCurrency = "BRL"

// FinancialTransaction is a ledger entry: revenue, expense, owner transfer or commission
type FinancialTransaction struct {
	Model
	ContractID *uint     `gorm:"column:contract_id;index:financial_transactions_contract_id_idx" json:"contractId,omitempty"`
	Contract   *Contract `gorm:"foreignKey:ContractID;constraint:OnDelete:SET NULL" json:"-"`
	PropertyID *uint     `gorm:"column:property_id;index:financial_transactions_property_id_idx" json:"propertyId,omitempty"`
	Property   *Property `gorm:"foreignKey:PropertyID;constraint:OnDelete:SET NULL" json:"-"`

	Type     FinanceType `gorm:"column:type;not null;index:financial_transactions_type_idx" json:"type" validate:"enum"`
	Category string      `gorm:"column:category;type:varchar(100);not null" json:"category" validate:"required,max=100"`

	Amount   decimal.Decimal `gorm:"column:amount;type:numeric(15,2);not null" json:"amount"`
	Currency *string         `gorm:"column:currency;type:varchar(3);default:BRL" json:"currency,omitempty" validate:"omitempty,len=3"`

	Description *string `gorm:"column:description;type:text" json:"description,omitempty"`

	Status TransactionStatus `gorm:"column:status;not null;default:pending;index:financial_transactions_status_idx" json:"status" validate:"enum"`

	DueDate     time.Time  `gorm:"column:due_date;not null;index:financial_transactions_due_date_idx" json:"dueDate" validate:"required"`
	PaymentDate *time.Time `gorm:"column:payment_date" json:"paymentDate,omitempty"`

	ReferenceNumber *string `gorm:"column:reference_number;type:varchar(100)" json:"referenceNumber,omitempty" validate:"omitempty,max=100"`
}

func (FinancialTransaction) TableName() string { return integrity.TableFinancialTransactions }

func (t *FinancialTransaction) Normalize() {
	trim(&t.Category)
	trimOptional(&t.Currency)
	trimOptional(&t.ReferenceNumber)
	t.DueDate = t.DueDate.UTC()
	t.PaymentDate = utc(t.PaymentDate)
}

func (t *FinancialTransaction) ApplyDefaults() {
	if t.Currency == nil {
		t.Currency = stringPtr(DefaultCurrency)
	}
	if t.Status == "" {
		t.Status = TransactionPending
	}
}

func (t *FinancialTransaction) UniqueKeys() []UniqueKey { return nil }

func (t *FinancialTransaction) References() []Reference {
	return []Reference{
		optionalRef("contract_id", t.ContractID),
		optionalRef("property_id", t.PropertyID),
	}
}
