package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/beesaferoot/casadf-schema/integrity"
)

const DefaultPaymentDay = 5

// DefaultAdminFeeRate is the administration fee percentage applied when a contract omits one.
var DefaultAdminFeeRate = decimal.RequireFromString("10.00")

// Contract represents a rental agreement between a tenant and a property owner
type Contract struct {
	Model
	PropertyID uint      `gorm:"column:property_id;not null;index:contracts_property_id_idx" json:"propertyId" validate:"required"`
	Property   *Property `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE" json:"-"`
	TenantID   uint      `gorm:"column:tenant_id;not null;index:contracts_tenant_id_idx" json:"tenantId" validate:"required"`
	Tenant     *User     `gorm:"foreignKey:TenantID;constraint:OnDelete:RESTRICT" json:"-"`
	OwnerID    uint      `gorm:"column:owner_id;not null;index:contracts_owner_id_idx" json:"ownerId" validate:"required"`
	Owner      *User     `gorm:"foreignKey:OwnerID;constraint:OnDelete:RESTRICT" json:"-"`

	RentAmount      decimal.Decimal     `gorm:"column:rent_amount;type:numeric(10,2);not null" json:"rentAmount"`
	AdminFeeRate    decimal.NullDecimal `gorm:"column:admin_fee_rate;type:numeric(5,2)" json:"adminFeeRate"`
	AdminFeeAmount  decimal.NullDecimal `gorm:"column:admin_fee_amount;type:numeric(10,2)" json:"adminFeeAmount"`
	SecurityDeposit decimal.NullDecimal `gorm:"column:security_deposit;type:numeric(10,2)" json:"securityDeposit"`

	StartDate  time.Time  `gorm:"column:start_date;not null" json:"startDate" validate:"required"`
	EndDate    *time.Time `gorm:"column:end_date" json:"endDate,omitempty"`
	PaymentDay *int       `gorm:"column:payment_day;default:5" json:"paymentDay,omitempty" validate:"omitempty,min=1,max=31"`

	Status ContractStatus `gorm:"column:status;not null;default:ACTIVE;index:contracts_status_idx" json:"status" validate:"enum"`

	DocumentURL *string `gorm:"column:document_url;type:varchar(500)" json:"documentUrl,omitempty" validate:"omitempty,max=500"`
}

func (Contract) TableName() string { return integrity.TableContracts }

func (c *Contract) Normalize() {
	trimOptional(&c.DocumentURL)
	c.StartDate = c.StartDate.UTC()
	c.EndDate = utc(c.EndDate)
}

func (c *Contract) ApplyDefaults() {
	if !c.AdminFeeRate.Valid {
		c.AdminFeeRate = decimal.NewNullDecimal(DefaultAdminFeeRate)
	}
	if c.PaymentDay == nil {
		c.PaymentDay = intPtr(DefaultPaymentDay)
	}
	if c.Status == "" {
		c.Status = ContractActive
	}
}

func (c *Contract) UniqueKeys() []UniqueKey { return nil }

func (c *Contract) References() []Reference {
	return []Reference{
		ref("property_id", c.PropertyID),
		ref("tenant_id", c.TenantID),
		ref("owner_id", c.OwnerID),
	}
}
