package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/beesaferoot/casadf-schema/integrity"
)

const DefaultPropertyStatus = "disponivel"

// Property represents a listing offered for sale, rent or both
type Property struct {
	Model
	Title           string          `gorm:"column:title;type:varchar(255);not null" json:"title" validate:"required,max=255"`
	Description     *string         `gorm:"column:description;type:text" json:"description,omitempty"`
	PropertyType    PropertyType    `gorm:"column:property_type;not null;index:properties_type_idx" json:"propertyType" validate:"enum"`
	TransactionType TransactionMode `gorm:"column:transaction_type;not null" json:"transactionType" validate:"enum"`

	SalePrice decimal.NullDecimal `gorm:"column:sale_price;type:numeric(15,2)" json:"salePrice"`
	RentPrice decimal.NullDecimal `gorm:"column:rent_price;type:numeric(10,2)" json:"rentPrice"`

	Address      string              `gorm:"column:address;type:varchar(500);not null" json:"address" validate:"required,max=500"`
	Neighborhood *string             `gorm:"column:neighborhood;type:varchar(255)" json:"neighborhood,omitempty" validate:"omitempty,max=255"`
	City         string              `gorm:"column:city;type:varchar(255);not null;index:properties_city_idx" json:"city" validate:"required,max=255"`
	State        string              `gorm:"column:state;type:varchar(2);not null" json:"state" validate:"required,len=2"`
	ZipCode      *string             `gorm:"column:zip_code;type:varchar(10)" json:"zipCode,omitempty" validate:"omitempty,max=10"`
	Latitude     decimal.NullDecimal `gorm:"column:latitude;type:numeric(10,8)" json:"latitude"`
	Longitude    decimal.NullDecimal `gorm:"column:longitude;type:numeric(11,8)" json:"longitude"`

	Bedrooms      *int                `gorm:"column:bedrooms" json:"bedrooms,omitempty" validate:"omitempty,min=0"`
	Bathrooms     *int                `gorm:"column:bathrooms" json:"bathrooms,omitempty" validate:"omitempty,min=0"`
	ParkingSpaces *int                `gorm:"column:parking_spaces" json:"parkingSpaces,omitempty" validate:"omitempty,min=0"`
	TotalArea     decimal.NullDecimal `gorm:"column:total_area;type:numeric(10,2)" json:"totalArea"`
	BuiltArea     decimal.NullDecimal `gorm:"column:built_area;type:numeric(10,2)" json:"builtArea"`

	MainImage *string                    `gorm:"column:main_image;type:varchar(500)" json:"mainImage,omitempty" validate:"omitempty,max=500"`
	Images    datatypes.JSONSlice[string] `gorm:"column:images" json:"images,omitempty"`

	Status    *string `gorm:"column:status;type:varchar(50);default:disponivel;index:properties_status_idx" json:"status,omitempty" validate:"omitempty,max=50"`
	Featured  *bool   `gorm:"column:featured;default:false" json:"featured,omitempty"`
	Published *bool   `gorm:"column:published;default:true" json:"published,omitempty"`

	OwnerID   *uint `gorm:"column:owner_id;index:properties_owner_id_idx" json:"ownerId,omitempty"`
	Owner     *User `gorm:"foreignKey:OwnerID;constraint:OnDelete:SET NULL" json:"-"`
	CreatedBy *uint `gorm:"column:created_by" json:"createdBy,omitempty"`
	Creator   *User `gorm:"foreignKey:CreatedBy;constraint:OnDelete:SET NULL" json:"-"`
}

func (Property) TableName() string { return integrity.TableProperties }

func (p *Property) Normalize() {
	trim(&p.Title)
	trim(&p.Address)
	trim(&p.City)
	trim(&p.State)
	trimOptional(&p.Neighborhood)
	trimOptional(&p.ZipCode)
	trimOptional(&p.MainImage)
	trimOptional(&p.Status)
}

func (p *Property) ApplyDefaults() {
	if p.Status == nil {
		p.Status = stringPtr(DefaultPropertyStatus)
	}
	if p.Featured == nil {
		p.Featured = boolPtr(false)
	}
	if p.Published == nil {
		p.Published = boolPtr(true)
	}
}

func (p *Property) UniqueKeys() []UniqueKey { return nil }

func (p *Property) References() []Reference {
	return []Reference{
		optionalRef("owner_id", p.OwnerID),
		optionalRef("created_by", p.CreatedBy),
	}
}
