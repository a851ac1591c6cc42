package models

import (
	"strings"
	"time"

	"github.com/beesaferoot/casadf-schema/integrity"
)

const (
	DefaultLoginMethod = "local"
)

// User represents an account of the system: admin, property owner, tenant or client
type User struct {
	Model
	Name         string     `gorm:"column:name;type:varchar(255);not null" json:"name" validate:"required,max=255"`
	Email        string     `gorm:"column:email;type:varchar(320);not null;uniqueIndex:users_email_key;index:users_email_idx" json:"email" validate:"required,max=320"`
	PasswordHash *string    `gorm:"column:password_hash;type:varchar(255)" json:"-" validate:"omitempty,max=255"`
	Role         Role       `gorm:"column:role;not null;default:client;index:users_role_idx" json:"role" validate:"enum"`
	Phone        *string    `gorm:"column:phone;type:varchar(20)" json:"phone,omitempty" validate:"omitempty,max=20"`
	Whatsapp     *string    `gorm:"column:whatsapp;type:varchar(20)" json:"whatsapp,omitempty" validate:"omitempty,max=20"`
	Avatar       *string    `gorm:"column:avatar;type:varchar(500)" json:"avatar,omitempty" validate:"omitempty,max=500"`
	LoginMethod  *string    `gorm:"column:login_method;type:varchar(50);default:local" json:"loginMethod,omitempty" validate:"omitempty,max=50"`
	OpenID       *string    `gorm:"column:open_id;type:varchar(255);uniqueIndex:users_open_id_key" json:"openId,omitempty" validate:"omitempty,max=255"`
	LastSignedIn *time.Time `gorm:"column:last_signed_in" json:"lastSignedIn,omitempty"`
}

func (User) TableName() string { return integrity.TableUsers }

// Normalize trims the e-mail but keeps its case; uniqueness is exact-match.
func (u *User) Normalize() {
	trim(&u.Name)
	u.Email = strings.TrimSpace(u.Email)
	trimOptional(&u.Phone)
	trimOptional(&u.Whatsapp)
	trimOptional(&u.Avatar)
	trimOptional(&u.LoginMethod)
	trimOptional(&u.OpenID)
}

func (u *User) ApplyDefaults() {
	if u.Role == "" {
		u.Role = RoleClient
	}
	if u.LoginMethod == nil {
		u.LoginMethod = stringPtr(DefaultLoginMethod)
	}
}

func (u *User) UniqueKeys() []UniqueKey {
	keys := []UniqueKey{{Column: "email", Field: "email", Value: u.Email}}
	if u.OpenID != nil {
		keys = append(keys, UniqueKey{Column: "open_id", Field: "openId", Value: *u.OpenID})
	}
	return keys
}

func (u *User) References() []Reference { return nil }
