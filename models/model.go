package models

import (
	"errors"
	"strings"
	"time"
)

// ErrImmutable is returned when an append-only row is updated.
var ErrImmutable = errors.New("append-only row cannot be modified")

// Model is embedded by every mutable entity. The store assigns all three
// fields; GORM's automatic timestamps are disabled so an injected clock is
// the only time source.
type Model struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP;autoCreateTime:false" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:CURRENT_TIMESTAMP;autoUpdateTime:false" json:"updatedAt"`
}

func (m *Model) Key() uint { return m.ID }

// Base exposes the embedded identity and timestamps.
func (m *Model) Base() *Model { return m }

// Assign sets the identity and creation time of a new row.
func (m *Model) Assign(id uint, now time.Time) {
	m.ID = id
	m.CreatedAt = now
	m.UpdatedAt = now
}

// Touch refreshes UpdatedAt, never moving it backwards past the previous
// update or the creation time.
func (m *Model) Touch(now time.Time) {
	if now.Before(m.UpdatedAt) {
		now = m.UpdatedAt
	}
	if now.Before(m.CreatedAt) {
		now = m.CreatedAt
	}
	m.UpdatedAt = now
}

// Record is embedded by append-only entities.
type Record struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP;autoCreateTime:false" json:"createdAt"`
}

func (r *Record) Key() uint { return r.ID }

func (r *Record) Assign(id uint, now time.Time) {
	r.ID = id
	r.CreatedAt = now
}

// UniqueKey is a value that must not collide with another live row.
type UniqueKey struct {
	Column string
	Field  string
	Value  any
}

// Reference is a foreign key value carried by a row.
type Reference struct {
	Column string
	ID     *uint
}

// Entity is implemented by pointers to every table struct.
type Entity interface {
	TableName() string
	Key() uint
	Assign(id uint, now time.Time)
	// Normalize trims free text and clears blank optional values.
	Normalize()
	// ApplyDefaults fills unset columns with their schema defaults.
	ApplyDefaults()
	UniqueKeys() []UniqueKey
	References() []Reference
}

// Mutable is an Entity whose rows may be updated after creation.
type Mutable interface {
	Entity
	Base() *Model
	Touch(now time.Time)
}

func trim(s *string) {
	*s = strings.TrimSpace(*s)
}

// trimOptional trims *p and clears it when nothing is left.
func trimOptional(p **string) {
	if *p == nil {
		return
	}
	v := strings.TrimSpace(**p)
	if v == "" {
		*p = nil
		return
	}
	*p = &v
}

// utc stores optional instants in UTC so range filters compare consistently.
func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}

func ref(column string, id uint) Reference {
	return Reference{Column: column, ID: &id}
}

func optionalRef(column string, id *uint) Reference {
	return Reference{Column: column, ID: id}
}

func stringPtr(s string) *string { return &s }
func boolPtr(b bool) *bool       { return &b }
func intPtr(i int) *int          { return &i }
