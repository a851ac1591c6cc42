package integrity

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation matches every *ValidationError.
	ErrValidation = errors.New("validation failed")
	// ErrUniqueViolation matches every *UniqueConstraintViolation.
	ErrUniqueViolation = errors.New("unique constraint violation")
	// ErrReferentialIntegrity matches every *ReferentialIntegrityError.
	ErrReferentialIntegrity = errors.New("referential integrity violation")
	// ErrNotFound matches every *NotFoundError.
	ErrNotFound = errors.New("not found")
)

// ValidationError reports a missing, malformed or out-of-enum field.
type ValidationError struct {
	Entity string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: invalid %s: %s", e.Entity, e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// UniqueConstraintViolation reports a write colliding with an existing live row.
type UniqueConstraintViolation struct {
	Entity string
	Field  string
	Value  string
}

func (e *UniqueConstraintViolation) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: duplicate %s", e.Entity, e.Field)
	}
	return fmt.Sprintf("%s: duplicate %s %q", e.Entity, e.Field, e.Value)
}

func (e *UniqueConstraintViolation) Is(target error) bool { return target == ErrUniqueViolation }

// ReferentialIntegrityError reports a delete blocked by a restrict relation or,
// when Dependents is zero, by a constraint the database enforced.
type ReferentialIntegrityError struct {
	Relation   Relation
	ParentID   uint
	Dependents int64
}

func (e *ReferentialIntegrityError) Error() string {
	if e.Relation.Column == "" {
		if e.Relation.Child == "" {
			return fmt.Sprintf("cannot delete %s %d: still referenced", e.Relation.Parent, e.ParentID)
		}
		return fmt.Sprintf("cannot delete %s %d: still referenced by %s", e.Relation.Parent, e.ParentID, e.Relation.Child)
	}
	return fmt.Sprintf("cannot delete %s %d: referenced by %d %s row(s) via %s",
		e.Relation.Parent, e.ParentID, e.Dependents, e.Relation.Child, e.Relation.Column)
}

func (e *ReferentialIntegrityError) Is(target error) bool { return target == ErrReferentialIntegrity }

// NotFoundError reports an operation targeting a nonexistent identity.
// Lookups by a natural key (email, slug) set Key instead of ID.
type NotFoundError struct {
	Entity string
	ID     uint
	Key    string
}

func (e *NotFoundError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s %q not found", e.Entity, e.Key)
	}
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }
