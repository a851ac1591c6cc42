package store

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/beesaferoot/casadf-schema/integrity"
	"github.com/beesaferoot/casadf-schema/models"
)

type UserFilter struct {
	Role models.Role
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	return create(ctx, s, u)
}

func (s *Store) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return get[models.User](ctx, s, id)
}

// GetUserByEmail matches the trimmed address exactly.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return getBy[models.User](ctx, s, "email", strings.TrimSpace(email))
}

func (s *Store) GetUserByOpenID(ctx context.Context, openID string) (*models.User, error) {
	return getBy[models.User](ctx, s, "open_id", strings.TrimSpace(openID))
}

func (s *Store) ListUsers(ctx context.Context, f UserFilter, p Page) (Result[models.User], error) {
	return list[models.User](ctx, s, integrity.TableUsers, p, func(q *gorm.DB) *gorm.DB {
		return where(q, f.Role != "", "role", f.Role)
	})
}

func (s *Store) UpdateUser(ctx context.Context, u *models.User) error {
	return update(ctx, s, u, nil)
}

// DeleteUser clears the user from properties and leads, and fails while any
// contract names the user as tenant or owner.
func (s *Store) DeleteUser(ctx context.Context, id uint) error {
	return s.remove(ctx, integrity.TableUsers, id)
}
