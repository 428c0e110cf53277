// Package repository defines the storage interfaces consumed by the services.
package repository

import (
	"context"

	"feedchat/internal/domain"
)

// UserRepository stores and retrieves user accounts.
type UserRepository interface {
	// FindByUsername returns ErrUserNotFound when no such user exists.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)

	// Save inserts the user and fills in the generated ID. Returns
	// ErrDuplicateEntry when the username is already taken.
	Save(ctx context.Context, user *domain.User) error
}
