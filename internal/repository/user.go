package repository

import (
	"context"

	"elibrary/internal/model"
)

// UserRepository defines data access for user accounts.
type UserRepository interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)

	// Delete removes the user and clears uploaded_by on their documents in one transaction.
	// Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error
}
