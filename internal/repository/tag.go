package repository

import (
	"context"

	"elibrary/internal/model"
)

// TagRepository defines data access for tags.
type TagRepository interface {
	// Create inserts a tag. Returns ErrDuplicate if the name is taken.
	Create(ctx context.Context, tag *model.Tag) (*model.Tag, error)

	// FindOrCreate returns the tag with this name, inserting it first if absent.
	// It is a single atomic statement, so concurrent callers observe the same row.
	FindOrCreate(ctx context.Context, id, name string) (*model.Tag, error)

	// FindByName returns the tag with exactly this name, or sql.ErrNoRows.
	FindByName(ctx context.Context, name string) (*model.Tag, error)

	List(ctx context.Context) ([]model.Tag, error)
}
