package repository

import (
	"context"

	"elibrary/internal/model"
)

// CommentRepository defines data access for comments.
type CommentRepository interface {
	// Create inserts a comment. Returns ErrMissingReference if the parent document does not exist.
	Create(ctx context.Context, c *model.Comment) (*model.Comment, error)

	// ListByDocument returns comments of a document in creation order.
	ListByDocument(ctx context.Context, documentID string) ([]model.Comment, error)
}
