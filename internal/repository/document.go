package repository

import (
	"context"

	"elibrary/internal/model"
)

// DocumentRepository defines data access for documents using SQL queries only.
// Persistence only; business rules live in the service layer.
type DocumentRepository interface {
	// Create inserts a document row together with its tag links in a single transaction.
	// The caller provides ID and UploadedAt. Tags must already exist.
	// Returns ErrMissingReference if UploadedBy points to an unknown user.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a document with its tags and uploader, or sql.ErrNoRows.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// List returns every document with its tags and uploader.
	List(ctx context.Context) ([]model.Document, error)

	// ListByTagName returns documents carrying a tag with exactly this name.
	ListByTagName(ctx context.Context, tagName string) ([]model.Document, error)

	// Delete removes the document, its comments, and its tag links atomically.
	// Comments are removed before the document row. Returns sql.ErrNoRows if the document does not exist.
	Delete(ctx context.Context, id string) error
}
