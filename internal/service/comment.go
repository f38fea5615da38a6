package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"elibrary/internal/model"
	"elibrary/internal/repository"
)

// CommentService defines the use cases for comments scoped to a document.
type CommentService interface {
	// ListForDocument returns the document's comments, oldest first.
	ListForDocument(ctx context.Context, documentID string) ([]model.Comment, error)
	// Add attaches a comment to an existing document. The server assigns id, createdAt and documentId.
	Add(ctx context.Context, documentID string, c *model.Comment) (*model.Comment, error)
}

type commentService struct {
	log      *slog.Logger
	comments repository.CommentRepository
	docs     repository.DocumentRepository
}

// NewCommentService constructs a new CommentService.
func NewCommentService(log *slog.Logger, comments repository.CommentRepository, docs repository.DocumentRepository) CommentService {
	return &commentService{log: log, comments: comments, docs: docs}
}

func (s *commentService) ListForDocument(ctx context.Context, documentID string) ([]model.Comment, error) {
	if documentID == "" {
		return nil, ErrIDRequired
	}
	items, err := s.comments.ListByDocument(ctx, documentID)
	if err != nil {
		return nil, storageFailure("list comments", err)
	}
	return items, nil
}

func (s *commentService) Add(ctx context.Context, documentID string, c *model.Comment) (*model.Comment, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: comment is required", ErrInvalidInput)
	}
	if documentID == "" {
		return nil, ErrIDRequired
	}
	if _, err := s.docs.FindByID(ctx, documentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("document %s: %w", documentID, ErrNotFound)
		}
		return nil, storageFailure("get document", err)
	}

	stored, err := s.comments.Create(ctx, &model.Comment{
		ID:         uuid.NewString(),
		Content:    c.Content,
		User:       c.User,
		CreatedAt:  time.Now().UTC(),
		DocumentID: documentID,
	})
	if err != nil {
		// The document was deleted between the lookup and the insert.
		if errors.Is(err, repository.ErrMissingReference) {
			return nil, fmt.Errorf("document %s: %w", documentID, ErrNotFound)
		}
		s.log.Error("failed to save comment",
			slog.String("op", "commentService/Add"),
			slog.String("doc_id", documentID),
			slog.String("error", err.Error()))
		return nil, storageFailure("save comment", err)
	}
	return stored, nil
}
