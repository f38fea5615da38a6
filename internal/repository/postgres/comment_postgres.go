package postgres

import (
	"context"
	"database/sql"

	"elibrary/internal/model"
	"elibrary/internal/repository"
)

// CommentPostgres is a PostgreSQL implementation of repository.CommentRepository.
type CommentPostgres struct {
	db *sql.DB
}

// NewCommentPostgres creates a new CommentPostgres repository.
func NewCommentPostgres(db *sql.DB) *CommentPostgres {
	return &CommentPostgres{db: db}
}

var _ repository.CommentRepository = (*CommentPostgres)(nil)

// Create inserts a comment row and returns the stored record.
// The foreign key on document_id turns a vanished parent into repository.ErrMissingReference.
func (r *CommentPostgres) Create(ctx context.Context, c *model.Comment) (*model.Comment, error) {
	const q = `
		INSERT INTO comments (id, content, author, created_at, document_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, content, author, created_at, document_id
	`
	row := r.db.QueryRowContext(ctx, q,
		c.ID,
		c.Content,
		c.User,
		c.CreatedAt,
		c.DocumentID,
	)
	var out model.Comment
	if err := row.Scan(
		&out.ID,
		&out.Content,
		&out.User,
		&out.CreatedAt,
		&out.DocumentID,
	); err != nil {
		return nil, classify(err)
	}
	return &out, nil
}

// ListByDocument returns the comments of one document, oldest first.
func (r *CommentPostgres) ListByDocument(ctx context.Context, documentID string) ([]model.Comment, error) {
	const q = `
		SELECT id, content, author, created_at, document_id
		FROM comments
		WHERE document_id = $1
		ORDER BY created_at, id
	`
	rows, err := r.db.QueryContext(ctx, q, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Comment, 0)
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.Content, &c.User, &c.CreatedAt, &c.DocumentID); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
