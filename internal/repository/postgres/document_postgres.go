package postgres

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"elibrary/internal/model"
	"elibrary/internal/repository"
)

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

func selectDocuments() sq.SelectBuilder {
	return psql.Select(
		"d.id", "d.title", "d.description", "d.file_url", "d.file_key", "d.uploaded_at",
		"u.id", "u.name", "u.email", "u.created_at",
	).
		From("documents d").
		LeftJoin("users u ON u.id = d.uploaded_by")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (model.Document, error) {
	var (
		d        model.Document
		fileURL  sql.NullString
		userID   sql.NullString
		userName sql.NullString
		email    sql.NullString
		joinedAt sql.NullTime
	)
	if err := row.Scan(
		&d.ID,
		&d.Title,
		&d.Description,
		&fileURL,
		&d.FileKey,
		&d.UploadedAt,
		&userID,
		&userName,
		&email,
		&joinedAt,
	); err != nil {
		return model.Document{}, err
	}
	if fileURL.Valid {
		d.FileURL = &fileURL.String
	}
	if userID.Valid {
		d.UploadedBy = &model.User{
			ID:        userID.String,
			Name:      userName.String,
			Email:     email.String,
			CreatedAt: joinedAt.Time,
		}
	}
	d.Tags = []model.Tag{}
	return d, nil
}

// Create inserts the document row and its tag links, then returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	var uploadedBy string
	if doc.UploadedBy != nil {
		uploadedBy = doc.UploadedBy.ID
	}

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		const q = `
			INSERT INTO documents (id, title, description, file_url, file_key, uploaded_at, uploaded_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		if _, err := tx.ExecContext(ctx, q,
			doc.ID,
			doc.Title,
			doc.Description,
			doc.FileURL,
			doc.FileKey,
			doc.UploadedAt,
			nullString(uploadedBy),
		); err != nil {
			return fmt.Errorf("insert document: %w", classify(err))
		}

		if len(doc.Tags) == 0 {
			return nil
		}

		ins := psql.Insert("document_tags").Columns("document_id", "tag_id")
		for _, t := range doc.Tags {
			ins = ins.Values(doc.ID, t.ID)
		}
		query, args, err := ins.ToSql()
		if err != nil {
			return fmt.Errorf("build tag links: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert tag links: %w", classify(err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.FindByID(ctx, doc.ID)
}

// FindByID fetches a single document by its ID.
func (r *DocumentPostgres) FindByID(ctx context.Context, id string) (*model.Document, error) {
	query, args, err := selectDocuments().Where(sq.Eq{"d.id": id}).ToSql()
	if err != nil {
		return nil, err
	}

	d, err := scanDocument(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, err
	}

	docs := []model.Document{d}
	if err := loadTags(ctx, r.db, docs); err != nil {
		return nil, err
	}
	return &docs[0], nil
}

// List returns all documents, newest first.
func (r *DocumentPostgres) List(ctx context.Context) ([]model.Document, error) {
	return r.query(ctx, selectDocuments().OrderBy("d.uploaded_at DESC", "d.id"))
}

// ListByTagName returns documents having a tag whose name matches exactly (case-sensitive).
func (r *DocumentPostgres) ListByTagName(ctx context.Context, tagName string) ([]model.Document, error) {
	b := selectDocuments().
		Where(`EXISTS (
			SELECT 1 FROM document_tags dt
			JOIN tags t ON t.id = dt.tag_id
			WHERE dt.document_id = d.id AND t.name = ?
		)`, tagName).
		OrderBy("d.uploaded_at DESC", "d.id")
	return r.query(ctx, b)
}

// Delete removes comments, tag links, and finally the document row in one transaction.
// The document row is locked first so no reader sees a partially deleted document.
func (r *DocumentPostgres) Delete(ctx context.Context, id string) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		var locked string
		if err := tx.QueryRowContext(ctx,
			`SELECT id FROM documents WHERE id = $1 FOR UPDATE`, id,
		).Scan(&locked); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE document_id = $1`, id); err != nil {
			return fmt.Errorf("delete comments: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM document_tags WHERE document_id = $1`, id); err != nil {
			return fmt.Errorf("delete tag links: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id); err != nil {
			return fmt.Errorf("delete document: %w", err)
		}
		return nil
	})
}

func (r *DocumentPostgres) query(ctx context.Context, b sq.SelectBuilder) ([]model.Document, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := loadTags(ctx, r.db, items); err != nil {
		return nil, err
	}
	return items, nil
}

// loadTags fills the Tags of every document with a single IN query.
func loadTags(ctx context.Context, q queryer, docs []model.Document) error {
	if len(docs) == 0 {
		return nil
	}

	ids := make([]string, 0, len(docs))
	index := make(map[string]int, len(docs))
	for i, d := range docs {
		ids = append(ids, d.ID)
		index[d.ID] = i
	}

	query, args, err := psql.Select("dt.document_id", "t.id", "t.name").
		From("document_tags dt").
		Join("tags t ON t.id = dt.tag_id").
		Where(sq.Eq{"dt.document_id": ids}).
		OrderBy("t.name").
		ToSql()
	if err != nil {
		return err
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("load tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var docID string
		var t model.Tag
		if err := rows.Scan(&docID, &t.ID, &t.Name); err != nil {
			return err
		}
		if i, ok := index[docID]; ok {
			docs[i].Tags = append(docs[i].Tags, t)
		}
	}
	return rows.Err()
}
