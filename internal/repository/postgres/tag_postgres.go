package postgres

import (
	"context"
	"database/sql"

	"elibrary/internal/model"
	"elibrary/internal/repository"
)

// TagPostgres is a PostgreSQL implementation of repository.TagRepository.
type TagPostgres struct {
	db *sql.DB
}

// NewTagPostgres creates a new TagPostgres repository.
func NewTagPostgres(db *sql.DB) *TagPostgres {
	return &TagPostgres{db: db}
}

var _ repository.TagRepository = (*TagPostgres)(nil)

// Create inserts a tag row. A taken name yields repository.ErrDuplicate.
func (r *TagPostgres) Create(ctx context.Context, tag *model.Tag) (*model.Tag, error) {
	const q = `INSERT INTO tags (id, name) VALUES ($1, $2) RETURNING id, name`
	var out model.Tag
	if err := r.db.QueryRowContext(ctx, q, tag.ID, tag.Name).Scan(&out.ID, &out.Name); err != nil {
		return nil, classify(err)
	}
	return &out, nil
}

// FindOrCreate upserts by name. The no-op update makes RETURNING yield the existing row on conflict.
func (r *TagPostgres) FindOrCreate(ctx context.Context, id, name string) (*model.Tag, error) {
	const q = `
		INSERT INTO tags (id, name) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name
	`
	var out model.Tag
	if err := r.db.QueryRowContext(ctx, q, id, name).Scan(&out.ID, &out.Name); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindByName returns the tag with this exact name.
func (r *TagPostgres) FindByName(ctx context.Context, name string) (*model.Tag, error) {
	const q = `SELECT id, name FROM tags WHERE name = $1`
	var out model.Tag
	if err := r.db.QueryRowContext(ctx, q, name).Scan(&out.ID, &out.Name); err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns all tags ordered by name.
func (r *TagPostgres) List(ctx context.Context) ([]model.Tag, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM tags ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Tag, 0)
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
