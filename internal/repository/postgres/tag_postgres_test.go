package postgres

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"elibrary/internal/model"
	"elibrary/internal/repository"
)

func TestTagPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTagPostgres(db)

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO tags").
			WithArgs("tag-1", "finance").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow("tag-1", "finance"))

		tag, err := repo.Create(context.Background(), &model.Tag{ID: "tag-1", Name: "finance"})

		require.NoError(t, err)
		assert.Equal(t, "finance", tag.Name)
	})

	t.Run("duplicate name", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO tags").
			WithArgs("tag-2", "finance").
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "tags_name_key"})

		tag, err := repo.Create(context.Background(), &model.Tag{ID: "tag-2", Name: "finance"})

		assert.ErrorIs(t, err, repository.ErrDuplicate)
		assert.Nil(t, tag)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTagPostgres_FindOrCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTagPostgres(db)

	// An existing name returns the stored id rather than the proposed one.
	mock.ExpectQuery("INSERT INTO tags (.+) ON CONFLICT \\(name\\) DO UPDATE (.+) RETURNING id, name").
		WithArgs("proposed-id", "finance").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow("existing-id", "finance"))

	tag, err := repo.FindOrCreate(context.Background(), "proposed-id", "finance")

	require.NoError(t, err)
	assert.Equal(t, "existing-id", tag.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTagPostgres_FindByName(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTagPostgres(db)

	mock.ExpectQuery("SELECT id, name FROM tags WHERE name = \\$1").
		WithArgs("finance").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow("tag-1", "finance"))
	mock.ExpectQuery("SELECT id, name FROM tags WHERE name = \\$1").
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	tag, err := repo.FindByName(context.Background(), "finance")
	require.NoError(t, err)
	assert.Equal(t, "tag-1", tag.ID)

	_, err = repo.FindByName(context.Background(), "nope")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTagPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTagPostgres(db)

	mock.ExpectQuery("SELECT id, name FROM tags ORDER BY name").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow("tag-2", "2024").
			AddRow("tag-1", "finance"))

	tags, err := repo.List(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []model.Tag{{ID: "tag-2", Name: "2024"}, {ID: "tag-1", Name: "finance"}}, tags)
	assert.NoError(t, mock.ExpectationsWereMet())
}
