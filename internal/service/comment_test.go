package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"elibrary/internal/logger"
	"elibrary/internal/model"
	"elibrary/internal/repository"
	repoMocks "elibrary/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCommentService_Add(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		docID      string
		comment    *model.Comment
		setupMocks func(mComments *repoMocks.MockCommentRepository, mDocs *repoMocks.MockDocumentRepository)
		wantErr    error
	}{
		{
			name:    "happy path assigns server fields",
			docID:   "doc-1",
			comment: &model.Comment{ID: "client-id", Content: "Looks good", User: "ana", DocumentID: "other-doc"},
			setupMocks: func(mComments *repoMocks.MockCommentRepository, mDocs *repoMocks.MockDocumentRepository) {
				mDocs.On("FindByID", ctx, "doc-1").Return(&model.Document{ID: "doc-1"}, nil)
				mComments.On("Create", ctx, mock.MatchedBy(func(c *model.Comment) bool {
					return c.ID != "" && c.ID != "client-id" &&
						c.DocumentID == "doc-1" &&
						c.Content == "Looks good" &&
						c.User == "ana" &&
						!c.CreatedAt.IsZero()
				})).Return(&model.Comment{ID: "c1", DocumentID: "doc-1"}, nil)
			},
		},
		{
			name:    "missing document creates nothing",
			docID:   "missing",
			comment: &model.Comment{Content: "hello"},
			setupMocks: func(mComments *repoMocks.MockCommentRepository, mDocs *repoMocks.MockDocumentRepository) {
				mDocs.On("FindByID", ctx, "missing").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrNotFound,
		},
		{
			name:    "document deleted before insert",
			docID:   "doc-1",
			comment: &model.Comment{Content: "hello"},
			setupMocks: func(mComments *repoMocks.MockCommentRepository, mDocs *repoMocks.MockDocumentRepository) {
				mDocs.On("FindByID", ctx, "doc-1").Return(&model.Document{ID: "doc-1"}, nil)
				mComments.On("Create", ctx, mock.Anything).Return(nil, repository.ErrMissingReference)
			},
			wantErr: ErrNotFound,
		},
		{
			name:       "validation - nil comment",
			docID:      "doc-1",
			setupMocks: func(mComments *repoMocks.MockCommentRepository, mDocs *repoMocks.MockDocumentRepository) {},
			wantErr:    ErrInvalidInput,
		},
		{
			name:       "validation - empty document id",
			comment:    &model.Comment{Content: "hello"},
			setupMocks: func(mComments *repoMocks.MockCommentRepository, mDocs *repoMocks.MockDocumentRepository) {},
			wantErr:    ErrIDRequired,
		},
		{
			name:    "repository error",
			docID:   "doc-1",
			comment: &model.Comment{Content: "hello"},
			setupMocks: func(mComments *repoMocks.MockCommentRepository, mDocs *repoMocks.MockDocumentRepository) {
				mDocs.On("FindByID", ctx, "doc-1").Return(&model.Document{ID: "doc-1"}, nil)
				mComments.On("Create", ctx, mock.Anything).Return(nil, errors.New("db fail"))
			},
			wantErr: ErrStorage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mComments := new(repoMocks.MockCommentRepository)
			mDocs := new(repoMocks.MockDocumentRepository)
			svc := NewCommentService(logger.Discard(), mComments, mDocs)
			tt.setupMocks(mComments, mDocs)

			c, err := svc.Add(ctx, tt.docID, tt.comment)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, c)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "doc-1", c.DocumentID)
			}
			mComments.AssertExpectations(t)
			mDocs.AssertExpectations(t)
			if errors.Is(tt.wantErr, ErrNotFound) && tt.docID == "missing" {
				mComments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestCommentService_ListForDocument(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		mComments := new(repoMocks.MockCommentRepository)
		mComments.On("ListByDocument", ctx, "doc-1").Return([]model.Comment{{ID: "c1"}, {ID: "c2"}}, nil)

		items, err := NewCommentService(logger.Discard(), mComments, nil).ListForDocument(ctx, "doc-1")

		assert.NoError(t, err)
		assert.Equal(t, "c1", items[0].ID)
		assert.Equal(t, "c2", items[1].ID)
	})

	t.Run("no comments", func(t *testing.T) {
		mComments := new(repoMocks.MockCommentRepository)
		mComments.On("ListByDocument", ctx, "doc-1").Return([]model.Comment{}, nil)

		items, err := NewCommentService(logger.Discard(), mComments, nil).ListForDocument(ctx, "doc-1")

		assert.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})

	t.Run("validation - empty id", func(t *testing.T) {
		_, err := NewCommentService(logger.Discard(), nil, nil).ListForDocument(ctx, "")
		assert.ErrorIs(t, err, ErrIDRequired)
	})

	t.Run("repository error", func(t *testing.T) {
		mComments := new(repoMocks.MockCommentRepository)
		mComments.On("ListByDocument", ctx, "doc-1").Return(nil, errors.New("db fail"))

		_, err := NewCommentService(logger.Discard(), mComments, nil).ListForDocument(ctx, "doc-1")
		assert.ErrorIs(t, err, ErrStorage)
	})
}
