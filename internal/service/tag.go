package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"elibrary/internal/model"
	"elibrary/internal/repository"
)

// TagService defines the use cases for tags.
type TagService interface {
	List(ctx context.Context) ([]model.Tag, error)
	// Create inserts a new tag. An existing name fails with ErrConflict.
	Create(ctx context.Context, tag *model.Tag) (*model.Tag, error)
	// GetByName returns the tag with exactly this name or ErrNotFound.
	GetByName(ctx context.Context, name string) (*model.Tag, error)
}

type tagService struct {
	log  *slog.Logger
	repo repository.TagRepository
}

// NewTagService constructs a new TagService.
func NewTagService(log *slog.Logger, repo repository.TagRepository) TagService {
	return &tagService{log: log, repo: repo}
}

func (s *tagService) List(ctx context.Context) ([]model.Tag, error) {
	tags, err := s.repo.List(ctx)
	if err != nil {
		return nil, storageFailure("list tags", err)
	}
	return tags, nil
}

func (s *tagService) Create(ctx context.Context, tag *model.Tag) (*model.Tag, error) {
	if tag == nil {
		return nil, fmt.Errorf("%w: tag is required", ErrInvalidInput)
	}
	name := strings.TrimSpace(tag.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: tag name is required", ErrInvalidInput)
	}

	stored, err := s.repo.Create(ctx, &model.Tag{ID: uuid.NewString(), Name: name})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("tag %q: %w", name, ErrConflict)
		}
		s.log.Error("failed to create tag", slog.String("op", "tagService/Create"), slog.String("error", err.Error()))
		return nil, storageFailure("create tag", err)
	}
	return stored, nil
}

func (s *tagService) GetByName(ctx context.Context, name string) (*model.Tag, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: tag name is required", ErrInvalidInput)
	}
	tag, err := s.repo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("tag %q: %w", name, ErrNotFound)
		}
		return nil, storageFailure("get tag", err)
	}
	return tag, nil
}

// resolveTags maps names to Tag records, creating the missing ones.
// Blank names are skipped and the result holds each tag once.
func resolveTags(ctx context.Context, repo repository.TagRepository, names []string) ([]model.Tag, error) {
	tags := make([]model.Tag, 0, len(names))
	seenNames := make(map[string]struct{}, len(names))
	seenIDs := make(map[string]struct{}, len(names))

	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		if _, ok := seenNames[name]; ok {
			continue
		}
		seenNames[name] = struct{}{}

		tag, err := repo.FindOrCreate(ctx, uuid.NewString(), name)
		if err != nil {
			return nil, fmt.Errorf("resolve tag %q: %w", name, err)
		}
		if _, ok := seenIDs[tag.ID]; ok {
			continue
		}
		seenIDs[tag.ID] = struct{}{}
		tags = append(tags, *tag)
	}
	return tags, nil
}
