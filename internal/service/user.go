package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"elibrary/internal/model"
	"elibrary/internal/repository"
)

// UserService defines the use cases for user accounts. There is no authentication here.
type UserService interface {
	List(ctx context.Context) ([]model.User, error)
	// Register stores the user as given; id and createdAt are assigned by the server.
	Register(ctx context.Context, u *model.User) (*model.User, error)
	// Delete removes the user. Documents they uploaded are kept with no uploader.
	Delete(ctx context.Context, id string) error
}

type userService struct {
	log  *slog.Logger
	repo repository.UserRepository
}

// NewUserService constructs a new UserService.
func NewUserService(log *slog.Logger, repo repository.UserRepository) UserService {
	return &userService{log: log, repo: repo}
}

func (s *userService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, storageFailure("list users", err)
	}
	return users, nil
}

func (s *userService) Register(ctx context.Context, u *model.User) (*model.User, error) {
	if u == nil {
		return nil, fmt.Errorf("%w: user is required", ErrInvalidInput)
	}
	// TODO: reject duplicate emails once users.email gets a unique index.
	stored, err := s.repo.Create(ctx, &model.User{
		ID:        uuid.NewString(),
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		s.log.Error("failed to register user", slog.String("op", "userService/Register"), slog.String("error", err.Error()))
		return nil, storageFailure("register user", err)
	}
	return stored, nil
}

func (s *userService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return storageFailure("delete user", err)
	}
	return nil
}
