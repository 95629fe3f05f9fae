package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/smileie/smileie-backend/internal/model"
	"github.com/smileie/smileie-backend/internal/repository"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

// UserStore is the account persistence UserService needs.
type UserStore interface {
	GetByID(ctx context.Context, id int) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, u *model.User) error
	List(ctx context.Context, role model.Role, limit, offset int) ([]model.User, int, error)
}

// UserService handles dashboard account business logic.
type UserService struct {
	store UserStore
	auth  *AuthService
}

// NewUserService creates a new UserService.
func NewUserService(store UserStore, auth *AuthService) *UserService {
	return &UserService{store: store, auth: auth}
}

func mapRepoErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrUserNotFound
	case errors.Is(err, repository.ErrDuplicate):
		return ErrEmailTaken
	}
	return err
}

// GetByID retrieves an account by ID.
func (s *UserService) GetByID(ctx context.Context, id int) (*model.User, error) {
	u, err := s.store.GetByID(ctx, id)
	return u, mapRepoErr(err)
}

// GetByEmail retrieves an account by email.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := s.store.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	return u, mapRepoErr(err)
}

// ListUsers retrieves a page of accounts. Zero role lists every role.
func (s *UserService) ListUsers(ctx context.Context, role model.Role, page, perPage int) ([]model.User, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 10
	}
	users, total, err := s.store.List(ctx, role, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

// CreateUser hashes the password and stores a new account.
func (s *UserService) CreateUser(ctx context.Context, req model.CreateUserRequest) (*model.User, error) {
	if !req.Role.Valid() {
		return nil, fmt.Errorf("create user: unknown role %q", req.Role)
	}

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &model.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		DisplayName:  strings.TrimSpace(req.DisplayName),
		PasswordHash: hash,
		Role:         req.Role,
	}
	if err := s.store.Create(ctx, u); err != nil {
		return nil, mapRepoErr(err)
	}
	return u, nil
}
