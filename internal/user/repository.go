package user

//go:generate mockgen -destination=mocks/mock_repository.go -package=mocks chatz/internal/user UserRepository

import (
	"context"
	"errors"

	models "chatz/internal/user/model"
	"chatz/pkg/identity"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrPrincipalExists = errors.New("principal already registered")
	ErrUsernameTaken   = errors.New("username already taken")
)

type UserRepository interface {
	// CreateUser fails with ErrPrincipalExists or ErrUsernameTaken
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByPrincipal(ctx context.Context, principal identity.Principal) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// UpdateUser persists username, bio, avatar and last_active. The username
	// index is checked in the same step as the write.
	UpdateUser(ctx context.Context, user *models.User) error

	ListUsers(ctx context.Context) ([]*models.User, error)
	ListPrincipals(ctx context.Context) ([]identity.Principal, error)
	CountUsers(ctx context.Context) (int, error)

	SetEncryptedKey(ctx context.Context, principal identity.Principal, tag, value string) error
}
