package user

import (
	"context"

	"chatz/pkg/identity"
)

type UserUsecase interface {
	// Register creates the caller's record and enrolls them in General
	Register(ctx context.Context, caller identity.Principal, cmd RegisterCommand) (*UserDTO, error)

	// Update changes only the supplied profile fields
	Update(ctx context.Context, caller identity.Principal, cmd UpdateCommand) (*UserDTO, error)

	GetUser(ctx context.Context, principal identity.Principal) (*UserDTO, error)
	GetCurrentUser(ctx context.Context, caller identity.Principal) (*UserDTO, error)
	ListUsers(ctx context.Context) ([]*UserDTO, error)

	SetEncryptedKey(ctx context.Context, caller identity.Principal, tag, value string) error
	GetEncryptedKeys(ctx context.Context, caller identity.Principal) (map[string]string, error)
}
