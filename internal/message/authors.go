package message

import (
	"context"

	"chatz/internal/user"
	"chatz/pkg/identity"
)

// AuthorNames resolves usernames at read time, once per principal.
type AuthorNames struct {
	users user.UserRepository
	seen  map[identity.Principal]string
}

func NewAuthorNames(users user.UserRepository) *AuthorNames {
	return &AuthorNames{users: users, seen: map[identity.Principal]string{}}
}

// Lookup falls back to UnknownAuthor when the user record is gone.
func (n *AuthorNames) Lookup(ctx context.Context, p identity.Principal) string {
	if name, ok := n.seen[p]; ok {
		return name
	}
	name := UnknownAuthor
	if u, err := n.users.GetUserByPrincipal(ctx, p); err == nil {
		name = u.Username
	}
	n.seen[p] = name
	return name
}
