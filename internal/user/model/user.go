package models

import (
	"github.com/uptrace/bun"

	"chatz/pkg/identity"
)

type User struct {
	bun.BaseModel `bun:"table:users"`

	// Principal = identity handed over by the identity provider
	Principal identity.Principal `bun:",pk"`

	// Username = unique handle shown next to messages
	Username string `bun:",unique,notnull"`

	Bio       *string `bun:",nullzero"`
	AvatarURL *string `bun:",nullzero"`

	// Unix nanoseconds
	JoinedAt   int64 `bun:",notnull"`
	LastActive int64 `bun:",notnull"`

	MessageCount uint64 `bun:",notnull,default:0"`

	// Opaque per-user key material keyed by an external tag
	EncryptedKeys map[string]string `bun:",type:jsonb,notnull,default:'{}'"`
}

// Clone returns a deep copy so callers cannot alias stored state.
func (u *User) Clone() *User {
	c := *u
	c.Bio = cloneString(u.Bio)
	c.AvatarURL = cloneString(u.AvatarURL)
	c.EncryptedKeys = make(map[string]string, len(u.EncryptedKeys))
	for k, v := range u.EncryptedKeys {
		c.EncryptedKeys[k] = v
	}
	return &c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
