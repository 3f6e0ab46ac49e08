package model

import (
	"github.com/uptrace/bun"

	"chatz/pkg/identity"
)

// GeneralChannelID is the reserved, always-joinable channel.
const GeneralChannelID uint64 = 1

type Channel struct {
	bun.BaseModel `bun:"table:channels"`

	ID uint64 `bun:",pk,autoincrement"`

	// Basic info
	Name        string  `bun:",notnull"`
	Description *string `bun:",nullzero"`

	// Access policy: independent axes
	IsEncrypted  bool    `bun:",notnull,default:false"`
	PasswordHash *string `bun:",nullzero"`

	// Ownership & metadata
	CreatedBy identity.Principal `bun:",notnull"`
	CreatedAt int64              `bun:",notnull"` // Unix nanoseconds

	// Activity tracking
	LastMessageAt *int64 `bun:",nullzero"`
	MessageCount  uint64 `bun:",notnull,default:0"`

	// Loaded from channel_members
	Members []identity.Principal `bun:"-"`
}

func (c *Channel) HasMember(p identity.Principal) bool {
	for _, m := range c.Members {
		if m == p {
			return true
		}
	}
	return false
}

func (c *Channel) IsGeneral() bool { return c.ID == GeneralChannelID }

func (c *Channel) IsPasswordProtected() bool { return c.PasswordHash != nil }

func (c *Channel) Clone() *Channel {
	cp := *c
	if c.Description != nil {
		d := *c.Description
		cp.Description = &d
	}
	if c.PasswordHash != nil {
		h := *c.PasswordHash
		cp.PasswordHash = &h
	}
	if c.LastMessageAt != nil {
		t := *c.LastMessageAt
		cp.LastMessageAt = &t
	}
	cp.Members = append([]identity.Principal(nil), c.Members...)
	return &cp
}
