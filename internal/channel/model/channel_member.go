package model

import (
	"github.com/uptrace/bun"

	"chatz/pkg/identity"
)

type ChannelMember struct {
	bun.BaseModel `bun:"table:channel_members"`

	ChannelID uint64   `bun:",pk"`
	Channel   *Channel `bun:"rel:belongs-to,join:channel_id=id"`

	Principal identity.Principal `bun:",pk"`

	JoinedAt int64 `bun:",notnull"` // Unix nanoseconds
}
