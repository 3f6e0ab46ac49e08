package channel

import (
	"context"

	"chatz/pkg/identity"
)

type ChannelUsecase interface {
	Create(ctx context.Context, caller identity.Principal, cmd CreateChannelCommand) (*ChannelDTO, error)
	CreateEncrypted(ctx context.Context, caller identity.Principal, cmd CreateEncryptedChannelCommand) (*ChannelDTO, error)

	// Join admits the caller, checking the password when one is set
	Join(ctx context.Context, caller identity.Principal, channelID uint64, password *string) error
	Leave(ctx context.Context, caller identity.Principal, channelID uint64) error
	Delete(ctx context.Context, caller identity.Principal, channelID uint64) error

	GetChannel(ctx context.Context, channelID uint64) (*ChannelDTO, error)
	ListChannels(ctx context.Context) ([]*ChannelDTO, error)
	IsMember(ctx context.Context, channelID uint64, principal identity.Principal) (bool, error)

	// FixGeneralChannel restores General to its open plaintext defaults
	FixGeneralChannel(ctx context.Context) (*ChannelDTO, error)
}
