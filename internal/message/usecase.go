package message

import (
	"context"

	"chatz/pkg/identity"
)

type MessageUsecase interface {
	Send(ctx context.Context, caller identity.Principal, cmd SendCommand) (*MessageDTO, error)
	GetMessage(ctx context.Context, id uint64) (*MessageWithAuthorDTO, error)
	List(ctx context.Context, query ListQuery) (*PaginatedMessages, error)
}

// Publisher fans stored messages out to live subscribers. Implementations
// must not block.
type Publisher interface {
	Publish(channelID *uint64, kind string, payload any)
}
