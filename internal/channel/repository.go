package channel

//go:generate mockgen -destination=mocks/mock_repository.go -package=mocks chatz/internal/channel ChannelRepository

import (
	"context"
	"errors"

	"chatz/internal/channel/model"
	"chatz/pkg/identity"
)

var (
	ErrChannelNotFound = errors.New("channel not found")
	ErrNotMember       = errors.New("principal is not a channel member")
)

// Guard is evaluated by a repository inside the same critical section as
// the write it protects. A non-nil error aborts the write and is returned
// unchanged.
type Guard func(ch *model.Channel) error

type ChannelRepository interface {
	// CreateChannel assigns ch.ID and stores ch.Members as the initial members
	CreateChannel(ctx context.Context, ch *model.Channel) error
	GetChannel(ctx context.Context, id uint64) (*model.Channel, error)
	ListChannels(ctx context.Context) ([]*model.Channel, error)
	CountChannels(ctx context.Context) (int, error)

	// IsMember reads membership live. Missing channels report ErrChannelNotFound.
	IsMember(ctx context.Context, id uint64, principal identity.Principal) (bool, error)

	// AddMember is idempotent
	AddMember(ctx context.Context, id uint64, principal identity.Principal, joinedAt int64, guard Guard) error
	RemoveMember(ctx context.Context, id uint64, principal identity.Principal, guard Guard) error
	DeleteChannel(ctx context.Context, id uint64, guard Guard) error

	// ResetGeneralChannel creates General from tmpl if it is missing,
	// otherwise clears its password and encryption flag, then ensures every
	// principal in members belongs to it.
	ResetGeneralChannel(ctx context.Context, tmpl *model.Channel, members []identity.Principal) (*model.Channel, error)
}
