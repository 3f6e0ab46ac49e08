package message

//go:generate mockgen -destination=mocks/mock_repository.go -package=mocks chatz/internal/message MessageRepository

import (
	"context"
	"errors"

	"chatz/internal/message/model"
)

var ErrMessageNotFound = errors.New("message not found")

type ListFilter struct {
	// nil selects messages posted without a channel
	ChannelID *uint64
	Limit     int
	Offset    int
}

type MessageRepository interface {
	// CreateMessage checks the target channel, assigns msg.ID, stores the
	// message and bumps the channel and author counters in one step. It
	// fails with channel.ErrChannelNotFound or channel.ErrNotMember.
	CreateMessage(ctx context.Context, msg *model.Message) error
	GetMessage(ctx context.Context, id uint64) (*model.Message, error)

	// ListMessages returns one page in id order plus the filter's total
	ListMessages(ctx context.Context, filter ListFilter) ([]*model.Message, int, error)
	CountMessages(ctx context.Context) (int, error)
}
