// Package stats derives service-wide counts from the stores on demand.
package stats

import (
	"context"

	"chatz/pkg/errors"
	"chatz/pkg/logger"
)

type Stats struct {
	Users             int `json:"users"`
	Messages          int `json:"messages"`
	Channels          int `json:"channels"`
	EncryptedMessages int `json:"encrypted_messages"`
}

type (
	userCounter      interface{ CountUsers(ctx context.Context) (int, error) }
	messageCounter   interface{ CountMessages(ctx context.Context) (int, error) }
	channelCounter   interface{ CountChannels(ctx context.Context) (int, error) }
	encryptedCounter interface{ CountEncryptedMessages(ctx context.Context) (int, error) }
)

type StatsUsecase struct {
	users     userCounter
	messages  messageCounter
	channels  channelCounter
	encrypted encryptedCounter
	logger    logger.Logger
}

func NewStatsUsecase(users userCounter, messages messageCounter, channels channelCounter, encrypted encryptedCounter, logger logger.Logger) *StatsUsecase {
	return &StatsUsecase{users: users, messages: messages, channels: channels, encrypted: encrypted, logger: logger}
}

func (uc *StatsUsecase) Get(ctx context.Context) (*Stats, error) {
	var (
		s   Stats
		err error
	)
	if s.Users, err = uc.users.CountUsers(ctx); err != nil {
		return nil, uc.fail("users", err)
	}
	if s.Messages, err = uc.messages.CountMessages(ctx); err != nil {
		return nil, uc.fail("messages", err)
	}
	if s.Channels, err = uc.channels.CountChannels(ctx); err != nil {
		return nil, uc.fail("channels", err)
	}
	if s.EncryptedMessages, err = uc.encrypted.CountEncryptedMessages(ctx); err != nil {
		return nil, uc.fail("encrypted_messages", err)
	}
	return &s, nil
}

func (uc *StatsUsecase) fail(what string, err error) error {
	uc.logger.Error("failed to count", "what", what, "err", err)
	return errors.ErrStorage(err)
}
