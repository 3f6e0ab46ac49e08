// Package memory is the in-process backend. Every table lives behind a
// single RWMutex, so each check-then-write runs as one critical section.
package memory

import (
	"sync"

	"chatz/internal/channel"
	chmodel "chatz/internal/channel/model"
	"chatz/internal/encrypted"
	encmodel "chatz/internal/encrypted/model"
	"chatz/internal/message"
	msgmodel "chatz/internal/message/model"
	"chatz/internal/user"
	models "chatz/internal/user/model"
	"chatz/pkg/identity"
)

var (
	_ user.UserRepository                  = (*Store)(nil)
	_ channel.ChannelRepository            = (*Store)(nil)
	_ message.MessageRepository            = (*Store)(nil)
	_ encrypted.EncryptedMessageRepository = (*Store)(nil)
)

type Store struct {
	mu sync.RWMutex

	users     map[identity.Principal]*models.User
	usernames map[string]identity.Principal

	channels      map[uint64]*chmodel.Channel
	nextChannelID uint64

	// lastMessageID is shared by plaintext and encrypted messages
	lastMessageID uint64
	messages      []*msgmodel.Message // id ascending
	encrypted     map[uint64]*encmodel.EncryptedMessage
}

func New() *Store {
	return &Store{
		users:         make(map[identity.Principal]*models.User),
		usernames:     make(map[string]identity.Principal),
		channels:      make(map[uint64]*chmodel.Channel),
		nextChannelID: chmodel.GeneralChannelID + 1,
		encrypted:     make(map[uint64]*encmodel.EncryptedMessage),
	}
}

// recordActivity bumps channel and author counters. Callers hold mu.
func (s *Store) recordActivity(channelID *uint64, author identity.Principal, at int64) {
	if channelID != nil {
		if ch, ok := s.channels[*channelID]; ok {
			ch.MessageCount++
			ts := at
			ch.LastMessageAt = &ts
		}
	}
	if u, ok := s.users[author]; ok {
		u.MessageCount++
		u.LastActive = at
	}
}

// checkChannel validates the target of a new message. Callers hold mu.
func (s *Store) checkChannel(channelID *uint64, author identity.Principal) (*chmodel.Channel, error) {
	if channelID == nil {
		return nil, nil
	}
	ch, ok := s.channels[*channelID]
	if !ok {
		return nil, channel.ErrChannelNotFound
	}
	if !ch.HasMember(author) {
		return nil, channel.ErrNotMember
	}
	return ch, nil
}
