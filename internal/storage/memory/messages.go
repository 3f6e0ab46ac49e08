package memory

import (
	"context"
	"sort"

	"chatz/internal/message"
	msgmodel "chatz/internal/message/model"
)

func (s *Store) CreateMessage(ctx context.Context, msg *msgmodel.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.checkChannel(msg.ChannelID, msg.Author); err != nil {
		return err
	}

	s.lastMessageID++
	msg.ID = s.lastMessageID
	s.messages = append(s.messages, msg.Clone())
	s.recordActivity(msg.ChannelID, msg.Author, msg.Timestamp)
	return nil
}

func (s *Store) GetMessage(ctx context.Context, id uint64) (*msgmodel.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := sort.Search(len(s.messages), func(i int) bool { return s.messages[i].ID >= id })
	if i == len(s.messages) || s.messages[i].ID != id {
		return nil, message.ErrMessageNotFound
	}
	return s.messages[i].Clone(), nil
}

func (s *Store) ListMessages(ctx context.Context, filter message.ListFilter) ([]*msgmodel.Message, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*msgmodel.Message, 0, filter.Limit)
	total := 0
	for _, m := range s.messages {
		if !sameChannel(m.ChannelID, filter.ChannelID) {
			continue
		}
		if total >= filter.Offset && len(out) < filter.Limit {
			out = append(out, m.Clone())
		}
		total++
	}
	return out, total, nil
}

func (s *Store) CountMessages(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages), nil
}

func sameChannel(a, b *uint64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
