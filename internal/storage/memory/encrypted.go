package memory

import (
	"context"
	"sort"

	"chatz/internal/encrypted"
	encmodel "chatz/internal/encrypted/model"
	"chatz/pkg/identity"
)

func (s *Store) CreateEncryptedMessage(ctx context.Context, msg *encmodel.EncryptedMessage, seal encrypted.Sealer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, err := s.checkChannel(msg.ChannelID, msg.Author)
	if err != nil {
		return err
	}
	if ch != nil && !ch.IsEncrypted {
		return encrypted.ErrChannelNotEncrypted
	}

	id := s.lastMessageID + 1
	content, signature, err := seal(id)
	if err != nil {
		return err
	}
	s.lastMessageID = id

	msg.ID = id
	msg.EncryptedContent = content
	msg.Signature = signature
	s.encrypted[id] = msg.Clone()
	s.recordActivity(msg.ChannelID, msg.Author, msg.Timestamp)
	return nil
}

func (s *Store) GetEncryptedMessage(ctx context.Context, id uint64) (*encmodel.EncryptedMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.encrypted[id]
	if !ok {
		return nil, encrypted.ErrEncryptedMessageNotFound
	}
	return m.Clone(), nil
}

func (s *Store) ListEncryptedMessages(ctx context.Context, filter encrypted.ListFilter) ([]*encmodel.EncryptedMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*encmodel.EncryptedMessage, 0)
	for _, m := range s.encrypted {
		if m.IsExpired(filter.ActiveAt) {
			continue
		}
		if filter.ChannelID != nil && (m.ChannelID == nil || *m.ChannelID != *filter.ChannelID) {
			continue
		}
		if p := filter.Participant; p != nil && m.Author != *p && !m.IsSharedWith(*p) {
			continue
		}
		out = append(out, m.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) ShareEncryptedMessage(ctx context.Context, id uint64, grantee identity.Principal, guard encrypted.Guard) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.guardedEncrypted(id, guard)
	if err != nil {
		return err
	}
	if !m.IsSharedWith(grantee) {
		m.SharedWith = append(m.SharedWith, grantee)
	}
	return nil
}

func (s *Store) DeleteEncryptedMessage(ctx context.Context, id uint64, guard encrypted.Guard) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.guardedEncrypted(id, guard); err != nil {
		return err
	}
	delete(s.encrypted, id)
	return nil
}

func (s *Store) DeleteExpired(ctx context.Context, now int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, m := range s.encrypted {
		if m.IsExpired(now) {
			delete(s.encrypted, id)
			removed++
		}
	}
	return removed, nil
}

func (s *Store) CountEncryptedMessages(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.encrypted), nil
}

func (s *Store) guardedEncrypted(id uint64, guard encrypted.Guard) (*encmodel.EncryptedMessage, error) {
	m, ok := s.encrypted[id]
	if !ok {
		return nil, encrypted.ErrEncryptedMessageNotFound
	}
	if guard != nil {
		if err := guard(m.Clone()); err != nil {
			return nil, err
		}
	}
	return m, nil
}
