package memory

import (
	"context"
	"sort"

	"chatz/internal/channel"
	chmodel "chatz/internal/channel/model"
	"chatz/pkg/identity"
)

func (s *Store) CreateChannel(ctx context.Context, ch *chmodel.Channel) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch.ID = s.nextChannelID
	s.nextChannelID++
	ch.Members = dedupe(ch.Members)
	s.channels[ch.ID] = ch.Clone()
	return nil
}

func (s *Store) GetChannel(ctx context.Context, id uint64) (*chmodel.Channel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ch, ok := s.channels[id]
	if !ok {
		return nil, channel.ErrChannelNotFound
	}
	return ch.Clone(), nil
}

func (s *Store) ListChannels(ctx context.Context) ([]*chmodel.Channel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*chmodel.Channel, 0, len(s.channels))
	for _, ch := range s.channels {
		out = append(out, ch.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) CountChannels(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.channels), nil
}

func (s *Store) IsMember(ctx context.Context, id uint64, principal identity.Principal) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ch, ok := s.channels[id]
	if !ok {
		return false, channel.ErrChannelNotFound
	}
	return ch.HasMember(principal), nil
}

func (s *Store) AddMember(ctx context.Context, id uint64, principal identity.Principal, joinedAt int64, guard channel.Guard) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, err := s.guardedChannel(id, guard)
	if err != nil {
		return err
	}
	if !ch.HasMember(principal) {
		ch.Members = append(ch.Members, principal)
	}
	return nil
}

func (s *Store) RemoveMember(ctx context.Context, id uint64, principal identity.Principal, guard channel.Guard) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, err := s.guardedChannel(id, guard)
	if err != nil {
		return err
	}
	for i, m := range ch.Members {
		if m == principal {
			ch.Members = append(ch.Members[:i], ch.Members[i+1:]...)
			return nil
		}
	}
	return channel.ErrNotMember
}

func (s *Store) DeleteChannel(ctx context.Context, id uint64, guard channel.Guard) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.guardedChannel(id, guard); err != nil {
		return err
	}
	delete(s.channels, id)
	return nil
}

func (s *Store) ResetGeneralChannel(ctx context.Context, tmpl *chmodel.Channel, members []identity.Principal) (*chmodel.Channel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, ok := s.channels[chmodel.GeneralChannelID]
	if !ok {
		ch = tmpl.Clone()
		ch.ID = chmodel.GeneralChannelID
		ch.Members = nil
		s.channels[ch.ID] = ch
	}
	ch.PasswordHash = nil
	ch.IsEncrypted = false
	for _, p := range members {
		if !ch.HasMember(p) {
			ch.Members = append(ch.Members, p)
		}
	}
	return ch.Clone(), nil
}

// guardedChannel looks up id and runs guard on a copy. Callers hold mu.
func (s *Store) guardedChannel(id uint64, guard channel.Guard) (*chmodel.Channel, error) {
	ch, ok := s.channels[id]
	if !ok {
		return nil, channel.ErrChannelNotFound
	}
	if guard != nil {
		if err := guard(ch.Clone()); err != nil {
			return nil, err
		}
	}
	return ch, nil
}

func dedupe(in []identity.Principal) []identity.Principal {
	seen := make(map[identity.Principal]struct{}, len(in))
	out := make([]identity.Principal, 0, len(in))
	for _, p := range in {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
