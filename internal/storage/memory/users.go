package memory

import (
	"context"
	"sort"

	"chatz/internal/user"
	models "chatz/internal/user/model"
	"chatz/pkg/identity"
)

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[u.Principal]; ok {
		return user.ErrPrincipalExists
	}
	if _, ok := s.usernames[u.Username]; ok {
		return user.ErrUsernameTaken
	}
	if u.EncryptedKeys == nil {
		u.EncryptedKeys = map[string]string{}
	}
	s.users[u.Principal] = u.Clone()
	s.usernames[u.Username] = u.Principal
	return nil
}

func (s *Store) GetUserByPrincipal(ctx context.Context, principal identity.Principal) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[principal]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return u.Clone(), nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.usernames[username]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return s.users[p].Clone(), nil
}

// UpdateUser leaves counters alone and refreshes u from the stored record.
func (s *Store) UpdateUser(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.users[u.Principal]
	if !ok {
		return user.ErrUserNotFound
	}
	if u.Username != cur.Username {
		if holder, taken := s.usernames[u.Username]; taken && holder != u.Principal {
			return user.ErrUsernameTaken
		}
		delete(s.usernames, cur.Username)
		s.usernames[u.Username] = u.Principal
	}

	next := u.Clone()
	cur.Username = next.Username
	cur.Bio = next.Bio
	cur.AvatarURL = next.AvatarURL
	cur.LastActive = next.LastActive

	*u = *cur.Clone()
	return nil
}

func (s *Store) ListUsers(ctx context.Context) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].JoinedAt != out[j].JoinedAt {
			return out[i].JoinedAt < out[j].JoinedAt
		}
		return out[i].Principal < out[j].Principal
	})
	return out, nil
}

func (s *Store) ListPrincipals(ctx context.Context) ([]identity.Principal, error) {
	users, err := s.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]identity.Principal, len(users))
	for i, u := range users {
		out[i] = u.Principal
	}
	return out, nil
}

func (s *Store) CountUsers(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users), nil
}

func (s *Store) SetEncryptedKey(ctx context.Context, principal identity.Principal, tag, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[principal]
	if !ok {
		return user.ErrUserNotFound
	}
	u.EncryptedKeys[tag] = value
	return nil
}
