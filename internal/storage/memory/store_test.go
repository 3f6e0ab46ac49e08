package memory

import (
	"context"
	"sync"
	"testing"

	"chatz/internal/channel"
	chmodel "chatz/internal/channel/model"
	"chatz/internal/encrypted"
	encmodel "chatz/internal/encrypted/model"
	"chatz/internal/message"
	msgmodel "chatz/internal/message/model"
	"chatz/internal/user"
	models "chatz/internal/user/model"
	"chatz/pkg/identity"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_UserUniqueness(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, s.CreateUser(ctx, &models.User{Principal: "p1", Username: "alice"}))
	assert.ErrorIs(t, s.CreateUser(ctx, &models.User{Principal: "p1", Username: "other"}), user.ErrPrincipalExists)
	assert.ErrorIs(t, s.CreateUser(ctx, &models.User{Principal: "p2", Username: "alice"}), user.ErrUsernameTaken)

	require.NoError(t, s.CreateUser(ctx, &models.User{Principal: "p2", Username: "bob"}))
	u := &models.User{Principal: "p2", Username: "alice"}
	assert.ErrorIs(t, s.UpdateUser(ctx, u), user.ErrUsernameTaken)

	u = &models.User{Principal: "p2", Username: "robert"}
	require.NoError(t, s.UpdateUser(ctx, u))
	_, err := s.GetUserByUsername(ctx, "bob")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
	got, err := s.GetUserByUsername(ctx, "robert")
	require.NoError(t, err)
	assert.Equal(t, identity.Principal("p2"), got.Principal)
}

func TestStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := New()
	ch := &chmodel.Channel{Name: "c", CreatedBy: "a", Members: []identity.Principal{"a", "a"}}
	require.NoError(t, s.CreateChannel(ctx, ch))
	assert.Equal(t, uint64(2), ch.ID)

	got, err := s.GetChannel(ctx, ch.ID)
	require.NoError(t, err)
	assert.Equal(t, []identity.Principal{"a"}, got.Members)

	got.Members = append(got.Members, "intruder")
	ok, err := s.IsMember(ctx, ch.ID, "intruder")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_GuardErrorsPassThrough(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.CreateChannel(ctx, &chmodel.Channel{Name: "c", CreatedBy: "a", Members: []identity.Principal{"a"}}))

	denied := errors.New("denied")
	guard := func(*chmodel.Channel) error { return denied }

	assert.ErrorIs(t, s.AddMember(ctx, 2, "b", 0, guard), denied)
	assert.ErrorIs(t, s.RemoveMember(ctx, 2, "a", guard), denied)
	assert.ErrorIs(t, s.DeleteChannel(ctx, 2, guard), denied)
	assert.ErrorIs(t, s.AddMember(ctx, 9, "b", 0, nil), channel.ErrChannelNotFound)
	assert.ErrorIs(t, s.RemoveMember(ctx, 2, "b", nil), channel.ErrNotMember)

	ok, err := s.IsMember(ctx, 2, "b")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_SharedMessageSequence(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.CreateUser(ctx, &models.User{Principal: "a", Username: "a"}))

	plain := &msgmodel.Message{Author: "a", Content: "p"}
	require.NoError(t, s.CreateMessage(ctx, plain))

	failed := errors.New("seal failed")
	err := s.CreateEncryptedMessage(ctx, &encmodel.EncryptedMessage{Author: "a"}, func(uint64) (string, []byte, error) {
		return "", nil, failed
	})
	assert.ErrorIs(t, err, failed)

	var sealedFor uint64
	enc := &encmodel.EncryptedMessage{Author: "a"}
	require.NoError(t, s.CreateEncryptedMessage(ctx, enc, func(id uint64) (string, []byte, error) {
		sealedFor = id
		return "ct", []byte("sig"), nil
	}))

	assert.Equal(t, uint64(1), plain.ID)
	assert.Equal(t, uint64(2), enc.ID)
	assert.Equal(t, enc.ID, sealedFor)
	assert.Equal(t, "ct", enc.EncryptedContent)

	u, err := s.GetUserByPrincipal(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), u.MessageCount)
}

func TestStore_EncryptedRequiresEncryptedChannel(t *testing.T) {
	ctx := context.Background()
	s := New()
	ch := &chmodel.Channel{Name: "plain", CreatedBy: "a", Members: []identity.Principal{"a"}}
	require.NoError(t, s.CreateChannel(ctx, ch))

	called := false
	err := s.CreateEncryptedMessage(ctx, &encmodel.EncryptedMessage{Author: "a", ChannelID: &ch.ID}, func(uint64) (string, []byte, error) {
		called = true
		return "", nil, nil
	})
	assert.ErrorIs(t, err, encrypted.ErrChannelNotEncrypted)
	assert.False(t, called)
}

func TestStore_SweepRemovesOnlyExpired(t *testing.T) {
	ctx := context.Background()
	s := New()
	seal := func(uint64) (string, []byte, error) { return "ct", nil, nil }

	for _, exp := range []int64{10, 20, 30} {
		require.NoError(t, s.CreateEncryptedMessage(ctx, &encmodel.EncryptedMessage{Author: "a", ExpiresAt: exp}, seal))
	}

	n, err := s.DeleteExpired(ctx, 20)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	left, err := s.ListEncryptedMessages(ctx, encrypted.ListFilter{ActiveAt: 0})
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, int64(30), left[0].ExpiresAt)
}

func TestStore_ConcurrentJoinAndSend(t *testing.T) {
	ctx := context.Background()
	s := New()
	ch := &chmodel.Channel{Name: "c", CreatedBy: "owner", Members: []identity.Principal{"owner"}}
	require.NoError(t, s.CreateChannel(ctx, ch))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		p := identity.Principal(string(rune('a' + i)))
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.AddMember(ctx, ch.ID, p, 0, nil))
		}()
		go func() {
			defer wg.Done()
			err := s.CreateMessage(ctx, &msgmodel.Message{ChannelID: &ch.ID, Author: p, Content: "x"})
			if err != nil {
				assert.ErrorIs(t, err, channel.ErrNotMember)
			}
		}()
	}
	wg.Wait()

	got, err := s.GetChannel(ctx, ch.ID)
	require.NoError(t, err)
	assert.Len(t, got.Members, 21)

	msgs, total, err := s.ListMessages(ctx, message.ListFilter{ChannelID: &ch.ID, Limit: 100})
	require.NoError(t, err)
	assert.Equal(t, total, len(msgs))
	assert.Equal(t, uint64(total), got.MessageCount)
}
