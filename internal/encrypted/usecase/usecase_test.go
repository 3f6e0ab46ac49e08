package usecase

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"testing"
	"time"

	"chatz/config"
	"chatz/internal/channel"
	chusecase "chatz/internal/channel/usecase"
	"chatz/internal/encrypted"
	"chatz/internal/encrypted/mocks"
	"chatz/internal/encrypted/model"
	"chatz/internal/message"
	msgusecase "chatz/internal/message/usecase"
	"chatz/internal/storage/memory"
	models "chatz/internal/user/model"
	appErrors "chatz/pkg/errors"
	"chatz/pkg/identity"
	"chatz/pkg/keys"
	"chatz/pkg/logger"
	"chatz/pkg/utils"

	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/nacl/box"
)

type fixture struct {
	uc       *EncryptedMessageUsecase
	channels *chusecase.ChannelUsecase
	store    *memory.Store
	keyring  *keys.Keyring
	clock    time.Time
}

func newFixture(t *testing.T, users ...string) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	for i, name := range users {
		require.NoError(t, store.CreateUser(ctx, &models.User{Principal: identity.Principal(name), Username: name, JoinedAt: int64(i)}))
	}

	master := make([]byte, keys.MasterKeySize)
	_, err := rand.Read(master)
	require.NoError(t, err)
	keyring, err := keys.NewKeyring(master)
	require.NoError(t, err)

	cfg := *config.Default()
	f := &fixture{
		channels: chusecase.NewChannelUsecase(store, store, logger.Logger{}, cfg),
		store:    store,
		keyring:  keyring,
		clock:    time.Unix(1_700_000_000, 0),
	}
	f.uc = NewEncryptedMessageUsecase(store, store, store, keyring, nil, logger.Logger{}, cfg)
	f.uc.now = func() time.Time { return f.clock }
	return f
}

func (f *fixture) encryptedChannel(t *testing.T, owner string, password *string) uint64 {
	t.Helper()
	ch, err := f.channels.CreateEncrypted(context.Background(), identity.Principal(owner), channel.CreateEncryptedChannelCommand{Name: "secret", Password: password})
	require.NoError(t, err)
	return ch.ID
}

func (f *fixture) post(t *testing.T, author string, channelID uint64, content string) uint64 {
	t.Helper()
	id, err := f.uc.Create(context.Background(), identity.Principal(author), encrypted.CreateCommand{Content: content, ChannelID: &channelID})
	require.NoError(t, err)
	return id
}

func strPtr(s string) *string { return &s }

func TestEncryptedMessageUsecase_Scenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "u1", "u2", "u3")

	ch := f.encryptedChannel(t, "u1", strPtr("p1"))
	require.NoError(t, f.channels.Join(ctx, "u2", ch, strPtr("p1")))
	f.post(t, "u1", ch, "hello")

	got, err := f.uc.DecryptAllForChannel(ctx, "u2", ch)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "hello", got[0].Content)
	assert.Equal(t, "u1", got[0].AuthorUsername)

	got, err = f.uc.DecryptAllForChannel(ctx, "u3", ch)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestEncryptedMessageUsecase_RevocationIsLive(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "author", "reader")

	ch := f.encryptedChannel(t, "author", nil)
	require.NoError(t, f.channels.Join(ctx, "reader", ch, nil))
	id := f.post(t, "author", ch, "classified")

	plain, err := f.uc.Decrypt(ctx, "reader", id)
	require.NoError(t, err)
	assert.Equal(t, "classified", plain)

	_, err = f.uc.GetSymmetricKey(ctx, "reader", id, nil)
	require.NoError(t, err)

	require.NoError(t, f.channels.Leave(ctx, "reader", ch))

	_, err = f.uc.Decrypt(ctx, "reader", id)
	assert.True(t, errors.Is(err, appErrors.ErrNotAuthorized))
	_, err = f.uc.GetSymmetricKey(ctx, "reader", id, nil)
	assert.True(t, errors.Is(err, appErrors.ErrNotAuthorized))

	// ciphertext stays visible
	listed, err := f.uc.ListForChannel(ctx, ch)
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	// the author keeps access regardless of membership
	plain, err = f.uc.Decrypt(ctx, "author", id)
	require.NoError(t, err)
	assert.Equal(t, "classified", plain)
}

func TestEncryptedMessageUsecase_NonMemberNeverDecrypts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "author", "outsider")
	ch := f.encryptedChannel(t, "author", nil)
	id := f.post(t, "author", ch, "x")

	_, err := f.uc.Decrypt(ctx, "outsider", id)
	assert.True(t, errors.Is(err, appErrors.ErrNotAuthorized))

	_, err = f.uc.Decrypt(ctx, "outsider", id+100)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestEncryptedMessageUsecase_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("channel checks", func(t *testing.T) {
		f := newFixture(t, "owner", "other")
		enc := f.encryptedChannel(t, "owner", nil)
		plainCh, err := f.channels.Create(ctx, "owner", channel.CreateChannelCommand{Name: "plain"})
		require.NoError(t, err)

		missing := uint64(404)
		_, err = f.uc.Create(ctx, "owner", encrypted.CreateCommand{Content: "x", ChannelID: &missing})
		assert.True(t, errors.Is(err, appErrors.ErrChannelNotFound))

		_, err = f.uc.Create(ctx, "other", encrypted.CreateCommand{Content: "x", ChannelID: &enc})
		assert.True(t, errors.Is(err, appErrors.ErrNotAuthorized))

		_, err = f.uc.Create(ctx, "owner", encrypted.CreateCommand{Content: "x", ChannelID: &plainCh.ID})
		assert.True(t, errors.Is(err, appErrors.ErrInvalidInput))

		_, err = f.uc.Create(ctx, "ghost", encrypted.CreateCommand{Content: "x"})
		assert.True(t, errors.Is(err, appErrors.ErrNotAuthorized))

		_, err = f.uc.Create(ctx, "owner", encrypted.CreateCommand{Content: ""})
		assert.True(t, errors.Is(err, appErrors.ErrInvalidInput))
	})

	t.Run("record is sealed, signed and expires after the ttl", func(t *testing.T) {
		f := newFixture(t, "owner")
		ch := f.encryptedChannel(t, "owner", nil)
		id := f.post(t, "owner", ch, "plaintext body")

		rec, err := f.store.GetEncryptedMessage(ctx, id)
		require.NoError(t, err)
		assert.NotContains(t, rec.EncryptedContent, "plaintext body")
		assert.Equal(t, f.clock.Add(24*time.Hour).UnixNano(), rec.ExpiresAt)

		sealed, err := base64.StdEncoding.DecodeString(rec.EncryptedContent)
		require.NoError(t, err)
		ok, err := utils.ValidateCiphertextSignature(f.uc.GetVerificationKey(ctx), id, sealed, rec.Signature)
		require.NoError(t, err)
		assert.True(t, ok)

		c, err := f.store.GetChannel(ctx, ch)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), c.MessageCount)
		u, err := f.store.GetUserByPrincipal(ctx, "owner")
		require.NoError(t, err)
		assert.Equal(t, uint64(1), u.MessageCount)
	})

	t.Run("surrounding whitespace is not sealed", func(t *testing.T) {
		f := newFixture(t, "owner")
		id := f.post(t, "owner", f.encryptedChannel(t, "owner", nil), "  padded body \n")

		got, err := f.uc.Decrypt(ctx, "owner", id)
		require.NoError(t, err)
		assert.Equal(t, "padded body", got)
	})

	t.Run("ids are shared with plaintext messages", func(t *testing.T) {
		f := newFixture(t, "owner")
		plain := msgusecase.NewMessageUsecase(f.store, f.store, nil, logger.Logger{}, *config.Default())

		m1, err := plain.Send(ctx, "owner", message.SendCommand{Content: "a"})
		require.NoError(t, err)
		e1, err := f.uc.Create(ctx, "owner", encrypted.CreateCommand{Content: "b"})
		require.NoError(t, err)
		m2, err := plain.Send(ctx, "owner", message.SendCommand{Content: "c"})
		require.NoError(t, err)

		assert.Less(t, m1.ID, e1)
		assert.Less(t, e1, m2.ID)
	})
}

func TestEncryptedMessageUsecase_SymmetricKey(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "owner")
	ch := f.encryptedChannel(t, "owner", nil)
	id := f.post(t, "owner", ch, "wrap me")

	t.Run("raw key opens the record", func(t *testing.T) {
		k, err := f.uc.GetSymmetricKey(ctx, "owner", id, nil)
		require.NoError(t, err)
		assert.False(t, k.Wrapped)
		assert.Len(t, k.Key, keys.MessageKeySize)

		want, err := f.keyring.MessageKey(id)
		require.NoError(t, err)
		assert.True(t, bytes.Equal(want, k.Key))
	})

	t.Run("transport key wraps the key", func(t *testing.T) {
		pub, priv, err := box.GenerateKey(rand.Reader)
		require.NoError(t, err)

		k, err := f.uc.GetSymmetricKey(ctx, "owner", id, pub[:])
		require.NoError(t, err)
		assert.True(t, k.Wrapped)

		opened, ok := box.OpenAnonymous(nil, k.Key, pub, priv)
		require.True(t, ok)
		want, err := f.keyring.MessageKey(id)
		require.NoError(t, err)
		assert.Equal(t, want, opened)
	})

	t.Run("sad path - bad transport key", func(t *testing.T) {
		_, err := f.uc.GetSymmetricKey(ctx, "owner", id, []byte("short"))
		assert.True(t, errors.Is(err, appErrors.ErrInvalidInput))
	})
}

func TestEncryptedMessageUsecase_Share(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "owner", "friend", "stranger")
	id, err := f.uc.Create(ctx, "owner", encrypted.CreateCommand{Content: "dm"})
	require.NoError(t, err)

	_, err = f.uc.Decrypt(ctx, "friend", id)
	assert.True(t, errors.Is(err, appErrors.ErrNotAuthorized))

	assert.True(t, errors.Is(f.uc.Share(ctx, "stranger", id, "friend"), appErrors.ErrNotAuthorized))
	assert.True(t, errors.Is(f.uc.Share(ctx, "owner", id+50, "friend"), appErrors.ErrNotFound))

	require.NoError(t, f.uc.Share(ctx, "owner", id, "friend"))
	require.NoError(t, f.uc.Share(ctx, "owner", id, "friend"))

	plain, err := f.uc.Decrypt(ctx, "friend", id)
	require.NoError(t, err)
	assert.Equal(t, "dm", plain)

	rec, err := f.store.GetEncryptedMessage(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []identity.Principal{"friend"}, rec.SharedWith)

	mine, err := f.uc.ListForCaller(ctx, "friend")
	require.NoError(t, err)
	assert.Len(t, mine, 1)
	none, err := f.uc.ListForCaller(ctx, "stranger")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestEncryptedMessageUsecase_ShareLimit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "owner")
	id, err := f.uc.Create(ctx, "owner", encrypted.CreateCommand{Content: "x"})
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		require.NoError(t, f.uc.Share(ctx, "owner", id, identity.Principal(fmt.Sprintf("g%d", i))))
	}
	err = f.uc.Share(ctx, "owner", id, "g50")
	assert.True(t, errors.Is(err, appErrors.ErrInvalidInput))

	// re-sharing an existing grantee at the limit still succeeds
	assert.NoError(t, f.uc.Share(ctx, "owner", id, "g0"))
}

func TestEncryptedMessageUsecase_Delete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "owner", "other")
	id, err := f.uc.Create(ctx, "owner", encrypted.CreateCommand{Content: "x"})
	require.NoError(t, err)

	assert.True(t, errors.Is(f.uc.Delete(ctx, "other", id), appErrors.ErrNotAuthorized))
	require.NoError(t, f.uc.Delete(ctx, "owner", id))
	assert.True(t, errors.Is(f.uc.Delete(ctx, "owner", id), appErrors.ErrNotFound))
}

func TestEncryptedMessageUsecase_ExpirySweep(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "owner")
	ch := f.encryptedChannel(t, "owner", nil)

	expired := &model.EncryptedMessage{
		ChannelID: &ch,
		Author:    "owner",
		Timestamp: f.clock.Add(-25 * time.Hour).UnixNano(),
		ExpiresAt: f.clock.UnixNano() - 1,
	}
	require.NoError(t, f.store.CreateEncryptedMessage(ctx, expired, func(id uint64) (string, []byte, error) {
		return "c2VhbGVk", nil, nil
	}))
	live := f.post(t, "owner", ch, "still here")

	before, err := f.uc.ListForChannel(ctx, ch)
	require.NoError(t, err)
	require.Len(t, before, 1)
	assert.Equal(t, live, before[0].ID)

	_, err = f.uc.Decrypt(ctx, "owner", expired.ID)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	assert.Equal(t, 1, f.uc.CleanupExpired(ctx))
	assert.Equal(t, 0, f.uc.CleanupExpired(ctx))

	_, err = f.store.GetEncryptedMessage(ctx, expired.ID)
	assert.True(t, errors.Is(err, encrypted.ErrEncryptedMessageNotFound))

	// the live record crosses its ttl later
	f.clock = f.clock.Add(24 * time.Hour)
	assert.Equal(t, 1, f.uc.CleanupExpired(ctx))
	all, err := f.uc.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestEncryptedMessageUsecase_ListForChannel(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "owner")
	plainCh, err := f.channels.Create(ctx, "owner", channel.CreateChannelCommand{Name: "plain"})
	require.NoError(t, err)

	got, err := f.uc.ListForChannel(ctx, plainCh.ID)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = f.uc.ListForChannel(ctx, 12345)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestEncryptedMessageUsecase_DecryptAllSkipsFailures(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	mockRepo := mocks.NewMockEncryptedMessageRepository(ctrl)

	f := newFixture(t, "owner")
	ch := f.encryptedChannel(t, "owner", nil)
	uc := NewEncryptedMessageUsecase(mockRepo, f.store, f.store, f.keyring, nil, logger.Logger{}, *config.Default())

	sealed, err := f.keyring.Seal(11, []byte("good"))
	require.NoError(t, err)
	newer, err := f.keyring.Seal(13, []byte("newer"))
	require.NoError(t, err)

	mockRepo.EXPECT().
		ListEncryptedMessages(gomock.Any(), gomock.Any()).
		Return([]*model.EncryptedMessage{
			{ID: 11, ChannelID: &ch, Author: "owner", EncryptedContent: base64.StdEncoding.EncodeToString(sealed), Signature: f.keyring.Sign(11, sealed)},
			{ID: 12, ChannelID: &ch, Author: "owner", EncryptedContent: "not base64!"},
			{ID: 13, ChannelID: &ch, Author: "owner", EncryptedContent: base64.StdEncoding.EncodeToString(newer), Signature: f.keyring.Sign(13, newer)},
			{ID: 14, ChannelID: &ch, Author: "owner", EncryptedContent: base64.StdEncoding.EncodeToString(newer), Signature: f.keyring.Sign(13, newer)},
		}, nil)

	got, err := uc.DecryptAllForChannel(ctx, "owner", ch)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "newer", got[0].Content)
	assert.Equal(t, "good", got[1].Content)
}

func TestEncryptedMessageUsecase_DecryptRejectsTamperedRecords(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	mockRepo := mocks.NewMockEncryptedMessageRepository(ctrl)

	f := newFixture(t, "owner")
	uc := NewEncryptedMessageUsecase(mockRepo, f.store, f.store, f.keyring, nil, logger.Logger{}, *config.Default())
	expires := f.clock.Add(time.Hour).UnixNano()
	uc.now = func() time.Time { return f.clock }

	sealed, err := f.keyring.Seal(21, []byte("original"))
	require.NoError(t, err)
	other, err := f.keyring.Seal(21, []byte("swapped"))
	require.NoError(t, err)

	tests := []struct {
		name string
		rec  *model.EncryptedMessage
	}{
		{
			name: "missing signature",
			rec:  &model.EncryptedMessage{ID: 21, Author: "owner", EncryptedContent: base64.StdEncoding.EncodeToString(sealed), ExpiresAt: expires},
		},
		{
			name: "ciphertext swapped under an old signature",
			rec:  &model.EncryptedMessage{ID: 21, Author: "owner", EncryptedContent: base64.StdEncoding.EncodeToString(other), Signature: f.keyring.Sign(21, sealed), ExpiresAt: expires},
		},
		{
			name: "signature bound to another id",
			rec:  &model.EncryptedMessage{ID: 21, Author: "owner", EncryptedContent: base64.StdEncoding.EncodeToString(sealed), Signature: f.keyring.Sign(22, sealed), ExpiresAt: expires},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo.EXPECT().GetEncryptedMessage(gomock.Any(), uint64(21)).Return(tt.rec, nil)

			_, err := uc.Decrypt(ctx, "owner", 21)
			require.Error(t, err)
			assert.Equal(t, appErrors.CodeInternal, appErrors.CodeOf(err))
		})
	}

	mockRepo.EXPECT().GetEncryptedMessage(gomock.Any(), uint64(21)).Return(&model.EncryptedMessage{
		ID: 21, Author: "owner", EncryptedContent: base64.StdEncoding.EncodeToString(sealed), Signature: f.keyring.Sign(21, sealed), ExpiresAt: expires,
	}, nil)
	got, err := uc.Decrypt(ctx, "owner", 21)
	require.NoError(t, err)
	assert.Equal(t, "original", got)
}

func TestEncryptedMessageUsecase_CleanupNeverFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRepo := mocks.NewMockEncryptedMessageRepository(ctrl)
	uc := NewEncryptedMessageUsecase(mockRepo, memory.New(), memory.New(), nil, nil, logger.Logger{}, *config.Default())

	mockRepo.EXPECT().DeleteExpired(gomock.Any(), gomock.Any()).Return(0, errors.New("connection refused"))
	assert.Equal(t, 0, uc.CleanupExpired(context.Background()))
}
