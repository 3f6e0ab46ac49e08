package stats

import (
	"context"
	"testing"

	chmodel "chatz/internal/channel/model"
	encmodel "chatz/internal/encrypted/model"
	msgmodel "chatz/internal/message/model"
	"chatz/internal/storage/memory"
	models "chatz/internal/user/model"
	appErrors "chatz/pkg/errors"
	"chatz/pkg/identity"
	"chatz/pkg/logger"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsUsecase_Get(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	require.NoError(t, store.CreateUser(ctx, &models.User{Principal: "a", Username: "a"}))
	require.NoError(t, store.CreateUser(ctx, &models.User{Principal: "b", Username: "b"}))
	_, err := store.ResetGeneralChannel(ctx, &chmodel.Channel{Name: "General"}, []identity.Principal{"a"})
	require.NoError(t, err)
	require.NoError(t, store.CreateMessage(ctx, &msgmodel.Message{Author: "a", Content: "x"}))
	require.NoError(t, store.CreateEncryptedMessage(ctx, &encmodel.EncryptedMessage{Author: "a"}, func(uint64) (string, []byte, error) {
		return "", nil, nil
	}))

	uc := NewStatsUsecase(store, store, store, store, logger.Logger{})
	got, err := uc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, &Stats{Users: 2, Messages: 1, Channels: 1, EncryptedMessages: 1}, got)
}

type brokenCounter struct{}

func (brokenCounter) CountUsers(context.Context) (int, error) { return 0, errors.New("down") }

func TestStatsUsecase_GetFails(t *testing.T) {
	store := memory.New()
	uc := NewStatsUsecase(brokenCounter{}, store, store, store, logger.Logger{})

	_, err := uc.Get(context.Background())
	assert.Equal(t, appErrors.CodeInternal, appErrors.CodeOf(err))
}
