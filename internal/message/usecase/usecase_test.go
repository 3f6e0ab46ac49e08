package usecase

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"chatz/config"
	"chatz/internal/channel"
	chmodel "chatz/internal/channel/model"
	"chatz/internal/message"
	"chatz/internal/message/mocks"
	"chatz/internal/message/model"
	"chatz/internal/storage/memory"
	models "chatz/internal/user/model"
	appErrors "chatz/pkg/errors"
	"chatz/pkg/identity"
	"chatz/pkg/logger"

	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) Publish(_ *uint64, kind string, _ any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, kind)
}

type fixture struct {
	uc    *MessageUsecase
	store *memory.Store
	pub   *recordingPublisher
}

func newFixture(t *testing.T, users ...string) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	for i, name := range users {
		require.NoError(t, store.CreateUser(ctx, &models.User{Principal: identity.Principal(name), Username: name, JoinedAt: int64(i)}))
	}
	pub := &recordingPublisher{}
	uc := NewMessageUsecase(store, store, pub, logger.Logger{}, *config.Default())
	uc.now = func() time.Time { return time.Unix(1_700_000_000, 0) }
	return &fixture{uc: uc, store: store, pub: pub}
}

func (f *fixture) channel(t *testing.T, owner string, members ...string) uint64 {
	t.Helper()
	ps := []identity.Principal{identity.Principal(owner)}
	for _, m := range members {
		ps = append(ps, identity.Principal(m))
	}
	ch := &chmodel.Channel{Name: "c", CreatedBy: identity.Principal(owner), Members: ps}
	require.NoError(t, f.store.CreateChannel(context.Background(), ch))
	return ch.ID
}

func idPtr(v uint64) *uint64 { return &v }

func TestMessageUsecase_Send(t *testing.T) {
	ctx := context.Background()

	t.Run("membership gates writes", func(t *testing.T) {
		f := newFixture(t, "owner", "joiner")
		ch := f.channel(t, "owner")

		_, err := f.uc.Send(ctx, "joiner", message.SendCommand{Content: "hi", ChannelID: idPtr(ch)})
		assert.True(t, errors.Is(err, appErrors.ErrNotAuthorized))

		require.NoError(t, f.store.AddMember(ctx, ch, "joiner", 0, nil))
		msg, err := f.uc.Send(ctx, "joiner", message.SendCommand{Content: "hi", ChannelID: idPtr(ch)})
		require.NoError(t, err)
		assert.Equal(t, model.MessageTypeText, msg.MessageType)
		assert.Equal(t, []string{EventMessageCreated}, f.pub.events)
	})

	t.Run("counters are bumped", func(t *testing.T) {
		f := newFixture(t, "alice")
		ch := f.channel(t, "alice")

		_, err := f.uc.Send(ctx, "alice", message.SendCommand{Content: "one", ChannelID: idPtr(ch)})
		require.NoError(t, err)

		c, err := f.store.GetChannel(ctx, ch)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), c.MessageCount)
		require.NotNil(t, c.LastMessageAt)

		u, err := f.store.GetUserByPrincipal(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, uint64(1), u.MessageCount)
		assert.Equal(t, *c.LastMessageAt, u.LastActive)
	})

	t.Run("validation order and errors", func(t *testing.T) {
		f := newFixture(t, "alice")
		big := model.Attachment{Filename: "a.bin", Size: 10_000_001}
		half := model.Attachment{Filename: "h.bin", Size: 6_000_000}

		cases := []struct {
			name string
			cmd  message.SendCommand
			who  identity.Principal
			want error
		}{
			{"empty", message.SendCommand{Content: "  "}, "alice", appErrors.ErrInvalidInput},
			{"too long", message.SendCommand{Content: strings.Repeat("x", 2001)}, "alice", appErrors.ErrMessageTooLarge},
			{"too long before unregistered", message.SendCommand{Content: strings.Repeat("x", 2001)}, "ghost", appErrors.ErrMessageTooLarge},
			{"attachment", message.SendCommand{Content: "x", Attachments: []model.Attachment{big}}, "alice", appErrors.ErrAttachmentTooLarge},
			{"attachment total", message.SendCommand{Content: "x", Attachments: []model.Attachment{half, half}}, "alice", appErrors.ErrAttachmentTooLarge},
			{"type", message.SendCommand{Content: "x", MessageType: "video"}, "alice", appErrors.ErrInvalidInput},
			{"unregistered", message.SendCommand{Content: "x"}, "ghost", appErrors.ErrNotAuthorized},
			{"missing channel", message.SendCommand{Content: "x", ChannelID: idPtr(42)}, "alice", appErrors.ErrChannelNotFound},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := f.uc.Send(ctx, tc.who, tc.cmd)
				assert.True(t, errors.Is(err, tc.want), "got %v", err)
			})
		}
	})

	t.Run("content at the limit is accepted", func(t *testing.T) {
		f := newFixture(t, "alice")
		_, err := f.uc.Send(ctx, "alice", message.SendCommand{Content: strings.Repeat("x", 2000)})
		assert.NoError(t, err)
	})

	t.Run("surrounding whitespace is trimmed before storing", func(t *testing.T) {
		f := newFixture(t, "alice")
		sent, err := f.uc.Send(ctx, "alice", message.SendCommand{Content: "\t  hello there \n"})
		require.NoError(t, err)
		assert.Equal(t, "hello there", sent.Content)

		stored, err := f.store.GetMessage(ctx, sent.ID)
		require.NoError(t, err)
		assert.Equal(t, "hello there", stored.Content)
	})

	t.Run("sad path - storage failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockRepo := mocks.NewMockMessageRepository(ctrl)
		f := newFixture(t, "alice")
		uc := NewMessageUsecase(mockRepo, f.store, nil, logger.Logger{}, *config.Default())

		mockRepo.EXPECT().CreateMessage(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))
		_, err := uc.Send(ctx, "alice", message.SendCommand{Content: "x"})
		assert.Equal(t, appErrors.CodeInternal, appErrors.CodeOf(err))

		mockRepo.EXPECT().CreateMessage(gomock.Any(), gomock.Any()).Return(errors.Wrap(channel.ErrNotMember, "messageRepo.CreateMessage"))
		_, err = uc.Send(ctx, "alice", message.SendCommand{Content: "x", ChannelID: idPtr(3)})
		assert.True(t, errors.Is(err, appErrors.ErrNotAuthorized))
	})
}

func TestMessageUsecase_ConcurrentSendsAreStrictlyIncreasing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "alice")
	ch := f.channel(t, "alice")

	const n = 64
	var wg sync.WaitGroup
	ids := make(chan uint64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			msg, err := f.uc.Send(ctx, "alice", message.SendCommand{Content: "x", ChannelID: idPtr(ch)})
			if assert.NoError(t, err) {
				ids <- msg.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[uint64]bool{}
	for id := range ids {
		seen[id] = true
	}
	assert.Len(t, seen, n)

	page, err := f.uc.List(ctx, message.ListQuery{ChannelID: idPtr(ch), Limit: intPtr(100)})
	require.NoError(t, err)
	require.Len(t, page.Messages, n)
	for i := 1; i < n; i++ {
		assert.Equal(t, page.Messages[i-1].ID+1, page.Messages[i].ID)
	}

	c, err := f.store.GetChannel(ctx, ch)
	require.NoError(t, err)
	assert.Equal(t, uint64(n), c.MessageCount)
}

func intPtr(v int) *int { return &v }

func TestMessageUsecase_Pagination(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "alice")
	ch := f.channel(t, "alice")
	other := f.channel(t, "alice")

	const total = 23
	for i := 0; i < total; i++ {
		_, err := f.uc.Send(ctx, "alice", message.SendCommand{Content: "m", ChannelID: idPtr(ch)})
		require.NoError(t, err)
	}
	_, err := f.uc.Send(ctx, "alice", message.SendCommand{Content: "elsewhere", ChannelID: idPtr(other)})
	require.NoError(t, err)
	_, err = f.uc.Send(ctx, "alice", message.SendCommand{Content: "no channel"})
	require.NoError(t, err)

	for _, tc := range []struct{ limit, offset int }{{5, 0}, {5, 20}, {10, 23}, {0, 3}, {100, 30}} {
		page, err := f.uc.List(ctx, message.ListQuery{ChannelID: idPtr(ch), Limit: intPtr(tc.limit), Offset: intPtr(tc.offset)})
		require.NoError(t, err)

		want := total - tc.offset
		if want < 0 {
			want = 0
		}
		if tc.limit < want {
			want = tc.limit
		}
		assert.Len(t, page.Messages, want, "limit %d offset %d", tc.limit, tc.offset)
		assert.Equal(t, total, page.TotalCount)
		assert.Equal(t, tc.offset+len(page.Messages) < total, page.HasMore)
	}

	first, err := f.uc.List(ctx, message.ListQuery{ChannelID: idPtr(ch), Limit: intPtr(7), Offset: intPtr(3)})
	require.NoError(t, err)
	second, err := f.uc.List(ctx, message.ListQuery{ChannelID: idPtr(ch), Limit: intPtr(7), Offset: intPtr(10)})
	require.NoError(t, err)
	joined, err := f.uc.List(ctx, message.ListQuery{ChannelID: idPtr(ch), Limit: intPtr(14), Offset: intPtr(3)})
	require.NoError(t, err)
	assert.Equal(t, joined.Messages, append(first.Messages, second.Messages...))

	defaults, err := f.uc.List(ctx, message.ListQuery{ChannelID: idPtr(ch)})
	require.NoError(t, err)
	assert.Len(t, defaults.Messages, total)

	noChannel, err := f.uc.List(ctx, message.ListQuery{})
	require.NoError(t, err)
	require.Len(t, noChannel.Messages, 1)
	assert.Equal(t, "no channel", noChannel.Messages[0].Content)

	_, err = f.uc.List(ctx, message.ListQuery{Offset: intPtr(-1)})
	assert.True(t, errors.Is(err, appErrors.ErrInvalidInput))
}

func TestMessageUsecase_PageSizeIsCapped(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "alice")
	for i := 0; i < 120; i++ {
		_, err := f.uc.Send(ctx, "alice", message.SendCommand{Content: "m"})
		require.NoError(t, err)
	}

	page, err := f.uc.List(ctx, message.ListQuery{Limit: intPtr(500)})
	require.NoError(t, err)
	assert.Len(t, page.Messages, 100)
	assert.True(t, page.HasMore)

	page, err = f.uc.List(ctx, message.ListQuery{})
	require.NoError(t, err)
	assert.Len(t, page.Messages, 50)
}

func TestMessageUsecase_Scenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "alice")
	ch := f.channel(t, "alice")

	_, err := f.uc.Send(ctx, "alice", message.SendCommand{Content: "hi", ChannelID: idPtr(ch)})
	require.NoError(t, err)

	page, err := f.uc.List(ctx, message.ListQuery{ChannelID: idPtr(ch)})
	require.NoError(t, err)
	require.Len(t, page.Messages, 1)
	assert.Equal(t, "hi", page.Messages[0].Content)
	assert.Equal(t, "alice", page.Messages[0].AuthorUsername)
	assert.False(t, page.HasMore)

	got, err := f.uc.GetMessage(ctx, page.Messages[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.AuthorUsername)

	_, err = f.uc.GetMessage(ctx, 999)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestMessageUsecase_UnknownAuthor(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRepo := mocks.NewMockMessageRepository(ctrl)
	uc := NewMessageUsecase(mockRepo, memory.New(), nil, logger.Logger{}, *config.Default())

	mockRepo.EXPECT().GetMessage(gomock.Any(), uint64(5)).Return(&model.Message{ID: 5, Author: "gone", Content: "x"}, nil)

	got, err := uc.GetMessage(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, message.UnknownAuthor, got.AuthorUsername)
}
