package usecase

import (
	"context"
	"strings"
	"time"

	"chatz/config"
	"chatz/internal/channel"
	"chatz/internal/message"
	"chatz/internal/message/model"
	"chatz/internal/user"
	"chatz/pkg/errors"
	"chatz/pkg/identity"
	"chatz/pkg/logger"
)

// EventMessageCreated is the live feed kind for a new plaintext message.
const EventMessageCreated = "message.created"

type MessageUsecase struct {
	repo      message.MessageRepository
	users     user.UserRepository
	publisher message.Publisher
	logger    logger.Logger
	config    config.Config
	now       func() time.Time
}

func NewMessageUsecase(repo message.MessageRepository, users user.UserRepository, publisher message.Publisher, logger logger.Logger, config config.Config) *MessageUsecase {
	return &MessageUsecase{
		repo:      repo,
		users:     users,
		publisher: publisher,
		logger:    logger,
		config:    config,
		now:       time.Now,
	}
}

func (uc *MessageUsecase) Send(ctx context.Context, caller identity.Principal, cmd message.SendCommand) (*message.MessageDTO, error) {
	msgType, err := message.ValidatePayload(uc.config.Limits, cmd.Content, cmd.MessageType, cmd.Attachments)
	if err != nil {
		return nil, err
	}

	author, err := uc.users.GetUserByPrincipal(ctx, caller)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, errors.ErrUserNotRegistered
		}
		uc.logger.Error("user lookup failed", "principal", caller, "err", err)
		return nil, errors.ErrStorage(err)
	}

	msg := &model.Message{
		ChannelID:   cmd.ChannelID,
		ReplyTo:     cmd.ReplyTo,
		Author:      caller,
		Content:     strings.TrimSpace(cmd.Content),
		Timestamp:   uc.now().UnixNano(),
		MessageType: msgType,
		Attachments: model.CloneAttachments(cmd.Attachments),
	}
	if err := uc.repo.CreateMessage(ctx, msg); err != nil {
		switch {
		case errors.Is(err, channel.ErrChannelNotFound):
			return nil, errors.ErrChannelNotFound
		case errors.Is(err, channel.ErrNotMember):
			return nil, errors.ErrNotChannelMember
		}
		uc.logger.Error("error while saving message in db", "author", caller, "err", err)
		return nil, errors.ErrStorage(err)
	}

	dto := message.ToDTO(msg)
	if uc.publisher != nil {
		uc.publisher.Publish(msg.ChannelID, EventMessageCreated, message.WithAuthor(dto, author.Username))
	}
	return dto, nil
}

func (uc *MessageUsecase) GetMessage(ctx context.Context, id uint64) (*message.MessageWithAuthorDTO, error) {
	msg, err := uc.repo.GetMessage(ctx, id)
	if err != nil {
		if errors.Is(err, message.ErrMessageNotFound) {
			return nil, errors.ErrMessageNotFound
		}
		uc.logger.Error("error while reading message", "message_id", id, "err", err)
		return nil, errors.ErrStorage(err)
	}
	names := message.NewAuthorNames(uc.users)
	return message.WithAuthor(message.ToDTO(msg), names.Lookup(ctx, msg.Author)), nil
}

func (uc *MessageUsecase) List(ctx context.Context, query message.ListQuery) (*message.PaginatedMessages, error) {
	limit := uc.config.Limits.DefaultPageSize
	if query.Limit != nil {
		limit = *query.Limit
	}
	if limit < 0 {
		return nil, errors.InvalidInput("limit cannot be negative")
	}
	if limit > uc.config.Limits.MaxPageSize {
		limit = uc.config.Limits.MaxPageSize
	}
	offset := 0
	if query.Offset != nil {
		offset = *query.Offset
	}
	if offset < 0 {
		return nil, errors.InvalidInput("offset cannot be negative")
	}

	msgs, total, err := uc.repo.ListMessages(ctx, message.ListFilter{
		ChannelID: query.ChannelID,
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		uc.logger.Error("error while listing messages", "err", err)
		return nil, errors.ErrStorage(err)
	}

	names := message.NewAuthorNames(uc.users)
	out := make([]*message.MessageWithAuthorDTO, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, message.WithAuthor(message.ToDTO(m), names.Lookup(ctx, m.Author)))
	}
	return &message.PaginatedMessages{
		Messages:   out,
		TotalCount: total,
		HasMore:    offset+len(out) < total,
	}, nil
}
