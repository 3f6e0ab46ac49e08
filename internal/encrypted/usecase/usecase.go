package usecase

import (
	"context"
	"encoding/base64"
	"strings"
	"time"

	"chatz/config"
	"chatz/internal/channel"
	"chatz/internal/encrypted"
	"chatz/internal/encrypted/model"
	"chatz/internal/message"
	"chatz/internal/user"
	"chatz/pkg/errors"
	"chatz/pkg/identity"
	"chatz/pkg/keys"
	"chatz/pkg/logger"
	"chatz/pkg/utils"
)

// EventEncryptedCreated is the live feed kind for a new ciphertext record.
const EventEncryptedCreated = "encrypted_message.created"

var errSignatureMismatch = errors.Internal("ciphertext signature does not match")

type EncryptedMessageUsecase struct {
	repo      encrypted.EncryptedMessageRepository
	channels  channel.ChannelRepository
	users     user.UserRepository
	cipher    encrypted.Cipher
	publisher message.Publisher
	logger    logger.Logger
	config    config.Config
	now       func() time.Time
}

func NewEncryptedMessageUsecase(
	repo encrypted.EncryptedMessageRepository,
	channels channel.ChannelRepository,
	users user.UserRepository,
	cipher encrypted.Cipher,
	publisher message.Publisher,
	logger logger.Logger,
	config config.Config,
) *EncryptedMessageUsecase {
	return &EncryptedMessageUsecase{
		repo:      repo,
		channels:  channels,
		users:     users,
		cipher:    cipher,
		publisher: publisher,
		logger:    logger,
		config:    config,
		now:       time.Now,
	}
}

func (uc *EncryptedMessageUsecase) Create(ctx context.Context, caller identity.Principal, cmd encrypted.CreateCommand) (uint64, error) {
	msgType, err := message.ValidatePayload(uc.config.Limits, cmd.Content, cmd.MessageType, cmd.Attachments)
	if err != nil {
		return 0, err
	}
	if _, err := uc.users.GetUserByPrincipal(ctx, caller); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return 0, errors.ErrUserNotRegistered
		}
		uc.logger.Error("user lookup failed", "principal", caller, "err", err)
		return 0, errors.ErrStorage(err)
	}

	now := uc.now()
	msg := &model.EncryptedMessage{
		ChannelID:   cmd.ChannelID,
		ReplyTo:     cmd.ReplyTo,
		Author:      caller,
		Timestamp:   now.UnixNano(),
		MessageType: msgType,
		SharedWith:  []identity.Principal{},
		ExpiresAt:   now.Add(uc.config.Encryption.MessageTTL).UnixNano(),
		Attachments: cmd.Attachments,
	}

	plaintext := []byte(strings.TrimSpace(cmd.Content))
	seal := func(id uint64) (string, []byte, error) {
		sealed, err := uc.cipher.Seal(id, plaintext)
		if err != nil {
			return "", nil, errors.ErrCrypto(err)
		}
		return base64.StdEncoding.EncodeToString(sealed), uc.cipher.Sign(id, sealed), nil
	}

	if err := uc.repo.CreateEncryptedMessage(ctx, msg, seal); err != nil {
		return 0, uc.mapRepoError(err, 0)
	}

	if uc.publisher != nil {
		uc.publisher.Publish(msg.ChannelID, EventEncryptedCreated, encrypted.ToDTO(msg))
	}
	uc.logger.Debug("encrypted message stored", "message_id", msg.ID, "author", caller)
	return msg.ID, nil
}

func (uc *EncryptedMessageUsecase) GetSymmetricKey(ctx context.Context, caller identity.Principal, id uint64, transportPublicKey []byte) (*encrypted.KeyDTO, error) {
	if len(transportPublicKey) != 0 && len(transportPublicKey) != keys.TransportKeySize {
		return nil, errors.ErrInvalidTransportKey
	}
	if _, err := uc.authorize(ctx, caller, id); err != nil {
		return nil, err
	}

	key, err := uc.cipher.MessageKey(id)
	if err != nil {
		uc.logger.Error("failed to derive message key", "message_id", id, "err", err)
		return nil, errors.ErrCrypto(err)
	}
	if len(transportPublicKey) == 0 {
		return &encrypted.KeyDTO{MessageID: id, Key: key}, nil
	}

	wrapped, err := uc.cipher.WrapKey(key, transportPublicKey)
	if err != nil {
		return nil, errors.ErrCrypto(err)
	}
	return &encrypted.KeyDTO{MessageID: id, Key: wrapped, Wrapped: true}, nil
}

func (uc *EncryptedMessageUsecase) GetVerificationKey(ctx context.Context) []byte {
	return uc.cipher.VerificationKey()
}

func (uc *EncryptedMessageUsecase) Decrypt(ctx context.Context, caller identity.Principal, id uint64) (string, error) {
	msg, err := uc.authorize(ctx, caller, id)
	if err != nil {
		return "", err
	}
	plaintext, err := uc.open(msg)
	if err != nil {
		uc.logger.Error("failed to open encrypted message", "message_id", id, "err", err)
		return "", errors.ErrCrypto(err)
	}
	return plaintext, nil
}

// DecryptAllForChannel tolerates partial failure: anything it cannot open is
// skipped, and an ineligible caller gets an empty result.
func (uc *EncryptedMessageUsecase) DecryptAllForChannel(ctx context.Context, caller identity.Principal, channelID uint64) ([]*message.MessageWithAuthorDTO, error) {
	out := []*message.MessageWithAuthorDTO{}

	ch, err := uc.channels.GetChannel(ctx, channelID)
	if err != nil {
		if errors.Is(err, channel.ErrChannelNotFound) {
			return out, nil
		}
		return nil, uc.mapRepoError(err, 0)
	}
	if !ch.IsEncrypted || !ch.HasMember(caller) {
		return out, nil
	}

	msgs, err := uc.repo.ListEncryptedMessages(ctx, encrypted.ListFilter{
		ChannelID: &channelID,
		ActiveAt:  uc.now().UnixNano(),
	})
	if err != nil {
		return nil, uc.mapRepoError(err, 0)
	}

	names := message.NewAuthorNames(uc.users)
	for i := len(msgs) - 1; i >= 0; i-- {
		m := msgs[i]
		plaintext, err := uc.open(m)
		if err != nil {
			uc.logger.Warn("skipping undecryptable message", "message_id", m.ID, "err", err)
			continue
		}
		dto := &message.MessageDTO{
			ID:          m.ID,
			ChannelID:   m.ChannelID,
			ReplyTo:     m.ReplyTo,
			Author:      m.Author,
			Content:     plaintext,
			Timestamp:   m.Timestamp,
			MessageType: m.MessageType,
			Attachments: m.Attachments,
		}
		out = append(out, message.WithAuthor(dto, names.Lookup(ctx, m.Author)))
	}
	return out, nil
}

func (uc *EncryptedMessageUsecase) Share(ctx context.Context, caller identity.Principal, id uint64, grantee identity.Principal) error {
	if grantee.IsZero() {
		return errors.InvalidInput("grantee is required")
	}
	now := uc.now().UnixNano()
	guard := func(m *model.EncryptedMessage) error {
		switch {
		case m.IsExpired(now):
			return errors.ErrMessageNotFound
		case m.Author != caller:
			return errors.ErrNotMessageAuthor
		case m.IsSharedWith(grantee):
			return nil
		case len(m.SharedWith) >= uc.config.Limits.MaxSharedWith:
			return errors.ErrShareLimitReached
		}
		return nil
	}
	if err := uc.repo.ShareEncryptedMessage(ctx, id, grantee, guard); err != nil {
		return uc.mapRepoError(err, id)
	}
	return nil
}

func (uc *EncryptedMessageUsecase) Delete(ctx context.Context, caller identity.Principal, id uint64) error {
	now := uc.now().UnixNano()
	guard := func(m *model.EncryptedMessage) error {
		switch {
		case m.IsExpired(now):
			return errors.ErrMessageNotFound
		case m.Author != caller:
			return errors.ErrNotMessageAuthor
		}
		return nil
	}
	if err := uc.repo.DeleteEncryptedMessage(ctx, id, guard); err != nil {
		return uc.mapRepoError(err, id)
	}
	return nil
}

func (uc *EncryptedMessageUsecase) CleanupExpired(ctx context.Context) int {
	n, err := uc.repo.DeleteExpired(ctx, uc.now().UnixNano())
	if err != nil {
		uc.logger.Error("expired message sweep failed", "err", err)
		return 0
	}
	if n > 0 {
		uc.logger.Info("expired encrypted messages removed", "count", n)
	}
	return n
}

func (uc *EncryptedMessageUsecase) ListForChannel(ctx context.Context, channelID uint64) ([]*encrypted.EncryptedMessageDTO, error) {
	ch, err := uc.channels.GetChannel(ctx, channelID)
	if err != nil {
		if errors.Is(err, channel.ErrChannelNotFound) {
			return []*encrypted.EncryptedMessageDTO{}, nil
		}
		return nil, uc.mapRepoError(err, 0)
	}
	if !ch.IsEncrypted {
		return []*encrypted.EncryptedMessageDTO{}, nil
	}
	return uc.list(ctx, encrypted.ListFilter{ChannelID: &channelID})
}

func (uc *EncryptedMessageUsecase) ListAll(ctx context.Context) ([]*encrypted.EncryptedMessageDTO, error) {
	return uc.list(ctx, encrypted.ListFilter{})
}

func (uc *EncryptedMessageUsecase) ListForCaller(ctx context.Context, caller identity.Principal) ([]*encrypted.EncryptedMessageDTO, error) {
	return uc.list(ctx, encrypted.ListFilter{Participant: &caller})
}

func (uc *EncryptedMessageUsecase) list(ctx context.Context, filter encrypted.ListFilter) ([]*encrypted.EncryptedMessageDTO, error) {
	filter.ActiveAt = uc.now().UnixNano()
	msgs, err := uc.repo.ListEncryptedMessages(ctx, filter)
	if err != nil {
		return nil, uc.mapRepoError(err, 0)
	}
	out := make([]*encrypted.EncryptedMessageDTO, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, encrypted.ToDTO(m))
	}
	return out, nil
}

// authorize is the decrypt gate. Membership is read live on every call.
func (uc *EncryptedMessageUsecase) authorize(ctx context.Context, caller identity.Principal, id uint64) (*model.EncryptedMessage, error) {
	msg, err := uc.repo.GetEncryptedMessage(ctx, id)
	if err != nil {
		return nil, uc.mapRepoError(err, id)
	}
	if msg.IsExpired(uc.now().UnixNano()) {
		return nil, errors.ErrMessageNotFound
	}
	if msg.Author == caller || msg.IsSharedWith(caller) {
		return msg, nil
	}
	if msg.ChannelID != nil {
		ok, err := uc.channels.IsMember(ctx, *msg.ChannelID, caller)
		if err != nil && !errors.Is(err, channel.ErrChannelNotFound) {
			return nil, uc.mapRepoError(err, id)
		}
		if ok {
			return msg, nil
		}
	}
	return nil, errors.ErrNotChannelMember
}

func (uc *EncryptedMessageUsecase) open(m *model.EncryptedMessage) (string, error) {
	sealed, err := base64.StdEncoding.DecodeString(m.EncryptedContent)
	if err != nil {
		return "", err
	}
	ok, err := utils.ValidateCiphertextSignature(uc.cipher.VerificationKey(), m.ID, sealed, m.Signature)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", errSignatureMismatch
	}
	plaintext, err := uc.cipher.Open(m.ID, sealed)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

func (uc *EncryptedMessageUsecase) mapRepoError(err error, id uint64) error {
	var appErr *errors.AppError
	switch {
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, encrypted.ErrEncryptedMessageNotFound):
		return errors.ErrMessageNotFound
	case errors.Is(err, encrypted.ErrChannelNotEncrypted):
		return errors.ErrChannelNotEncrypted
	case errors.Is(err, channel.ErrChannelNotFound):
		return errors.ErrChannelNotFound
	case errors.Is(err, channel.ErrNotMember):
		return errors.ErrNotChannelMember
	}
	uc.logger.Error("encrypted message repository error", "message_id", id, "err", err)
	return errors.ErrStorage(err)
}
