package usecase

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"chatz/config"
	"chatz/internal/channel"
	"chatz/internal/channel/model"
	"chatz/internal/user"
	"chatz/pkg/errors"
	"chatz/pkg/identity"
	"chatz/pkg/logger"
	"chatz/pkg/utils"
)

const (
	generalName        = "General"
	generalDescription = "Welcome to Chat Z! This is the main chat channel."
)

type ChannelUsecase struct {
	repo   channel.ChannelRepository
	users  user.UserRepository
	logger logger.Logger
	config config.Config
	now    func() time.Time
}

func NewChannelUsecase(repo channel.ChannelRepository, users user.UserRepository, logger logger.Logger, config config.Config) *ChannelUsecase {
	return &ChannelUsecase{repo: repo, users: users, logger: logger, config: config, now: time.Now}
}

func (uc *ChannelUsecase) Create(ctx context.Context, caller identity.Principal, cmd channel.CreateChannelCommand) (*channel.ChannelDTO, error) {
	return uc.create(ctx, caller, cmd.Name, cmd.Description, false, nil)
}

func (uc *ChannelUsecase) CreateEncrypted(ctx context.Context, caller identity.Principal, cmd channel.CreateEncryptedChannelCommand) (*channel.ChannelDTO, error) {
	if uc.config.Channels.RequirePaymentForEncrypted && !cmd.PaymentAuthorized {
		return nil, errors.ErrPaymentRequired
	}

	var hash *string
	if cmd.Password != nil && strings.TrimSpace(*cmd.Password) != "" {
		if len(*cmd.Password) > utils.MaxPasswordBytes {
			return nil, errors.ErrPasswordTooLong
		}
		h, err := utils.HashPassword(*cmd.Password)
		if err != nil {
			uc.logger.Error("failed to hash channel password", "err", err)
			return nil, errors.ErrCrypto(err)
		}
		hash = &h
	}
	return uc.create(ctx, caller, cmd.Name, cmd.Description, true, hash)
}

func (uc *ChannelUsecase) create(ctx context.Context, caller identity.Principal, rawName string, description *string, encrypted bool, hash *string) (*channel.ChannelDTO, error) {
	if err := uc.requireRegistered(ctx, caller); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(rawName)
	if name == "" || utf8.RuneCountInString(name) > uc.config.Limits.MaxChannelNameLength {
		return nil, errors.ErrInvalidChannelName
	}

	ch := &model.Channel{
		Name:         name,
		Description:  optionalText(description),
		IsEncrypted:  encrypted,
		PasswordHash: hash,
		CreatedBy:    caller,
		CreatedAt:    uc.now().UnixNano(),
		Members:      []identity.Principal{caller},
	}
	if err := uc.repo.CreateChannel(ctx, ch); err != nil {
		uc.logger.Error("error while saving channel in db", "creator", caller, "err", err)
		return nil, errors.ErrStorage(err)
	}

	uc.logger.Info("channel created", "channel_id", ch.ID, "creator", caller, "encrypted", encrypted, "password", hash != nil)
	return channel.ToDTO(ch), nil
}

func (uc *ChannelUsecase) Join(ctx context.Context, caller identity.Principal, channelID uint64, password *string) error {
	if err := uc.requireRegistered(ctx, caller); err != nil {
		return err
	}

	ch, err := uc.repo.GetChannel(ctx, channelID)
	if err != nil {
		return uc.mapRepoError(err, channelID)
	}

	if ch.HasMember(caller) {
		return nil
	}

	// bcrypt runs outside the repository lock; the guard only confirms the
	// hash that was checked is still the current one.
	verified := ch.PasswordHash
	if !ch.IsGeneral() && verified != nil {
		if password == nil || !utils.CheckPassword(*password, *verified) {
			return errors.ErrInvalidPassword
		}
	}

	guard := func(cur *model.Channel) error {
		if cur.IsGeneral() || sameHash(cur.PasswordHash, verified) {
			return nil
		}
		return errors.ErrInvalidPassword
	}
	if err := uc.repo.AddMember(ctx, channelID, caller, uc.now().UnixNano(), guard); err != nil {
		return uc.mapRepoError(err, channelID)
	}
	return nil
}

func (uc *ChannelUsecase) Leave(ctx context.Context, caller identity.Principal, channelID uint64) error {
	if channelID == model.GeneralChannelID {
		return errors.ErrGeneralChannel
	}
	guard := func(cur *model.Channel) error {
		switch {
		case cur.CreatedBy == caller:
			return errors.ErrCreatorCannotLeave
		case !cur.HasMember(caller):
			return errors.ErrNotChannelMember
		}
		return nil
	}
	if err := uc.repo.RemoveMember(ctx, channelID, caller, guard); err != nil {
		return uc.mapRepoError(err, channelID)
	}
	uc.logger.Info("member left channel", "channel_id", channelID, "principal", caller)
	return nil
}

func (uc *ChannelUsecase) Delete(ctx context.Context, caller identity.Principal, channelID uint64) error {
	if channelID == model.GeneralChannelID {
		return errors.ErrGeneralChannel
	}
	guard := func(cur *model.Channel) error {
		if cur.CreatedBy != caller {
			return errors.ErrNotChannelCreator
		}
		return nil
	}
	if err := uc.repo.DeleteChannel(ctx, channelID, guard); err != nil {
		return uc.mapRepoError(err, channelID)
	}
	uc.logger.Info("channel deleted", "channel_id", channelID, "by", caller)
	return nil
}

func (uc *ChannelUsecase) GetChannel(ctx context.Context, channelID uint64) (*channel.ChannelDTO, error) {
	ch, err := uc.repo.GetChannel(ctx, channelID)
	if err != nil {
		return nil, uc.mapRepoError(err, channelID)
	}
	return channel.ToDTO(ch), nil
}

func (uc *ChannelUsecase) ListChannels(ctx context.Context) ([]*channel.ChannelDTO, error) {
	channels, err := uc.repo.ListChannels(ctx)
	if err != nil {
		uc.logger.Error("error while listing channels", "err", err)
		return nil, errors.ErrStorage(err)
	}
	out := make([]*channel.ChannelDTO, 0, len(channels))
	for _, ch := range channels {
		out = append(out, channel.ToDTO(ch))
	}
	return out, nil
}

func (uc *ChannelUsecase) IsMember(ctx context.Context, channelID uint64, principal identity.Principal) (bool, error) {
	ok, err := uc.repo.IsMember(ctx, channelID, principal)
	if err != nil {
		return false, uc.mapRepoError(err, channelID)
	}
	return ok, nil
}

func (uc *ChannelUsecase) FixGeneralChannel(ctx context.Context) (*channel.ChannelDTO, error) {
	principals, err := uc.users.ListPrincipals(ctx)
	if err != nil {
		uc.logger.Error("error while listing principals", "err", err)
		return nil, errors.ErrStorage(err)
	}
	members := append([]identity.Principal{identity.Anonymous}, principals...)

	description := generalDescription
	tmpl := &model.Channel{
		ID:          model.GeneralChannelID,
		Name:        generalName,
		Description: &description,
		CreatedBy:   identity.Anonymous,
		CreatedAt:   uc.now().UnixNano(),
	}
	ch, err := uc.repo.ResetGeneralChannel(ctx, tmpl, members)
	if err != nil {
		uc.logger.Error("error while repairing general channel", "err", err)
		return nil, errors.ErrStorage(err)
	}

	uc.logger.Info("general channel repaired", "members", len(ch.Members))
	return channel.ToDTO(ch), nil
}

func (uc *ChannelUsecase) requireRegistered(ctx context.Context, caller identity.Principal) error {
	if caller.IsZero() {
		return errors.ErrUnauthenticated
	}
	if _, err := uc.users.GetUserByPrincipal(ctx, caller); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return errors.ErrUserNotRegistered
		}
		uc.logger.Error("user lookup failed", "principal", caller, "err", err)
		return errors.ErrStorage(err)
	}
	return nil
}

// mapRepoError passes guard errors through and translates repository
// sentinels.
func (uc *ChannelUsecase) mapRepoError(err error, channelID uint64) error {
	var appErr *errors.AppError
	switch {
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, channel.ErrChannelNotFound):
		return errors.ErrChannelNotFound
	case errors.Is(err, channel.ErrNotMember):
		return errors.ErrNotChannelMember
	}
	uc.logger.Error("channel repository error", "channel_id", channelID, "err", err)
	return errors.ErrStorage(err)
}

func sameHash(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func optionalText(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
