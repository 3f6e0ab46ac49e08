package usecase

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"chatz/config"
	"chatz/internal/channel"
	chmodel "chatz/internal/channel/model"
	"chatz/internal/user"
	models "chatz/internal/user/model"
	"chatz/pkg/errors"
	"chatz/pkg/identity"
	"chatz/pkg/logger"
)

type UserUsecase struct {
	repo     user.UserRepository
	channels channel.ChannelRepository
	logger   logger.Logger
	config   config.Config
	now      func() time.Time
}

func NewUserUsecase(repo user.UserRepository, channels channel.ChannelRepository, logger logger.Logger, config config.Config) *UserUsecase {
	return &UserUsecase{repo: repo, channels: channels, logger: logger, config: config, now: time.Now}
}

func (uc *UserUsecase) Register(ctx context.Context, caller identity.Principal, cmd user.RegisterCommand) (*user.UserDTO, error) {
	if caller.IsZero() {
		return nil, errors.ErrUnauthenticated
	}
	username, err := uc.validateUsername(cmd.Username)
	if err != nil {
		return nil, err
	}

	now := uc.now().UnixNano()
	u := &models.User{
		Principal:     caller,
		Username:      username,
		Bio:           optionalText(cmd.Bio),
		JoinedAt:      now,
		LastActive:    now,
		EncryptedKeys: map[string]string{},
	}

	if err := uc.repo.CreateUser(ctx, u); err != nil {
		switch {
		case errors.Is(err, user.ErrPrincipalExists):
			return nil, errors.ErrUserAlreadyExists
		case errors.Is(err, user.ErrUsernameTaken):
			return nil, errors.ErrUsernameTaken
		}
		uc.logger.Error("error while saving user in db", "principal", caller, "err", err)
		return nil, errors.ErrStorage(err)
	}

	// General may be missing until the next repair, which enrolls everyone.
	err = uc.channels.AddMember(ctx, chmodel.GeneralChannelID, caller, now, nil)
	if err != nil && !errors.Is(err, channel.ErrChannelNotFound) {
		uc.logger.Warn("could not add user to general channel", "principal", caller, "err", err)
	}

	uc.logger.Info("user registered", "principal", caller, "username", username)
	return user.ToDTO(u), nil
}

func (uc *UserUsecase) Update(ctx context.Context, caller identity.Principal, cmd user.UpdateCommand) (*user.UserDTO, error) {
	u, err := uc.repo.GetUserByPrincipal(ctx, caller)
	if err != nil {
		return nil, uc.mapLookupError(err, caller)
	}

	if cmd.Username != nil {
		username, err := uc.validateUsername(*cmd.Username)
		if err != nil {
			return nil, err
		}
		u.Username = username
	}
	if cmd.Bio != nil {
		u.Bio = optionalText(cmd.Bio)
	}
	if cmd.AvatarURL != nil {
		u.AvatarURL = optionalText(cmd.AvatarURL)
	}
	u.LastActive = uc.now().UnixNano()

	if err := uc.repo.UpdateUser(ctx, u); err != nil {
		if errors.Is(err, user.ErrUsernameTaken) {
			return nil, errors.ErrUsernameTaken
		}
		return nil, uc.mapLookupError(err, caller)
	}
	return user.ToDTO(u), nil
}

func (uc *UserUsecase) GetUser(ctx context.Context, principal identity.Principal) (*user.UserDTO, error) {
	u, err := uc.repo.GetUserByPrincipal(ctx, principal)
	if err != nil {
		return nil, uc.mapLookupError(err, principal)
	}
	return user.ToPublicDTO(u), nil
}

func (uc *UserUsecase) GetCurrentUser(ctx context.Context, caller identity.Principal) (*user.UserDTO, error) {
	if caller.IsZero() {
		return nil, errors.ErrUnauthenticated
	}
	u, err := uc.repo.GetUserByPrincipal(ctx, caller)
	if err != nil {
		return nil, uc.mapLookupError(err, caller)
	}
	return user.ToDTO(u), nil
}

func (uc *UserUsecase) ListUsers(ctx context.Context) ([]*user.UserDTO, error) {
	users, err := uc.repo.ListUsers(ctx)
	if err != nil {
		uc.logger.Error("error while listing users", "err", err)
		return nil, errors.ErrStorage(err)
	}
	out := make([]*user.UserDTO, 0, len(users))
	for _, u := range users {
		out = append(out, user.ToPublicDTO(u))
	}
	return out, nil
}

func (uc *UserUsecase) SetEncryptedKey(ctx context.Context, caller identity.Principal, tag, value string) error {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return errors.ErrInvalidKeyTag
	}
	if err := uc.repo.SetEncryptedKey(ctx, caller, tag, value); err != nil {
		return uc.mapLookupError(err, caller)
	}
	return nil
}

func (uc *UserUsecase) GetEncryptedKeys(ctx context.Context, caller identity.Principal) (map[string]string, error) {
	u, err := uc.GetCurrentUser(ctx, caller)
	if err != nil {
		return nil, err
	}
	return u.EncryptedKeys, nil
}

func (uc *UserUsecase) validateUsername(raw string) (string, error) {
	username := strings.TrimSpace(raw)
	if username == "" || utf8.RuneCountInString(username) > uc.config.Limits.MaxUsernameLength {
		return "", errors.ErrInvalidUsername
	}
	return username, nil
}

func (uc *UserUsecase) mapLookupError(err error, principal identity.Principal) error {
	if errors.Is(err, user.ErrUserNotFound) {
		return errors.ErrUserNotFound
	}
	uc.logger.Error("user lookup failed", "principal", principal, "err", err)
	return errors.ErrStorage(err)
}

// optionalText trims s and maps blank input to absent.
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
