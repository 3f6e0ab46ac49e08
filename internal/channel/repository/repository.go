package repository

import (
	"context"
	"database/sql"

	"chatz/internal/channel"
	"chatz/internal/channel/model"
	"chatz/internal/storage/postgres"
	"chatz/pkg/identity"
	"chatz/pkg/logger"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

var _ channel.ChannelRepository = (*ChannelRepository)(nil)

type ChannelRepository struct {
	db     *bun.DB
	logger *logger.Logger
}

func NewChannelRepository(db *bun.DB, logger logger.Logger) *ChannelRepository {
	return &ChannelRepository{
		db:     db,
		logger: &logger,
	}
}

func (r *ChannelRepository) CreateChannel(ctx context.Context, ch *model.Channel) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(ch).Returning("*").Exec(ctx); err != nil {
			return errors.Wrap(err, "channelRepo.CreateChannel.Insert")
		}
		if err := insertMembers(ctx, tx, ch.ID, ch.Members, ch.CreatedAt); err != nil {
			return err
		}
		members, err := postgres.LoadMembers(ctx, tx, ch.ID)
		if err != nil {
			return err
		}
		ch.Members = members
		return nil
	})
}

func (r *ChannelRepository) GetChannel(ctx context.Context, id uint64) (*model.Channel, error) {
	ch := new(model.Channel)
	err := r.db.NewSelect().Model(ch).Where("id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, channel.ErrChannelNotFound
		}
		return nil, errors.Wrap(err, "channelRepo.GetChannel.Scan")
	}
	if ch.Members, err = postgres.LoadMembers(ctx, r.db, id); err != nil {
		return nil, err
	}
	return ch, nil
}

func (r *ChannelRepository) ListChannels(ctx context.Context) ([]*model.Channel, error) {
	var channels []*model.Channel
	if err := r.db.NewSelect().Model(&channels).Order("id ASC").Scan(ctx); err != nil {
		return nil, errors.Wrap(err, "channelRepo.ListChannels.Scan")
	}
	if len(channels) == 0 {
		return channels, nil
	}

	var rows []model.ChannelMember
	err := r.db.NewSelect().
		Model(&rows).
		Order("channel_id ASC", "joined_at ASC", "principal ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "channelRepo.ListChannels.Members")
	}

	byID := make(map[uint64]*model.Channel, len(channels))
	for _, ch := range channels {
		ch.Members = []identity.Principal{}
		byID[ch.ID] = ch
	}
	for _, m := range rows {
		if ch, ok := byID[m.ChannelID]; ok {
			ch.Members = append(ch.Members, m.Principal)
		}
	}
	return channels, nil
}

func (r *ChannelRepository) CountChannels(ctx context.Context) (int, error) {
	count, err := r.db.NewSelect().Model((*model.Channel)(nil)).Count(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "channelRepo.CountChannels.Count")
	}
	return count, nil
}

func (r *ChannelRepository) IsMember(ctx context.Context, id uint64, principal identity.Principal) (bool, error) {
	exists, err := r.db.NewSelect().Model((*model.Channel)(nil)).Where("id = ?", id).Exists(ctx)
	if err != nil {
		return false, errors.Wrap(err, "channelRepo.IsMember.Channel")
	}
	if !exists {
		return false, channel.ErrChannelNotFound
	}

	member, err := r.db.NewSelect().
		Model((*model.ChannelMember)(nil)).
		Where("channel_id = ?", id).
		Where("principal = ?", principal).
		Exists(ctx)
	if err != nil {
		return false, errors.Wrap(err, "channelRepo.IsMember.Member")
	}
	return member, nil
}

func (r *ChannelRepository) AddMember(ctx context.Context, id uint64, principal identity.Principal, joinedAt int64, guard channel.Guard) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := lockAndGuard(ctx, tx, id, guard); err != nil {
			return err
		}
		return insertMembers(ctx, tx, id, []identity.Principal{principal}, joinedAt)
	})
}

func (r *ChannelRepository) RemoveMember(ctx context.Context, id uint64, principal identity.Principal, guard channel.Guard) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := lockAndGuard(ctx, tx, id, guard); err != nil {
			return err
		}
		res, err := tx.NewDelete().
			Model((*model.ChannelMember)(nil)).
			Where("channel_id = ?", id).
			Where("principal = ?", principal).
			Exec(ctx)
		if err != nil {
			return errors.Wrap(err, "channelRepo.RemoveMember.Delete")
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return channel.ErrNotMember
		}
		return nil
	})
}

// DeleteChannel drops the channel row. Members go with it through the
// foreign key; messages stay.
func (r *ChannelRepository) DeleteChannel(ctx context.Context, id uint64, guard channel.Guard) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := lockAndGuard(ctx, tx, id, guard); err != nil {
			return err
		}
		_, err := tx.NewDelete().Model((*model.Channel)(nil)).Where("id = ?", id).Exec(ctx)
		if err != nil {
			return errors.Wrap(err, "channelRepo.DeleteChannel.Delete")
		}
		return nil
	})
}

func (r *ChannelRepository) ResetGeneralChannel(ctx context.Context, tmpl *model.Channel, members []identity.Principal) (*model.Channel, error) {
	var out *model.Channel
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		general := tmpl.Clone()
		general.ID = model.GeneralChannelID
		general.PasswordHash = nil
		general.IsEncrypted = false

		_, err := tx.NewInsert().Model(general).On("CONFLICT (id) DO NOTHING").Exec(ctx)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return errors.Wrap(err, "channelRepo.ResetGeneralChannel.Insert")
		}
		_, err = tx.NewUpdate().
			Model((*model.Channel)(nil)).
			Set("password_hash = NULL").
			Set("is_encrypted = FALSE").
			Where("id = ?", model.GeneralChannelID).
			Exec(ctx)
		if err != nil {
			return errors.Wrap(err, "channelRepo.ResetGeneralChannel.Update")
		}
		if err := postgres.ReserveGeneralID(ctx, tx); err != nil {
			return err
		}

		ch, err := postgres.LockChannel(ctx, tx, model.GeneralChannelID)
		if err != nil {
			return err
		}
		if err := insertMembers(ctx, tx, ch.ID, members, tmpl.CreatedAt); err != nil {
			return err
		}
		if ch.Members, err = postgres.LoadMembers(ctx, tx, ch.ID); err != nil {
			return err
		}
		out = ch
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// lockAndGuard holds the channel row for the rest of tx and runs guard on it.
func lockAndGuard(ctx context.Context, tx bun.Tx, id uint64, guard channel.Guard) error {
	ch, err := postgres.LockChannel(ctx, tx, id)
	if err != nil {
		return err
	}
	if guard != nil {
		return guard(ch)
	}
	return nil
}

func insertMembers(ctx context.Context, tx bun.Tx, channelID uint64, principals []identity.Principal, joinedAt int64) error {
	if len(principals) == 0 {
		return nil
	}
	seen := make(map[identity.Principal]struct{}, len(principals))
	rows := make([]model.ChannelMember, 0, len(principals))
	for _, p := range principals {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		rows = append(rows, model.ChannelMember{ChannelID: channelID, Principal: p, JoinedAt: joinedAt})
	}
	_, err := tx.NewInsert().Model(&rows).On("CONFLICT DO NOTHING").Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "channelRepo.insertMembers.Insert")
	}
	return nil
}
