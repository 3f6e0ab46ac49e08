package postgres

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"

	"chatz/internal/channel"
	chmodel "chatz/internal/channel/model"
	models "chatz/internal/user/model"
	"chatz/pkg/identity"
)

// LockChannel loads a channel and its members, holding the row lock until
// tx ends.
func LockChannel(ctx context.Context, tx bun.Tx, id uint64) (*chmodel.Channel, error) {
	ch := new(chmodel.Channel)
	err := tx.NewSelect().Model(ch).Where("id = ?", id).For("UPDATE").Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, channel.ErrChannelNotFound
		}
		return nil, errors.Wrap(err, "postgres.LockChannel.Scan")
	}
	if ch.Members, err = LoadMembers(ctx, tx, id); err != nil {
		return nil, err
	}
	return ch, nil
}

// LoadMembers returns the members of one channel in join order.
func LoadMembers(ctx context.Context, db bun.IDB, channelID uint64) ([]identity.Principal, error) {
	var rows []chmodel.ChannelMember
	err := db.NewSelect().
		Model(&rows).
		Where("channel_id = ?", channelID).
		Order("joined_at ASC", "principal ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "postgres.LoadMembers.Scan")
	}
	out := make([]identity.Principal, len(rows))
	for i, r := range rows {
		out[i] = r.Principal
	}
	return out, nil
}

// CheckWritableChannel locks the target channel of a new message and
// verifies the author belongs to it. A nil id needs no channel.
func CheckWritableChannel(ctx context.Context, tx bun.Tx, channelID *uint64, author identity.Principal) (*chmodel.Channel, error) {
	if channelID == nil {
		return nil, nil
	}
	ch, err := LockChannel(ctx, tx, *channelID)
	if err != nil {
		return nil, err
	}
	if !ch.HasMember(author) {
		return nil, channel.ErrNotMember
	}
	return ch, nil
}

// NextMessageID draws from the sequence shared by both message tables.
func NextMessageID(ctx context.Context, tx bun.Tx) (uint64, error) {
	var id uint64
	if err := tx.QueryRowContext(ctx, `SELECT nextval('`+MessageIDSequence+`')`).Scan(&id); err != nil {
		return 0, errors.Wrap(err, "postgres.NextMessageID")
	}
	return id, nil
}

// RecordActivity bumps the channel and author counters for one message.
func RecordActivity(ctx context.Context, tx bun.Tx, channelID *uint64, author identity.Principal, at int64) error {
	if channelID != nil {
		_, err := tx.NewUpdate().
			Model((*chmodel.Channel)(nil)).
			Set("message_count = message_count + 1").
			Set("last_message_at = ?", at).
			Where("id = ?", *channelID).
			Exec(ctx)
		if err != nil {
			return errors.Wrap(err, "postgres.RecordActivity.channel")
		}
	}
	_, err := tx.NewUpdate().
		Model((*models.User)(nil)).
		Set("message_count = message_count + 1").
		Set("last_active = ?", at).
		Where("principal = ?", author).
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "postgres.RecordActivity.user")
	}
	return nil
}
