package postgres

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"

	chmodel "chatz/internal/channel/model"
	encmodel "chatz/internal/encrypted/model"
	msgmodel "chatz/internal/message/model"
	models "chatz/internal/user/model"
)

// MessageIDSequence numbers plaintext and encrypted messages alike.
const MessageIDSequence = "message_id_seq"

// Migrate creates the schema if it is missing. It is safe to run on every
// start.
func Migrate(ctx context.Context, db *bun.DB) error {
	if _, err := db.ExecContext(ctx, `CREATE SEQUENCE IF NOT EXISTS `+MessageIDSequence); err != nil {
		return errors.Wrap(err, "postgres.Migrate.sequence")
	}

	tables := []any{
		(*models.User)(nil),
		(*chmodel.Channel)(nil),
		(*msgmodel.Message)(nil),
		(*encmodel.EncryptedMessage)(nil),
	}
	for _, t := range tables {
		if _, err := db.NewCreateTable().Model(t).IfNotExists().Exec(ctx); err != nil {
			return errors.Wrapf(err, "postgres.Migrate.createTable %T", t)
		}
	}

	_, err := db.NewCreateTable().
		Model((*chmodel.ChannelMember)(nil)).
		IfNotExists().
		ForeignKey(`("channel_id") REFERENCES "channels" ("id") ON DELETE CASCADE`).
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "postgres.Migrate.createTable channel_members")
	}

	indexes := []struct {
		model   any
		name    string
		columns []string
	}{
		{(*msgmodel.Message)(nil), "messages_channel_id_idx", []string{"channel_id", "id"}},
		{(*encmodel.EncryptedMessage)(nil), "encrypted_messages_channel_id_idx", []string{"channel_id", "id"}},
		{(*encmodel.EncryptedMessage)(nil), "encrypted_messages_expires_at_idx", []string{"expires_at"}},
	}
	for _, ix := range indexes {
		_, err := db.NewCreateIndex().Model(ix.model).Index(ix.name).Column(ix.columns...).IfNotExists().Exec(ctx)
		if err != nil {
			return errors.Wrapf(err, "postgres.Migrate.createIndex %s", ix.name)
		}
	}

	return ReserveGeneralID(ctx, db)
}

// ReserveGeneralID keeps the channel id sequence past the General id.
func ReserveGeneralID(ctx context.Context, db bun.IDB) error {
	_, err := db.ExecContext(ctx, `SELECT setval(pg_get_serial_sequence('channels', 'id'), GREATEST(COALESCE((SELECT MAX(id) FROM channels), 0), ?))`, chmodel.GeneralChannelID)
	if err != nil {
		return errors.Wrap(err, "postgres.ReserveGeneralID")
	}
	return nil
}
