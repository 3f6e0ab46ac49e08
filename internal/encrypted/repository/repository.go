package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"chatz/internal/encrypted"
	"chatz/internal/encrypted/model"
	msgmodel "chatz/internal/message/model"
	"chatz/internal/storage/postgres"
	"chatz/pkg/identity"
	"chatz/pkg/logger"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

var _ encrypted.EncryptedMessageRepository = (*EncryptedMessageRepository)(nil)

type EncryptedMessageRepository struct {
	db     *bun.DB
	logger *logger.Logger
}

func NewEncryptedMessageRepository(db *bun.DB, logger logger.Logger) *EncryptedMessageRepository {
	return &EncryptedMessageRepository{
		db:     db,
		logger: &logger,
	}
}

// CreateEncryptedMessage draws the id inside the transaction. A failing
// seal rolls back, but the sequence value is not returned to the pool.
func (r *EncryptedMessageRepository) CreateEncryptedMessage(ctx context.Context, msg *model.EncryptedMessage, seal encrypted.Sealer) error {
	if msg.SharedWith == nil {
		msg.SharedWith = []identity.Principal{}
	}
	if msg.Attachments == nil {
		msg.Attachments = []msgmodel.Attachment{}
	}
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		ch, err := postgres.CheckWritableChannel(ctx, tx, msg.ChannelID, msg.Author)
		if err != nil {
			return err
		}
		if ch != nil && !ch.IsEncrypted {
			return encrypted.ErrChannelNotEncrypted
		}

		id, err := postgres.NextMessageID(ctx, tx)
		if err != nil {
			return err
		}
		content, signature, err := seal(id)
		if err != nil {
			return err
		}
		msg.ID = id
		msg.EncryptedContent = content
		msg.Signature = signature

		if _, err := tx.NewInsert().Model(msg).Exec(ctx); err != nil {
			return errors.Wrap(err, "encryptedRepo.CreateEncryptedMessage.Insert")
		}
		return postgres.RecordActivity(ctx, tx, msg.ChannelID, msg.Author, msg.Timestamp)
	})
}

func (r *EncryptedMessageRepository) GetEncryptedMessage(ctx context.Context, id uint64) (*model.EncryptedMessage, error) {
	msg := new(model.EncryptedMessage)
	err := r.db.NewSelect().Model(msg).Where("id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, encrypted.ErrEncryptedMessageNotFound
		}
		return nil, errors.Wrap(err, "encryptedRepo.GetEncryptedMessage.Scan")
	}
	return msg, nil
}

func (r *EncryptedMessageRepository) ListEncryptedMessages(ctx context.Context, filter encrypted.ListFilter) ([]*model.EncryptedMessage, error) {
	messages := []*model.EncryptedMessage{}
	q := r.db.NewSelect().Model(&messages).Where("expires_at > ?", filter.ActiveAt)
	if filter.ChannelID != nil {
		q = q.Where("channel_id = ?", *filter.ChannelID)
	}
	if p := filter.Participant; p != nil {
		grantee, err := principalsJSON(*p)
		if err != nil {
			return nil, err
		}
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("author = ?", *p).WhereOr("shared_with @> ?::jsonb", grantee)
		})
	}
	if err := q.Order("id ASC").Scan(ctx); err != nil {
		return nil, errors.Wrap(err, "encryptedRepo.ListEncryptedMessages.Scan")
	}
	return messages, nil
}

func (r *EncryptedMessageRepository) ShareEncryptedMessage(ctx context.Context, id uint64, grantee identity.Principal, guard encrypted.Guard) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		msg, err := lockAndGuard(ctx, tx, id, guard)
		if err != nil {
			return err
		}
		if msg.IsSharedWith(grantee) {
			return nil
		}
		value, err := principalsJSON(grantee)
		if err != nil {
			return err
		}
		_, err = tx.NewUpdate().
			Model((*model.EncryptedMessage)(nil)).
			Set("shared_with = shared_with || ?::jsonb", value).
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			return errors.Wrap(err, "encryptedRepo.ShareEncryptedMessage.Update")
		}
		return nil
	})
}

func (r *EncryptedMessageRepository) DeleteEncryptedMessage(ctx context.Context, id uint64, guard encrypted.Guard) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := lockAndGuard(ctx, tx, id, guard); err != nil {
			return err
		}
		_, err := tx.NewDelete().Model((*model.EncryptedMessage)(nil)).Where("id = ?", id).Exec(ctx)
		if err != nil {
			return errors.Wrap(err, "encryptedRepo.DeleteEncryptedMessage.Delete")
		}
		return nil
	})
}

func (r *EncryptedMessageRepository) DeleteExpired(ctx context.Context, now int64) (int, error) {
	res, err := r.db.NewDelete().
		Model((*model.EncryptedMessage)(nil)).
		Where("expires_at <= ?", now).
		Exec(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "encryptedRepo.DeleteExpired.Delete")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "encryptedRepo.DeleteExpired.RowsAffected")
	}
	return int(n), nil
}

func (r *EncryptedMessageRepository) CountEncryptedMessages(ctx context.Context) (int, error) {
	count, err := r.db.NewSelect().Model((*model.EncryptedMessage)(nil)).Count(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "encryptedRepo.CountEncryptedMessages.Count")
	}
	return count, nil
}

func lockAndGuard(ctx context.Context, tx bun.Tx, id uint64, guard encrypted.Guard) (*model.EncryptedMessage, error) {
	msg := new(model.EncryptedMessage)
	err := tx.NewSelect().Model(msg).Where("id = ?", id).For("UPDATE").Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, encrypted.ErrEncryptedMessageNotFound
		}
		return nil, errors.Wrap(err, "encryptedRepo.lockAndGuard.Scan")
	}
	if guard != nil {
		if err := guard(msg); err != nil {
			return nil, err
		}
	}
	return msg, nil
}

func principalsJSON(p ...identity.Principal) (string, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return "", errors.Wrap(err, "encryptedRepo.principalsJSON")
	}
	return string(b), nil
}
