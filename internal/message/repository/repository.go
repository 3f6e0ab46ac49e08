package repository

import (
	"context"
	"database/sql"

	"chatz/internal/message"
	"chatz/internal/message/model"
	"chatz/internal/storage/postgres"
	"chatz/pkg/logger"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

var _ message.MessageRepository = (*MessageRepository)(nil)

type MessageRepository struct {
	db     *bun.DB
	logger *logger.Logger
}

func NewMessageRepository(db *bun.DB, logger logger.Logger) *MessageRepository {
	return &MessageRepository{
		db:     db,
		logger: &logger,
	}
}

func (r *MessageRepository) CreateMessage(ctx context.Context, msg *model.Message) error {
	if msg.Attachments == nil {
		msg.Attachments = []model.Attachment{}
	}
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := postgres.CheckWritableChannel(ctx, tx, msg.ChannelID, msg.Author); err != nil {
			return err
		}
		id, err := postgres.NextMessageID(ctx, tx)
		if err != nil {
			return err
		}
		msg.ID = id
		if _, err := tx.NewInsert().Model(msg).Exec(ctx); err != nil {
			return errors.Wrap(err, "messageRepo.CreateMessage.Insert")
		}
		return postgres.RecordActivity(ctx, tx, msg.ChannelID, msg.Author, msg.Timestamp)
	})
}

func (r *MessageRepository) GetMessage(ctx context.Context, id uint64) (*model.Message, error) {
	msg := new(model.Message)
	err := r.db.NewSelect().Model(msg).Where("id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, message.ErrMessageNotFound
		}
		return nil, errors.Wrap(err, "messageRepo.GetMessage.Scan")
	}
	return msg, nil
}

func (r *MessageRepository) ListMessages(ctx context.Context, filter message.ListFilter) ([]*model.Message, int, error) {
	messages := []*model.Message{}
	q := r.db.NewSelect().Model(&messages)
	if filter.ChannelID != nil {
		q = q.Where("channel_id = ?", *filter.ChannelID)
	} else {
		q = q.Where("channel_id IS NULL")
	}

	// bun treats Limit(0) as no limit
	if filter.Limit <= 0 {
		total, err := q.Count(ctx)
		if err != nil {
			return nil, 0, errors.Wrap(err, "messageRepo.ListMessages.Count")
		}
		return messages, total, nil
	}

	total, err := q.Order("id ASC").Limit(filter.Limit).Offset(filter.Offset).ScanAndCount(ctx)
	if err != nil {
		return nil, 0, errors.Wrap(err, "messageRepo.ListMessages.ScanAndCount")
	}
	return messages, total, nil
}

func (r *MessageRepository) CountMessages(ctx context.Context) (int, error) {
	count, err := r.db.NewSelect().Model((*model.Message)(nil)).Count(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "messageRepo.CountMessages.Count")
	}
	return count, nil
}
