package encrypted

//go:generate mockgen -destination=mocks/mock_repository.go -package=mocks chatz/internal/encrypted EncryptedMessageRepository

import (
	"context"
	"errors"

	"chatz/internal/encrypted/model"
	"chatz/pkg/identity"
)

var (
	ErrEncryptedMessageNotFound = errors.New("encrypted message not found")
	ErrChannelNotEncrypted      = errors.New("channel is not encrypted")
)

// Sealer produces the stored ciphertext and its signature once the
// message id is known.
type Sealer func(id uint64) (ciphertext string, signature []byte, err error)

// Guard is evaluated inside the critical section of the write it protects.
type Guard func(msg *model.EncryptedMessage) error

type ListFilter struct {
	// nil matches every channel
	ChannelID *uint64
	// authored by or shared with
	Participant *identity.Principal
	// records with expires_at <= ActiveAt are skipped
	ActiveAt int64
}

type EncryptedMessageRepository interface {
	// CreateEncryptedMessage checks the channel (channel.ErrChannelNotFound,
	// channel.ErrNotMember, ErrChannelNotEncrypted), draws the id from the
	// shared message sequence, calls seal, stores the record and bumps the
	// channel and author counters in one step.
	CreateEncryptedMessage(ctx context.Context, msg *model.EncryptedMessage, seal Sealer) error
	GetEncryptedMessage(ctx context.Context, id uint64) (*model.EncryptedMessage, error)

	// ListEncryptedMessages orders by id ascending
	ListEncryptedMessages(ctx context.Context, filter ListFilter) ([]*model.EncryptedMessage, error)

	// ShareEncryptedMessage is idempotent
	ShareEncryptedMessage(ctx context.Context, id uint64, grantee identity.Principal, guard Guard) error
	DeleteEncryptedMessage(ctx context.Context, id uint64, guard Guard) error

	// DeleteExpired removes every record with expires_at <= now
	DeleteExpired(ctx context.Context, now int64) (int, error)
	CountEncryptedMessages(ctx context.Context) (int, error)
}
