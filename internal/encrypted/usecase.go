package encrypted

import (
	"context"

	"chatz/internal/message"
	"chatz/pkg/identity"
)

type EncryptedMessageUsecase interface {
	Create(ctx context.Context, caller identity.Principal, cmd CreateCommand) (uint64, error)

	// The decrypt gate: author, explicit grantee or current channel member
	GetSymmetricKey(ctx context.Context, caller identity.Principal, id uint64, transportPublicKey []byte) (*KeyDTO, error)
	Decrypt(ctx context.Context, caller identity.Principal, id uint64) (string, error)
	DecryptAllForChannel(ctx context.Context, caller identity.Principal, channelID uint64) ([]*message.MessageWithAuthorDTO, error)
	GetVerificationKey(ctx context.Context) []byte

	Share(ctx context.Context, caller identity.Principal, id uint64, grantee identity.Principal) error
	Delete(ctx context.Context, caller identity.Principal, id uint64) error
	CleanupExpired(ctx context.Context) int

	// Ciphertext listings, not membership gated
	ListForChannel(ctx context.Context, channelID uint64) ([]*EncryptedMessageDTO, error)
	ListAll(ctx context.Context) ([]*EncryptedMessageDTO, error)
	ListForCaller(ctx context.Context, caller identity.Principal) ([]*EncryptedMessageDTO, error)
}

// Cipher is the cryptographic collaborator that holds the service keys.
type Cipher interface {
	Seal(messageID uint64, plaintext []byte) ([]byte, error)
	Open(messageID uint64, sealed []byte) ([]byte, error)
	MessageKey(messageID uint64) ([]byte, error)
	WrapKey(key, transportPublicKey []byte) ([]byte, error)
	Sign(messageID uint64, ciphertext []byte) []byte
	VerificationKey() []byte
}
