package model

import (
	"github.com/uptrace/bun"

	msgmodel "chatz/internal/message/model"
	"chatz/pkg/identity"
)

type EncryptedMessage struct {
	bun.BaseModel `bun:"table:encrypted_messages"`

	// Drawn from message_id_seq, shared with plaintext messages
	ID uint64 `bun:",pk"`

	ChannelID *uint64 `bun:",nullzero"`
	ReplyTo   *uint64 `bun:",nullzero"`

	// base64(nonce || ciphertext), sealed under the per-message key
	EncryptedContent string `bun:",notnull"`
	// Ed25519 over the id and the sealed bytes
	Signature []byte `bun:",type:bytea,notnull"`

	Author      identity.Principal   `bun:",notnull"`
	Timestamp   int64                `bun:",notnull"` // Unix nanoseconds
	MessageType msgmodel.MessageType `bun:",notnull,default:'text'"`

	// Grantees beyond channel membership
	SharedWith []identity.Principal `bun:",type:jsonb,notnull,default:'[]'"`

	ExpiresAt int64 `bun:",notnull"` // Unix nanoseconds

	Attachments []msgmodel.Attachment `bun:",type:jsonb,notnull,default:'[]'"`
}

// IsExpired reports whether the record is past its retention at now.
func (m *EncryptedMessage) IsExpired(now int64) bool { return m.ExpiresAt <= now }

func (m *EncryptedMessage) IsSharedWith(p identity.Principal) bool {
	for _, s := range m.SharedWith {
		if s == p {
			return true
		}
	}
	return false
}

func (m *EncryptedMessage) Clone() *EncryptedMessage {
	cp := *m
	if m.ChannelID != nil {
		v := *m.ChannelID
		cp.ChannelID = &v
	}
	if m.ReplyTo != nil {
		v := *m.ReplyTo
		cp.ReplyTo = &v
	}
	cp.Signature = append([]byte(nil), m.Signature...)
	cp.SharedWith = append([]identity.Principal{}, m.SharedWith...)
	cp.Attachments = msgmodel.CloneAttachments(m.Attachments)
	return &cp
}
