package encrypted

import (
	"chatz/internal/encrypted/model"
	msgmodel "chatz/internal/message/model"
	"chatz/pkg/identity"
)

// Input commands
type CreateCommand struct {
	Content     string
	ChannelID   *uint64
	ReplyTo     *uint64
	MessageType msgmodel.MessageType
	Attachments []msgmodel.Attachment
}

// Output DTOs
type EncryptedMessageDTO struct {
	ID               uint64                `json:"id"`
	ChannelID        *uint64               `json:"channel_id"`
	ReplyTo          *uint64               `json:"reply_to"`
	EncryptedContent string                `json:"encrypted_content"`
	Signature        []byte                `json:"signature"`
	Author           identity.Principal    `json:"author"`
	Timestamp        int64                 `json:"timestamp"`
	MessageType      msgmodel.MessageType  `json:"message_type"`
	SharedWith       []identity.Principal  `json:"shared_with"`
	ExpiresAt        int64                 `json:"expires_at"`
	Attachments      []msgmodel.Attachment `json:"attachments"`
}

// KeyDTO carries a per-message key. Wrapped keys are sealed to the
// caller's transport key.
type KeyDTO struct {
	MessageID uint64 `json:"message_id"`
	Key       []byte `json:"key"`
	Wrapped   bool   `json:"wrapped"`
}

func ToDTO(m *model.EncryptedMessage) *EncryptedMessageDTO {
	return &EncryptedMessageDTO{
		ID:               m.ID,
		ChannelID:        m.ChannelID,
		ReplyTo:          m.ReplyTo,
		EncryptedContent: m.EncryptedContent,
		Signature:        append([]byte(nil), m.Signature...),
		Author:           m.Author,
		Timestamp:        m.Timestamp,
		MessageType:      m.MessageType,
		SharedWith:       append([]identity.Principal{}, m.SharedWith...),
		ExpiresAt:        m.ExpiresAt,
		Attachments:      msgmodel.CloneAttachments(m.Attachments),
	}
}
