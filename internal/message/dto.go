package message

import (
	"chatz/internal/message/model"
	"chatz/pkg/identity"
)

// UnknownAuthor is shown when the author has no user record.
const UnknownAuthor = "Unknown User"

// Input commands
type SendCommand struct {
	Content     string
	ChannelID   *uint64
	ReplyTo     *uint64
	MessageType model.MessageType
	Attachments []model.Attachment
}

// ListQuery leaves Limit and Offset nil for the defaults.
type ListQuery struct {
	ChannelID *uint64
	Limit     *int
	Offset    *int
}

// Output DTOs
type MessageDTO struct {
	ID          uint64             `json:"id"`
	ChannelID   *uint64            `json:"channel_id"`
	ReplyTo     *uint64            `json:"reply_to"`
	Author      identity.Principal `json:"author"`
	Content     string             `json:"content"`
	Timestamp   int64              `json:"timestamp"`
	MessageType model.MessageType  `json:"message_type"`
	Attachments []model.Attachment `json:"attachments"`
}

type MessageWithAuthorDTO struct {
	MessageDTO
	AuthorUsername string `json:"author_username"`
}

type PaginatedMessages struct {
	Messages   []*MessageWithAuthorDTO `json:"messages"`
	TotalCount int                     `json:"total_count"`
	HasMore    bool                    `json:"has_more"`
}

func ToDTO(m *model.Message) *MessageDTO {
	return &MessageDTO{
		ID:          m.ID,
		ChannelID:   m.ChannelID,
		ReplyTo:     m.ReplyTo,
		Author:      m.Author,
		Content:     m.Content,
		Timestamp:   m.Timestamp,
		MessageType: m.MessageType,
		Attachments: model.CloneAttachments(m.Attachments),
	}
}

func WithAuthor(m *MessageDTO, username string) *MessageWithAuthorDTO {
	if username == "" {
		username = UnknownAuthor
	}
	return &MessageWithAuthorDTO{MessageDTO: *m, AuthorUsername: username}
}
