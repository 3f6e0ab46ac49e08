package model

import (
	"github.com/uptrace/bun"

	"chatz/pkg/identity"
)

type MessageType string

const (
	MessageTypeText   MessageType = "text"
	MessageTypeImage  MessageType = "image"
	MessageTypeSystem MessageType = "system"
)

func (t MessageType) Valid() bool {
	switch t {
	case MessageTypeText, MessageTypeImage, MessageTypeSystem:
		return true
	}
	return false
}

type Attachment struct {
	Filename string `json:"filename"`
	FileType string `json:"file_type"`
	Size     uint64 `json:"size"`
	Data     []byte `json:"data"`
}

// EffectiveSize is the larger of the declared and the actual payload size.
func (a Attachment) EffectiveSize() uint64 {
	if n := uint64(len(a.Data)); n > a.Size {
		return n
	}
	return a.Size
}

type Message struct {
	bun.BaseModel `bun:"table:messages"`

	// Drawn from message_id_seq, shared with encrypted messages
	ID uint64 `bun:",pk"`

	// nil = no channel
	ChannelID *uint64 `bun:",nullzero"`
	ReplyTo   *uint64 `bun:",nullzero"`

	Author      identity.Principal `bun:",notnull"`
	Content     string             `bun:",notnull"`
	Timestamp   int64              `bun:",notnull"` // Unix nanoseconds
	MessageType MessageType        `bun:",notnull,default:'text'"`

	Attachments []Attachment `bun:",type:jsonb,notnull,default:'[]'"`
}

func (m *Message) Clone() *Message {
	cp := *m
	cp.ChannelID = cloneID(m.ChannelID)
	cp.ReplyTo = cloneID(m.ReplyTo)
	cp.Attachments = CloneAttachments(m.Attachments)
	return &cp
}

func CloneAttachments(in []Attachment) []Attachment {
	out := make([]Attachment, len(in))
	for i, a := range in {
		out[i] = a
		out[i].Data = append([]byte(nil), a.Data...)
	}
	return out
}

func cloneID(id *uint64) *uint64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
