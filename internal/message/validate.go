package message

import (
	"strings"

	"chatz/config"
	"chatz/internal/message/model"
	"chatz/pkg/errors"
)

// ValidatePayload applies the content, attachment and type limits shared
// by plaintext and encrypted messages. An empty type defaults to text.
func ValidatePayload(limits config.Limits, content string, msgType model.MessageType, attachments []model.Attachment) (model.MessageType, error) {
	if strings.TrimSpace(content) == "" {
		return "", errors.ErrEmptyContent
	}
	if len(content) > limits.MaxContentBytes {
		return "", errors.ErrMessageTooLarge
	}

	limit := uint64(limits.MaxAttachmentBytes)
	var total uint64
	for _, a := range attachments {
		size := a.EffectiveSize()
		if size > limit {
			return "", errors.ErrAttachmentTooLarge
		}
		total += size
	}
	if total > limit {
		return "", errors.ErrAttachmentTooLarge
	}

	if msgType == "" {
		msgType = model.MessageTypeText
	}
	if !msgType.Valid() {
		return "", errors.ErrInvalidMessageType
	}
	return msgType, nil
}
