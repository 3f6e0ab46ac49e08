package channel

import (
	"chatz/internal/channel/model"
	"chatz/pkg/identity"
)

// Input commands
type CreateChannelCommand struct {
	Name        string
	Description *string
}

type CreateEncryptedChannelCommand struct {
	Name        string
	Description *string
	Password    *string

	// PaymentAuthorized is decided by the payment collaborator upstream
	PaymentAuthorized bool
}

// Output DTOs
type ChannelDTO struct {
	ID                  uint64               `json:"id"`
	Name                string               `json:"name"`
	Description         *string              `json:"description"`
	CreatedBy           identity.Principal   `json:"created_by"`
	CreatedAt           int64                `json:"created_at"`
	Members             []identity.Principal `json:"members"`
	MessageCount        uint64               `json:"message_count"`
	LastMessageAt       *int64               `json:"last_message_at"`
	IsEncrypted         bool                 `json:"is_encrypted"`
	IsPasswordProtected bool                 `json:"is_password_protected"`
}

func ToDTO(c *model.Channel) *ChannelDTO {
	members := make([]identity.Principal, len(c.Members))
	copy(members, c.Members)
	return &ChannelDTO{
		ID:                  c.ID,
		Name:                c.Name,
		Description:         c.Description,
		CreatedBy:           c.CreatedBy,
		CreatedAt:           c.CreatedAt,
		Members:             members,
		MessageCount:        c.MessageCount,
		LastMessageAt:       c.LastMessageAt,
		IsEncrypted:         c.IsEncrypted,
		IsPasswordProtected: c.IsPasswordProtected(),
	}
}
