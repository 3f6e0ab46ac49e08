package user

import (
	models "chatz/internal/user/model"
	"chatz/pkg/identity"
)

// NOTE: commands travel from handler to usecase
// Note: DTO travels from usecase to handler
// Input commands
type RegisterCommand struct {
	Username string
	Bio      *string
}

// UpdateCommand only overwrites the fields that are non-nil. An empty
// bio or avatar clears it.
type UpdateCommand struct {
	Username  *string
	Bio       *string
	AvatarURL *string
}

// Output DTOs
type UserDTO struct {
	Principal     identity.Principal `json:"principal"`
	Username      string             `json:"username"`
	Bio           *string            `json:"bio"`
	AvatarURL     *string            `json:"avatar_url"`
	JoinedAt      int64              `json:"joined_at"`
	LastActive    int64              `json:"last_active"`
	MessageCount  uint64             `json:"message_count"`
	EncryptedKeys map[string]string  `json:"encrypted_keys,omitempty"`
}

func ToDTO(u *models.User) *UserDTO {
	keys := make(map[string]string, len(u.EncryptedKeys))
	for k, v := range u.EncryptedKeys {
		keys[k] = v
	}
	return &UserDTO{
		Principal:     u.Principal,
		Username:      u.Username,
		Bio:           u.Bio,
		AvatarURL:     u.AvatarURL,
		JoinedAt:      u.JoinedAt,
		LastActive:    u.LastActive,
		MessageCount:  u.MessageCount,
		EncryptedKeys: keys,
	}
}

// ToPublicDTO is the profile other users see. Key material stays with its
// owner.
func ToPublicDTO(u *models.User) *UserDTO {
	dto := ToDTO(u)
	dto.EncryptedKeys = nil
	return dto
}
