package dto

import (
	"time"

	"lms/internal/model"
	"lms/internal/service"
)

// UserResponseDTO is returned for the authenticated user's profile.
type UserResponseDTO struct {
	UserID             string     `json:"user_id"`
	Name               string     `json:"name"`
	Email              string     `json:"email"`
	Role               model.Role `json:"role"`
	AvatarURL          string     `json:"avatar_url"`
	SubscriptionStatus string     `json:"subscription_status"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// UserFromProfile maps a service profile to its response shape.
func UserFromProfile(p *service.Profile) UserResponseDTO {
	return UserResponseDTO{
		UserID:             p.UserID,
		Name:               p.Name,
		Email:              p.Email,
		Role:               p.Role,
		AvatarURL:          p.AvatarURL,
		SubscriptionStatus: string(p.SubscriptionStatus),
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}
