package dto

import (
	"time"

	"lms/internal/model"
)

// SubscriptionResponseDTO is returned after subscribe/unsubscribe calls.
type SubscriptionResponseDTO struct {
	UserID         string    `json:"user_id"`
	SubscriptionID string    `json:"subscription_id"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// PaymentDTO is a single payment record in the admin listing.
type PaymentDTO struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	PaymentID      string    `json:"payment_id"`
	SubscriptionID string    `json:"subscription_id"`
	CreatedAt      time.Time `json:"created_at"`
}

// SubscriptionFromModel maps a subscription to its response shape.
func SubscriptionFromModel(s *model.Subscription) SubscriptionResponseDTO {
	return SubscriptionResponseDTO{
		UserID:         s.UserID,
		SubscriptionID: s.SubscriptionID,
		Status:         string(s.Status),
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

// PaymentsFromModel maps payment records for the admin listing.
func PaymentsFromModel(payments []model.Payment) []PaymentDTO {
	out := make([]PaymentDTO, 0, len(payments))
	for _, p := range payments {
		out = append(out, PaymentDTO{
			ID:             p.ID,
			UserID:         p.UserID,
			PaymentID:      p.PaymentID,
			SubscriptionID: p.SubscriptionID,
			CreatedAt:      p.CreatedAt,
		})
	}
	return out
}
