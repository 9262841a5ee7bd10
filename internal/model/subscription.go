package model

import "time"

// SubscriptionStatus is the lifecycle state of a user's subscription.
type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionInactive  SubscriptionStatus = "inactive"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

// Subscription is a user's payment subscription. Gateway signature
// verification is handled by the payment provider, not here; the record
// tracks the provider references and the status the access gate reads.
type Subscription struct {
	UserID         string             `db:"user_id" json:"user_id"`
	SubscriptionID string             `db:"subscription_id" json:"subscription_id"`
	Status         SubscriptionStatus `db:"status" json:"status"`
	CreatedAt      time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `db:"updated_at" json:"updated_at"`
}

// Payment is a recorded payment event against a subscription.
type Payment struct {
	ID             string    `db:"id" json:"id"`
	UserID         string    `db:"user_id" json:"user_id"`
	PaymentID      string    `db:"payment_id" json:"payment_id"`
	SubscriptionID string    `db:"subscription_id" json:"subscription_id"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
