package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"lms/internal/model"
)

// SubscriptionRepository defines methods for accessing subscription and
// payment data.
type SubscriptionRepository interface {
	GetSubscription(ctx context.Context, userID string) (*model.Subscription, error)
	// UpsertSubscription creates or reactivates the user's subscription.
	UpsertSubscription(ctx context.Context, userID, subscriptionID string, status model.SubscriptionStatus) (*model.Subscription, error)
	// SetStatus transitions an existing subscription; nil if the user has none.
	SetStatus(ctx context.Context, userID string, status model.SubscriptionStatus) (*model.Subscription, error)
	RecordPayment(ctx context.Context, p *model.Payment) error
	ListPayments(ctx context.Context) ([]model.Payment, error)
}

type subscriptionRepo struct {
	db *sql.DB
}

// NewSubscriptionRepo creates a new SubscriptionRepository.
func NewSubscriptionRepo(db *sql.DB) SubscriptionRepository {
	return &subscriptionRepo{db: db}
}

// GetSubscription returns the user's subscription regardless of status.
func (r *subscriptionRepo) GetSubscription(ctx context.Context, userID string) (*model.Subscription, error) {
	const q = `
        SELECT user_id, subscription_id, status, created_at, updated_at
        FROM user_subscriptions
        WHERE user_id = $1
    `
	var s model.Subscription
	err := r.db.QueryRowContext(ctx, q, userID).Scan(
		&s.UserID,
		&s.SubscriptionID,
		&s.Status,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch subscription for user %s: %w", userID, err)
	}
	return &s, nil
}

// UpsertSubscription creates the subscription row or replaces its provider
// reference and status for an existing one.
func (r *subscriptionRepo) UpsertSubscription(ctx context.Context, userID, subscriptionID string, status model.SubscriptionStatus) (*model.Subscription, error) {
	const q = `
        INSERT INTO user_subscriptions (user_id, subscription_id, status, created_at, updated_at)
        VALUES ($1, $2, $3, NOW(), NOW())
        ON CONFLICT (user_id) DO UPDATE
        SET subscription_id = EXCLUDED.subscription_id,
            status = EXCLUDED.status,
            updated_at = NOW()
        RETURNING user_id, subscription_id, status, created_at, updated_at
    `
	var s model.Subscription
	err := r.db.QueryRowContext(ctx, q, userID, subscriptionID, status).Scan(
		&s.UserID,
		&s.SubscriptionID,
		&s.Status,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert subscription for user %s: %w", userID, err)
	}
	return &s, nil
}

// SetStatus transitions the subscription status for a user.
func (r *subscriptionRepo) SetStatus(ctx context.Context, userID string, status model.SubscriptionStatus) (*model.Subscription, error) {
	const q = `
        UPDATE user_subscriptions
        SET status = $2, updated_at = NOW()
        WHERE user_id = $1
        RETURNING user_id, subscription_id, status, created_at, updated_at
    `
	var s model.Subscription
	err := r.db.QueryRowContext(ctx, q, userID, status).Scan(
		&s.UserID,
		&s.SubscriptionID,
		&s.Status,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("set subscription status for user %s: %w", userID, err)
	}
	return &s, nil
}

// RecordPayment inserts a payment event row.
func (r *subscriptionRepo) RecordPayment(ctx context.Context, p *model.Payment) error {
	const q = `
        INSERT INTO payments (user_id, payment_id, subscription_id)
        VALUES ($1, $2, $3)
        RETURNING id, created_at
    `
	if err := r.db.QueryRowContext(ctx, q, p.UserID, p.PaymentID, p.SubscriptionID).
		Scan(&p.ID, &p.CreatedAt); err != nil {
		return fmt.Errorf("record payment for user %s: %w", p.UserID, err)
	}
	return nil
}

// ListPayments returns all payment records, newest first.
func (r *subscriptionRepo) ListPayments(ctx context.Context) ([]model.Payment, error) {
	const q = `
        SELECT id, user_id, payment_id, subscription_id, created_at
        FROM payments
        ORDER BY created_at DESC
    `
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query payments: %w", err)
	}
	defer rows.Close()

	var payments []model.Payment
	for rows.Next() {
		var p model.Payment
		if err := rows.Scan(&p.ID, &p.UserID, &p.PaymentID, &p.SubscriptionID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment row: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	if len(payments) == 0 {
		return []model.Payment{}, nil
	}
	return payments, nil
}
