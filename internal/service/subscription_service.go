package service

import (
	"context"
	"fmt"

	"lms/internal/apperr"
	"lms/internal/model"
	"lms/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SubscriptionService defines business logic methods for subscriptions and
// payment records. Gateway signature verification happens at the payment
// provider; this layer only tracks the resulting state.
type SubscriptionService interface {
	Subscribe(ctx context.Context, userID string) (*model.Subscription, error)
	Cancel(ctx context.Context, userID string) (*model.Subscription, error)
	ListPayments(ctx context.Context) ([]model.Payment, error)
}

type subscriptionService struct {
	repo   repository.SubscriptionRepository
	logger zerolog.Logger
}

// NewSubscriptionService creates a new SubscriptionService with a scoped logger.
func NewSubscriptionService(repo repository.SubscriptionRepository, logger zerolog.Logger) SubscriptionService {
	return &subscriptionService{
		repo:   repo,
		logger: logger.With().Str("service", "SubscriptionService").Logger(),
	}
}

// Subscribe activates the user's subscription and records the payment event.
func (s *subscriptionService) Subscribe(ctx context.Context, userID string) (*model.Subscription, error) {
	subscriptionID := fmt.Sprintf("sub_%s", uuid.NewString())
	sub, err := s.repo.UpsertSubscription(ctx, userID, subscriptionID, model.SubscriptionActive)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to activate subscription")
		return nil, err
	}

	payment := &model.Payment{
		UserID:         userID,
		PaymentID:      fmt.Sprintf("pay_%s", uuid.NewString()),
		SubscriptionID: sub.SubscriptionID,
	}
	if err := s.repo.RecordPayment(ctx, payment); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to record payment")
		return nil, err
	}
	return sub, nil
}

// Cancel marks the user's subscription cancelled.
func (s *subscriptionService) Cancel(ctx context.Context, userID string) (*model.Subscription, error) {
	sub, err := s.repo.SetStatus(ctx, userID, model.SubscriptionCancelled)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to cancel subscription")
		return nil, err
	}
	if sub == nil {
		return nil, apperr.New(apperr.NotFound, "subscription does not exist")
	}
	return sub, nil
}

// ListPayments returns all payment records.
func (s *subscriptionService) ListPayments(ctx context.Context) ([]model.Payment, error) {
	payments, err := s.repo.ListPayments(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list payments")
		return nil, err
	}
	return payments, nil
}
