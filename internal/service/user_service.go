package service

import (
	"context"

	"lms/internal/apperr"
	"lms/internal/model"
	"lms/internal/repository"

	"github.com/rs/zerolog"
)

// Profile is a user together with their current subscription status.
type Profile struct {
	model.User
	SubscriptionStatus model.SubscriptionStatus `json:"subscription_status"`
}

type UserService interface {
	GetProfile(ctx context.Context, userID string) (*Profile, error)
}

type userService struct {
	userRepo repository.UserRepository
	subRepo  repository.SubscriptionRepository
	logger   zerolog.Logger
}

func NewUserService(userRepo repository.UserRepository, subRepo repository.SubscriptionRepository, logger zerolog.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		subRepo:  subRepo,
		logger:   logger.With().Str("service", "UserService").Logger(),
	}
}

// GetProfile returns the user's profile with subscription status attached.
// Users without a subscription row read as inactive.
func (s *userService) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	u, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to get user")
		return nil, err
	}
	if u == nil {
		return nil, apperr.New(apperr.NotFound, "user does not exist")
	}

	profile := &Profile{User: *u, SubscriptionStatus: model.SubscriptionInactive}
	sub, err := s.subRepo.GetSubscription(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to fetch subscription")
		return nil, err
	}
	if sub != nil {
		profile.SubscriptionStatus = sub.Status
	}
	return profile, nil
}
