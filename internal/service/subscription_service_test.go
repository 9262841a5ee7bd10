package service

import (
	"context"
	"strings"
	"testing"

	"lms/internal/apperr"
	"lms/internal/model"

	"github.com/rs/zerolog"
)

// fakeSubscriptionRepo keeps one subscription row per user, like the real
// table's user_id primary key.
type fakeSubscriptionRepo struct {
	subs     map[string]*model.Subscription
	payments []model.Payment
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{subs: make(map[string]*model.Subscription)}
}

func (f *fakeSubscriptionRepo) GetSubscription(ctx context.Context, userID string) (*model.Subscription, error) {
	s, ok := f.subs[userID]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSubscriptionRepo) UpsertSubscription(ctx context.Context, userID, subscriptionID string, status model.SubscriptionStatus) (*model.Subscription, error) {
	s := &model.Subscription{UserID: userID, SubscriptionID: subscriptionID, Status: status}
	f.subs[userID] = s
	cp := *s
	return &cp, nil
}

func (f *fakeSubscriptionRepo) SetStatus(ctx context.Context, userID string, status model.SubscriptionStatus) (*model.Subscription, error) {
	s, ok := f.subs[userID]
	if !ok {
		return nil, nil
	}
	s.Status = status
	cp := *s
	return &cp, nil
}

func (f *fakeSubscriptionRepo) RecordPayment(ctx context.Context, p *model.Payment) error {
	p.ID = "payment-row"
	f.payments = append(f.payments, *p)
	return nil
}

func (f *fakeSubscriptionRepo) ListPayments(ctx context.Context) ([]model.Payment, error) {
	out := []model.Payment{}
	out = append(out, f.payments...)
	return out, nil
}

func TestSubscribeActivatesAndRecordsPayment(t *testing.T) {
	repo := newFakeSubscriptionRepo()
	svc := NewSubscriptionService(repo, zerolog.Nop())

	sub, err := svc.Subscribe(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Subscribe returned error: %v", err)
	}
	if sub.Status != model.SubscriptionActive {
		t.Errorf("got status %q, want active", sub.Status)
	}
	if !strings.HasPrefix(sub.SubscriptionID, "sub_") {
		t.Errorf("got subscription id %q", sub.SubscriptionID)
	}
	if len(repo.payments) != 1 {
		t.Fatalf("got %d payment records, want 1", len(repo.payments))
	}
	p := repo.payments[0]
	if p.UserID != "user-1" || p.SubscriptionID != sub.SubscriptionID {
		t.Errorf("payment %+v does not reference the subscription", p)
	}
	if !strings.HasPrefix(p.PaymentID, "pay_") {
		t.Errorf("got payment id %q", p.PaymentID)
	}
}

func TestSubscribeAfterCancelReactivates(t *testing.T) {
	repo := newFakeSubscriptionRepo()
	svc := NewSubscriptionService(repo, zerolog.Nop())

	if _, err := svc.Subscribe(context.Background(), "user-1"); err != nil {
		t.Fatalf("Subscribe returned error: %v", err)
	}
	if _, err := svc.Cancel(context.Background(), "user-1"); err != nil {
		t.Fatalf("Cancel returned error: %v", err)
	}

	sub, err := svc.Subscribe(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("resubscribe returned error: %v", err)
	}
	if sub.Status != model.SubscriptionActive {
		t.Errorf("got status %q after resubscribe, want active", sub.Status)
	}
	if len(repo.payments) != 2 {
		t.Errorf("got %d payment records, want 2", len(repo.payments))
	}
}

func TestCancelWithoutSubscriptionIsNotFound(t *testing.T) {
	svc := NewSubscriptionService(newFakeSubscriptionRepo(), zerolog.Nop())

	_, err := svc.Cancel(context.Background(), "user-1")
	if apperr.KindOf(err) != apperr.NotFound {
		t.Fatalf("got %v, want not found", err)
	}
}

// fakeUserRepo backs the profile lookups.
type fakeUserRepo struct {
	users map[string]*model.User
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, u *model.User) error {
	f.users[u.UserID] = u
	return nil
}

func (f *fakeUserRepo) GetUserByID(ctx context.Context, userID string) (*model.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func TestGetProfileAttachesSubscriptionStatus(t *testing.T) {
	userRepo := &fakeUserRepo{users: map[string]*model.User{
		"user-1": {UserID: "user-1", Name: "Ada", Email: "ada@example.com", Role: model.RoleLearner},
	}}
	subRepo := newFakeSubscriptionRepo()
	svc := NewUserService(userRepo, subRepo, zerolog.Nop())

	// No subscription row reads as inactive.
	profile, err := svc.GetProfile(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetProfile returned error: %v", err)
	}
	if profile.SubscriptionStatus != model.SubscriptionInactive {
		t.Errorf("got status %q, want inactive", profile.SubscriptionStatus)
	}

	if _, err := subRepo.UpsertSubscription(context.Background(), "user-1", "sub-1", model.SubscriptionActive); err != nil {
		t.Fatalf("failed to seed subscription: %v", err)
	}
	profile, err = svc.GetProfile(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetProfile returned error: %v", err)
	}
	if profile.SubscriptionStatus != model.SubscriptionActive {
		t.Errorf("got status %q, want active", profile.SubscriptionStatus)
	}
	if profile.Name != "Ada" {
		t.Errorf("got profile %+v", profile)
	}
}

func TestGetProfileUnknownUserIsNotFound(t *testing.T) {
	userRepo := &fakeUserRepo{users: map[string]*model.User{}}
	svc := NewUserService(userRepo, newFakeSubscriptionRepo(), zerolog.Nop())

	_, err := svc.GetProfile(context.Background(), "missing")
	if apperr.KindOf(err) != apperr.NotFound {
		t.Fatalf("got %v, want not found", err)
	}
}
