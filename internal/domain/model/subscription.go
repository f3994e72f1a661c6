package model

import (
	"time"

	"jobportal-subscription/internal/domain"
)

type SubscriptionStatus string

const (
	SubscriptionStatusPending   SubscriptionStatus = "pending"
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

// Subscription is a user's individual subscription instance. Amount, Currency
// and Features are snapshotted from the plan at creation time so later catalog
// edits never retroactively change an existing subscription.
type Subscription struct {
	ID        string
	UserID    *string // nil for guest (email-only) subscriptions
	Email     string
	FullName  string
	PlanID    string
	Amount    int64
	Currency  string
	Status    SubscriptionStatus
	StartDate time.Time
	EndDate   time.Time
	Features  []string
	PaymentID string
	CreatedAt time.Time
}

// NewSubscription creates an active subscription starting now, snapshotting the plan.
func NewSubscription(id, email, fullName string, plan *Plan, paymentID string) (*Subscription, error) {
	if id == "" || email == "" || plan.IsZero() {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &Subscription{
		ID:        id,
		Email:     email,
		FullName:  fullName,
		PlanID:    plan.ID,
		Amount:    plan.Price,
		Currency:  plan.Currency,
		Status:    SubscriptionStatusActive,
		StartDate: now,
		EndDate:   now.AddDate(0, 0, plan.DurationDays),
		Features:  append([]string(nil), plan.Features...),
		PaymentID: paymentID,
		CreatedAt: now,
	}, nil
}

// NewPendingSubscription creates a pending subscription for the order/verify
// flow. StartDate and EndDate are provisional and recomputed on activation.
func NewPendingSubscription(id, email, fullName string, plan *Plan, paymentID string) (*Subscription, error) {
	s, err := NewSubscription(id, email, fullName, plan, paymentID)
	if err != nil {
		return nil, err
	}
	s.Status = SubscriptionStatusPending
	return s, nil
}

// ExpiredAt reports whether the subscription's validity window has passed.
func (s *Subscription) ExpiredAt(now time.Time) bool {
	return !s.EndDate.After(now)
}

// DaysRemaining returns ceil((EndDate-now)/24h). Zero or negative means expired.
func (s *Subscription) DaysRemaining(now time.Time) int {
	left := s.EndDate.Sub(now)
	if left <= 0 {
		return 0
	}
	days := int(left / (24 * time.Hour))
	if left%(24*time.Hour) != 0 {
		days++
	}
	return days
}

// Activate moves a pending subscription to active, restarting its validity
// window from now. The window length was snapshotted from the plan at order
// time, so a catalog edit between order and verification changes nothing.
func (s *Subscription) Activate(now time.Time) error {
	if s.Status != SubscriptionStatusPending {
		return domain.ErrInvalidArgument
	}
	window := s.EndDate.Sub(s.StartDate)
	s.Status = SubscriptionStatusActive
	s.StartDate = now
	s.EndDate = now.Add(window)
	return nil
}
