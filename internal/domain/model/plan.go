package model

import (
	"time"

	"jobportal-subscription/internal/domain"
)

// Plan represents a purchasable subscription plan with a fixed duration and
// price. Price is a minor-unit-free integer amount in Currency.
type Plan struct {
	ID           string
	Name         string
	Price        int64
	Currency     string
	DurationDays int
	Features     []string
	Popular      bool
	CreatedAt    time.Time
}

func (p *Plan) IsZero() bool { return p == nil || p.ID == "" }

// NewPlan validates and constructs a plan.
func NewPlan(id, name string, price int64, currency string, durationDays int, features []string, popular bool) (*Plan, error) {
	if id == "" || name == "" || currency == "" || durationDays < 1 || price <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	return &Plan{
		ID:           id,
		Name:         name,
		Price:        price,
		Currency:     currency,
		DurationDays: durationDays,
		Features:     features,
		Popular:      popular,
		CreatedAt:    time.Now(),
	}, nil
}
