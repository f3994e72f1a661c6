package usecase

import (
	"context"

	"jobportal-subscription/internal/domain/model"
	"jobportal-subscription/internal/domain/ports/repository"
	"jobportal-subscription/internal/infra/metrics"
)

// Compile-time check
var _ StatsUseCase = (*statsUC)(nil)

// StatsUseCase aggregates the numbers shown on the admin dashboard.
type StatsUseCase interface {
	Totals(ctx context.Context) (users int, byStatus map[model.SubscriptionStatus]int, err error)
	Revenue(ctx context.Context) (week, month, year int64, err error)
}

type statsUC struct {
	users    repository.UserRepository
	subs     repository.SubscriptionRepository
	payments repository.PaymentRepository
}

func NewStatsUseCase(users repository.UserRepository, subs repository.SubscriptionRepository, payments repository.PaymentRepository) *statsUC {
	return &statsUC{users: users, subs: subs, payments: payments}
}

func (u *statsUC) Totals(ctx context.Context) (int, map[model.SubscriptionStatus]int, error) {
	users, err := u.users.CountUsers(ctx, repository.NoTX)
	if err != nil {
		return 0, nil, err
	}
	byStatus, err := u.subs.CountByStatus(ctx, repository.NoTX)
	if err != nil {
		return 0, nil, err
	}
	metrics.SetSubscriptionsTotal(byStatus)
	return users, byStatus, nil
}

func (u *statsUC) Revenue(ctx context.Context) (int64, int64, int64, error) {
	week, err := u.payments.SumByPeriod(ctx, repository.NoTX, "week")
	if err != nil {
		return 0, 0, 0, err
	}
	month, err := u.payments.SumByPeriod(ctx, repository.NoTX, "month")
	if err != nil {
		return 0, 0, 0, err
	}
	year, err := u.payments.SumByPeriod(ctx, repository.NoTX, "year")
	if err != nil {
		return 0, 0, 0, err
	}
	return week, month, year, nil
}
