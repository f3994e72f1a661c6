package usecase

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"jobportal-subscription/internal/domain"
	"jobportal-subscription/internal/domain/model"
	"jobportal-subscription/internal/domain/ports/repository"
)

// Compile-time check
var _ PlanUseCase = (*planUC)(nil)

// PlanUseCase manages the plan catalog: public reads and admin writes.
type PlanUseCase interface {
	Get(ctx context.Context, id string) (*model.Plan, error)
	List(ctx context.Context) ([]*model.Plan, error)
	Create(ctx context.Context, id, name string, price int64, currency string, durationDays int, features []string, popular bool) (*model.Plan, error)
	Delete(ctx context.Context, id string) error
}

type planUC struct {
	plans repository.PlanRepository
	log   *zerolog.Logger
}

func NewPlanUseCase(plans repository.PlanRepository, logger *zerolog.Logger) *planUC {
	return &planUC{plans: plans, log: logger}
}

func (u *planUC) Get(ctx context.Context, id string) (*model.Plan, error) {
	plan, err := u.plans.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrPlanNotFound
		}
		return nil, err
	}
	return plan, nil
}

func (u *planUC) List(ctx context.Context) ([]*model.Plan, error) {
	return u.plans.ListAll(ctx, repository.NoTX)
}

func (u *planUC) Create(ctx context.Context, id, name string, price int64, currency string, durationDays int, features []string, popular bool) (*model.Plan, error) {
	plan, err := model.NewPlan(id, name, price, currency, durationDays, features, popular)
	if err != nil {
		return nil, err
	}
	if err := u.plans.Save(ctx, repository.NoTX, plan); err != nil {
		return nil, err
	}
	u.log.Info().Str("plan_id", plan.ID).Msg("plan saved")
	return plan, nil
}

func (u *planUC) Delete(ctx context.Context, id string) error {
	return u.plans.Delete(ctx, repository.NoTX, id)
}
