package repository

import (
	"context"

	"jobportal-subscription/internal/domain/model"
)

type UserRepository interface {
	Save(ctx context.Context, tx Tx, u *model.User) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.User, error)
	FindByEmail(ctx context.Context, tx Tx, email string) (*model.User, error)
	SetActiveFlag(ctx context.Context, tx Tx, userID string, active bool) error
	CountUsers(ctx context.Context, tx Tx) (int, error)
}
