package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"jobportal-subscription/internal/domain"
	"jobportal-subscription/internal/domain/model"
	"jobportal-subscription/internal/domain/ports/repository"
	"jobportal-subscription/internal/infra/logging"
)

// Compile-time check
var _ UserUseCase = (*userUC)(nil)

// UserUseCase is the user-directory collaborator contract. The checkout and
// entitlement flows delegate all account resolution and flag writes here so
// there is a single find-or-create path.
type UserUseCase interface {
	// FindOrCreate resolves or creates the account for an email. Called with
	// NoTX it opens its own serializable transaction; called with a live tx
	// it joins the caller's transaction instead.
	FindOrCreate(ctx context.Context, tx repository.Tx, email, fullName string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	SetHasActiveSubscription(ctx context.Context, tx repository.Tx, userID string, active bool) error
	// ClearActiveFlagByEmail clears the denormalized flag for the account
	// behind an email. A guest record with no account is a no-op.
	ClearActiveFlagByEmail(ctx context.Context, tx repository.Tx, email string) error
	Count(ctx context.Context) (int, error)
}

type userUC struct {
	users repository.UserRepository
	tm    repository.TransactionManager
	log   *zerolog.Logger
}

func NewUserUseCase(users repository.UserRepository, tm repository.TransactionManager, logger *zerolog.Logger) *userUC {
	return &userUC{users: users, tm: tm, log: logger}
}

func (u *userUC) FindOrCreate(ctx context.Context, tx repository.Tx, email, fullName string) (*model.User, error) {
	defer logging.TraceDuration(u.log, "UserUC.FindOrCreate")()

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, domain.ErrValidation
	}

	if tx != repository.NoTX {
		return u.findOrCreate(ctx, tx, email, fullName)
	}

	var user *model.User
	// The find and the save are one atomic operation so two concurrent
	// checkouts for a fresh email cannot both create the account.
	txOpts := pgx.TxOptions{IsoLevel: pgx.Serializable}
	err := u.tm.WithTx(ctx, txOpts, func(ctx context.Context, tx repository.Tx) error {
		usr, err := u.findOrCreate(ctx, tx, email, fullName)
		if err != nil {
			return err
		}
		user = usr
		return nil
	})
	return user, err
}

func (u *userUC) findOrCreate(ctx context.Context, tx repository.Tx, email, fullName string) (*model.User, error) {
	usr, err := u.users.FindByEmail(ctx, tx, email)
	if err == nil {
		usr.Touch()
		if fullName != "" && usr.FullName == "" {
			usr.FullName = fullName
		}
		if err := u.users.Save(ctx, tx, usr); err != nil {
			return nil, err
		}
		return usr, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	nu, err := model.NewUser("", email, fullName)
	if err != nil {
		return nil, err
	}
	if err := u.users.Save(ctx, tx, nu); err != nil {
		return nil, err
	}
	return nu, nil
}

func (u *userUC) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return u.users.FindByEmail(ctx, repository.NoTX, strings.ToLower(strings.TrimSpace(email)))
}

func (u *userUC) SetHasActiveSubscription(ctx context.Context, tx repository.Tx, userID string, active bool) error {
	return u.users.SetActiveFlag(ctx, tx, userID, active)
}

func (u *userUC) ClearActiveFlagByEmail(ctx context.Context, tx repository.Tx, email string) error {
	usr, err := u.users.FindByEmail(ctx, tx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	return u.users.SetActiveFlag(ctx, tx, usr.ID, false)
}

func (u *userUC) Count(ctx context.Context) (int, error) {
	return u.users.CountUsers(ctx, repository.NoTX)
}
