package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"jobportal-subscription/internal/domain"
	"jobportal-subscription/internal/domain/model"
	"jobportal-subscription/internal/domain/ports/repository"
	"jobportal-subscription/internal/infra/logging"
	"jobportal-subscription/internal/infra/metrics"
)

// Compile-time check
var _ EntitlementUseCase = (*entitlementUC)(nil)

// Entitlement is the result of a positive entitlement check.
type Entitlement struct {
	Subscription  *model.Subscription
	DaysRemaining int
}

// EntitlementUseCase decides whether an identity currently has paid access.
//
// Expiry is lazy: an active subscription whose end date has passed is
// transitioned to expired on the read that observes it. There is no
// background sweep, so a record that is never queried stays stale until its
// next read. That is an accepted eventual-consistency property, not a bug.
type EntitlementUseCase interface {
	// GetActiveSubscription returns (nil, nil) when the identity has no
	// current entitlement. Pending and expired records never count.
	GetActiveSubscription(ctx context.Context, identity model.Identity) (*Entitlement, error)

	// History returns every subscription ever recorded for an email,
	// newest first. Historical records are kept verbatim; only the single
	// active one is subject to lazy expiry.
	History(ctx context.Context, email string) ([]*model.Subscription, error)
}

type entitlementUC struct {
	subs  repository.SubscriptionRepository
	users UserUseCase
	tm    repository.TransactionManager
	log   *zerolog.Logger
}

func NewEntitlementUseCase(subs repository.SubscriptionRepository, users UserUseCase, tm repository.TransactionManager, logger *zerolog.Logger) *entitlementUC {
	return &entitlementUC{subs: subs, users: users, tm: tm, log: logger}
}

func (u *entitlementUC) GetActiveSubscription(ctx context.Context, identity model.Identity) (*Entitlement, error) {
	defer logging.TraceDuration(u.log, "EntitlementUC.GetActiveSubscription")()

	if err := identity.Validate(); err != nil {
		return nil, domain.ErrValidation
	}

	var sub *model.Subscription
	var err error
	if identity.UserID != "" {
		sub, err = u.subs.FindActiveByUserID(ctx, repository.NoTX, identity.UserID)
	} else {
		sub, err = u.subs.FindActiveByEmail(ctx, repository.NoTX, identity.Email)
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			metrics.IncEntitlementCheck("none")
			return nil, nil
		}
		return nil, err
	}

	now := time.Now()
	if sub.ExpiredAt(now) {
		u.expire(ctx, sub)
		metrics.IncSubscriptionsExpired()
		metrics.IncEntitlementCheck("expired_on_read")
		return nil, nil
	}

	metrics.IncEntitlementCheck("active")
	return &Entitlement{Subscription: sub, DaysRemaining: sub.DaysRemaining(now)}, nil
}

func (u *entitlementUC) History(ctx context.Context, email string) ([]*model.Subscription, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, domain.ErrValidation
	}
	return u.subs.ListByEmail(ctx, repository.NoTX, email)
}

// expire persists the lazy active->expired transition and clears the
// denormalized user flag. Best effort: a failed write is logged, the caller
// still gets the already-known "no entitlement" answer.
func (u *entitlementUC) expire(ctx context.Context, sub *model.Subscription) {
	err := u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		if err := u.subs.MarkExpired(ctx, tx, sub.ID); err != nil {
			return err
		}
		return u.clearUserFlag(ctx, tx, sub)
	})
	if err != nil {
		u.log.Warn().Err(err).Str("subscription_id", sub.ID).Msg("failed to persist expiry transition")
	}
}

func (u *entitlementUC) clearUserFlag(ctx context.Context, tx repository.Tx, sub *model.Subscription) error {
	if sub.UserID != nil {
		return u.users.SetHasActiveSubscription(ctx, tx, *sub.UserID, false)
	}
	return u.users.ClearActiveFlagByEmail(ctx, tx, sub.Email)
}
