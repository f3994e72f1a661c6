package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"jobportal-subscription/internal/domain"
	"jobportal-subscription/internal/domain/model"
	"jobportal-subscription/internal/domain/ports/adapter"
	"jobportal-subscription/internal/domain/ports/repository"
	"jobportal-subscription/internal/infra/logging"
	"jobportal-subscription/internal/infra/metrics"
)

// Compile-time check
var _ SubscriptionUseCase = (*subscriptionUC)(nil)

// Locker serializes subscription creation per email. Satisfied by the redis
// SETNX locker.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (token string, err error)
	Unlock(ctx context.Context, key, token string) error
}

type CreateSubscriptionRequest struct {
	Email         string
	FullName      string
	PlanID        string // empty means the configured default plan
	PaymentMethod string
}

type CreateOrderRequest struct {
	Email    string
	FullName string
	PlanID   string
	UserID   string // optional; guests order by email alone
}

type VerifyPaymentRequest struct {
	OrderRef          string
	ProviderPaymentID string
	Signature         string
}

// CheckoutResult pairs the records a completed flow produced, for receipt
// and email generation by the caller.
type CheckoutResult struct {
	Subscription *model.Subscription
	Payment      *model.Payment
}

// OrderResult is the first half of the two-phase flow.
type OrderResult struct {
	OrderRef       string
	Amount         int64
	Currency       string
	PaymentID      string
	SubscriptionID string
}

// SubscriptionUseCase orchestrates plan selection, payment, subscription
// creation/activation and the denormalized user flag.
type SubscriptionUseCase interface {
	// CreateSubscription runs the one-shot purchase flow. On a declined
	// charge only the failed payment is persisted and ErrPaymentDeclined is
	// returned.
	CreateSubscription(ctx context.Context, req CreateSubscriptionRequest) (*CheckoutResult, error)

	// CreateOrder opens the two-phase flow: a pending payment plus a pending
	// subscription, both inert until VerifyPayment.
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderResult, error)

	// VerifyPayment checks the provider signature over the order and, only
	// on a valid signature, completes the payment and activates the pending
	// subscription. A tampered signature is fatal and activates nothing.
	VerifyPayment(ctx context.Context, req VerifyPaymentRequest) (*CheckoutResult, error)

	// Cancel transitions the identity's active subscription to cancelled.
	Cancel(ctx context.Context, identity model.Identity) error
}

type subscriptionUC struct {
	plans         repository.PlanRepository
	subs          repository.SubscriptionRepository
	payments      repository.PaymentRepository
	users         UserUseCase
	tm            repository.TransactionManager
	gateway       adapter.PaymentGateway
	mailer        adapter.EmailNotifier
	locker        Locker
	defaultPlanID string
	log           *zerolog.Logger
}

func NewSubscriptionUseCase(
	plans repository.PlanRepository,
	subs repository.SubscriptionRepository,
	payments repository.PaymentRepository,
	users UserUseCase,
	tm repository.TransactionManager,
	gateway adapter.PaymentGateway,
	mailer adapter.EmailNotifier,
	locker Locker,
	defaultPlanID string,
	logger *zerolog.Logger,
) *subscriptionUC {
	return &subscriptionUC{
		plans:         plans,
		subs:          subs,
		payments:      payments,
		users:         users,
		tm:            tm,
		gateway:       gateway,
		mailer:        mailer,
		locker:        locker,
		defaultPlanID: defaultPlanID,
		log:           logger,
	}
}

const creationLockTTL = 15 * time.Second

func (u *subscriptionUC) CreateSubscription(ctx context.Context, req CreateSubscriptionRequest) (*CheckoutResult, error) {
	defer logging.TraceDuration(u.log, "SubscriptionUC.CreateSubscription")()

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || strings.TrimSpace(req.FullName) == "" {
		return nil, domain.ErrValidation
	}

	plan, err := u.resolvePlan(ctx, req.PlanID)
	if err != nil {
		return nil, err
	}

	// Serialize creation per email; a second concurrent purchase for the same
	// address waits on or loses this lock, and the partial unique index in
	// storage backstops whatever slips through.
	token, err := u.locker.TryLock(ctx, "sub:create:"+email, creationLockTTL)
	if err != nil {
		return nil, domain.ErrStorageUnavailable
	}
	defer func() { _ = u.locker.Unlock(context.Background(), "sub:create:"+email, token) }()

	if err := u.rejectIfActive(ctx, email); err != nil {
		return nil, err
	}

	charge, err := u.gateway.Charge(ctx, adapter.ChargeRequest{
		Email:         email,
		Amount:        plan.Price,
		Currency:      plan.Currency,
		PaymentMethod: req.PaymentMethod,
		Description:   fmt.Sprintf("%s plan (%d days)", plan.Name, plan.DurationDays),
	})
	if err != nil {
		return nil, fmt.Errorf("payment gateway: %w", err)
	}

	now := time.Now()
	payment := &model.Payment{
		ID:            uuid.NewString(),
		Email:         email,
		PlanID:        plan.ID,
		Amount:        plan.Price,
		Currency:      plan.Currency,
		PaymentMethod: req.PaymentMethod,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if charge.Declined {
		payment.Status = model.PaymentStatusFailed
		if err := u.payments.Save(ctx, repository.NoTX, payment); err != nil {
			return nil, err
		}
		metrics.IncPayment(string(model.PaymentStatusFailed))
		u.log.Info().Str("email", logging.Redact(email, false)).Str("reason", charge.Reason).Msg("payment declined")
		return nil, domain.ErrPaymentDeclined
	}

	payment.Status = model.PaymentStatusCompleted
	payment.TransactionID = charge.TransactionID
	payment.PaidAt = &now

	sub, err := model.NewSubscription(uuid.NewString(), email, req.FullName, plan, payment.ID)
	if err != nil {
		return nil, err
	}

	err = u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		usr, err := u.users.FindOrCreate(ctx, tx, email, req.FullName)
		if err != nil {
			return err
		}
		sub.UserID = &usr.ID
		payment.UserID = &usr.ID
		if err := u.payments.Save(ctx, tx, payment); err != nil {
			return err
		}
		if err := u.subs.Save(ctx, tx, sub); err != nil {
			return err
		}
		return u.users.SetHasActiveSubscription(ctx, tx, usr.ID, true)
	})
	if err != nil {
		return nil, err
	}

	metrics.IncPayment(string(model.PaymentStatusCompleted))
	metrics.AddPaymentRevenue(payment.Currency, payment.Amount)
	u.sendReceipt(sub, payment)

	return &CheckoutResult{Subscription: sub, Payment: payment}, nil
}

func (u *subscriptionUC) CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderResult, error) {
	defer logging.TraceDuration(u.log, "SubscriptionUC.CreateOrder")()

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || strings.TrimSpace(req.FullName) == "" {
		return nil, domain.ErrValidation
	}
	plan, err := u.resolvePlan(ctx, req.PlanID)
	if err != nil {
		return nil, err
	}
	if err := u.rejectIfActive(ctx, email); err != nil {
		return nil, err
	}

	receipt := "rcpt_" + ulid.Make().String()
	orderRef, err := u.gateway.CreateOrder(ctx, plan.Price, plan.Currency, receipt)
	if err != nil {
		return nil, fmt.Errorf("payment gateway: %w", err)
	}

	now := time.Now()
	payment := &model.Payment{
		ID:        uuid.NewString(),
		Email:     email,
		PlanID:    plan.ID,
		Amount:    plan.Price,
		Currency:  plan.Currency,
		Status:    model.PaymentStatusPending,
		OrderRef:  orderRef,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.UserID != "" {
		payment.UserID = &req.UserID
	}

	sub, err := model.NewPendingSubscription(uuid.NewString(), email, req.FullName, plan, payment.ID)
	if err != nil {
		return nil, err
	}
	if req.UserID != "" {
		sub.UserID = &req.UserID
	}

	err = u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		if err := u.payments.Save(ctx, tx, payment); err != nil {
			return err
		}
		return u.subs.Save(ctx, tx, sub)
	})
	if err != nil {
		return nil, err
	}

	metrics.IncPayment(string(model.PaymentStatusPending))
	return &OrderResult{
		OrderRef:       orderRef,
		Amount:         plan.Price,
		Currency:       plan.Currency,
		PaymentID:      payment.ID,
		SubscriptionID: sub.ID,
	}, nil
}

func (u *subscriptionUC) VerifyPayment(ctx context.Context, req VerifyPaymentRequest) (*CheckoutResult, error) {
	defer logging.TraceDuration(u.log, "SubscriptionUC.VerifyPayment")()

	if req.OrderRef == "" || req.ProviderPaymentID == "" || req.Signature == "" {
		return nil, domain.ErrValidation
	}

	now := time.Now()
	var payment *model.Payment
	var sub *model.Subscription
	var sigInvalid bool
	// The whole verify runs inside one transaction: the repository takes a
	// row lock on the payment, so of two concurrent verifies for the same
	// order the second re-reads a completed row and stops at the status
	// check instead of completing twice.
	err := u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		p, err := u.payments.FindByOrderRef(ctx, tx, req.OrderRef)
		if err != nil {
			return err
		}
		payment = p

		// The signature check is mandatory and fatal. Nothing activates
		// without it; the failure mark commits, the flow does not.
		if !u.gateway.VerifySignature(req.OrderRef, req.ProviderPaymentID, req.Signature) {
			sigInvalid = true
			if p.Status != model.PaymentStatusPending {
				return nil
			}
			if err := u.payments.UpdateStatus(ctx, tx, p.ID, model.PaymentStatusFailed, nil, nil); err != nil {
				return err
			}
			metrics.IncPayment(string(model.PaymentStatusFailed))
			return nil
		}

		if p.Status != model.PaymentStatusPending {
			return domain.ErrInvalidArgument
		}

		s, err := u.subs.FindByPaymentID(ctx, tx, p.ID)
		if err != nil {
			return err
		}
		if err := s.Activate(now); err != nil {
			return err
		}
		usr, err := u.users.FindOrCreate(ctx, tx, s.Email, s.FullName)
		if err != nil {
			return err
		}
		s.UserID = &usr.ID
		if err := u.payments.UpdateStatus(ctx, tx, p.ID, model.PaymentStatusCompleted, &req.ProviderPaymentID, &now); err != nil {
			return err
		}
		if err := u.subs.Save(ctx, tx, s); err != nil {
			return err
		}
		if err := u.users.SetHasActiveSubscription(ctx, tx, usr.ID, true); err != nil {
			return err
		}
		sub = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	if sigInvalid {
		return nil, domain.ErrSignatureInvalid
	}

	payment.Status = model.PaymentStatusCompleted
	payment.TransactionID = req.ProviderPaymentID
	payment.PaidAt = &now
	payment.UpdatedAt = now

	metrics.IncPayment(string(model.PaymentStatusCompleted))
	metrics.AddPaymentRevenue(payment.Currency, payment.Amount)
	u.sendReceipt(sub, payment)

	return &CheckoutResult{Subscription: sub, Payment: payment}, nil
}

func (u *subscriptionUC) Cancel(ctx context.Context, identity model.Identity) error {
	defer logging.TraceDuration(u.log, "SubscriptionUC.Cancel")()

	if err := identity.Validate(); err != nil {
		return domain.ErrValidation
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
			return domain.ErrNoActiveSubscription
		}
		return err
	}

	sub.Status = model.SubscriptionStatusCancelled
	return u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		if err := u.subs.Save(ctx, tx, sub); err != nil {
			return err
		}
		return u.clearFlag(ctx, tx, sub)
	})
}

// --- helpers ---

func (u *subscriptionUC) resolvePlan(ctx context.Context, planID string) (*model.Plan, error) {
	if planID == "" {
		planID = u.defaultPlanID
	}
	plan, err := u.plans.FindByID(ctx, repository.NoTX, planID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrPlanNotFound
		}
		return nil, err
	}
	return plan, nil
}

// rejectIfActive enforces the single-active-per-email invariant before any
// money moves. An active record past its end date does not block: it is
// expired lazily right here, same as an entitlement read would.
func (u *subscriptionUC) rejectIfActive(ctx context.Context, email string) error {
	existing, err := u.subs.FindActiveByEmail(ctx, repository.NoTX, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	if !existing.ExpiredAt(time.Now()) {
		return domain.ErrActiveSubscriptionExists
	}
	if err := u.subs.MarkExpired(ctx, repository.NoTX, existing.ID); err != nil {
		u.log.Warn().Err(err).Str("subscription_id", existing.ID).Msg("failed to expire stale subscription")
	}
	metrics.IncSubscriptionsExpired()
	return nil
}

func (u *subscriptionUC) clearFlag(ctx context.Context, tx repository.Tx, sub *model.Subscription) error {
	if sub.UserID == nil {
		return nil
	}
	return u.users.SetHasActiveSubscription(ctx, tx, *sub.UserID, false)
}

// sendReceipt fires the receipt email without blocking or failing the flow.
func (u *subscriptionUC) sendReceipt(sub *model.Subscription, payment *model.Payment) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		subject := "Your subscription is active"
		body := fmt.Sprintf("Hi %s,\n\nYour %s subscription is active until %s.\nAmount charged: %d %s (payment %s).\n",
			sub.FullName, sub.PlanID, sub.EndDate.Format("2 Jan 2006"), payment.Amount, payment.Currency, payment.ID)
		if err := u.mailer.Send(ctx, sub.Email, subject, body); err != nil {
			u.log.Warn().Err(err).Str("subscription_id", sub.ID).Msg("receipt email failed")
		}
	}()
}
