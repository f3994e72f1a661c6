//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"jobportal-subscription/internal/domain"
	"jobportal-subscription/internal/domain/model"
	"jobportal-subscription/internal/domain/ports/repository"
	"jobportal-subscription/internal/usecase"
)

func TestEntitlementUseCase_GetActiveSubscription(t *testing.T) {
	ctx := context.Background()

	t.Run("reports the active subscription with days remaining", func(t *testing.T) {
		subs := NewMockSubscriptionRepo()
		users := NewMockUserRepo()
		uc := usecase.NewEntitlementUseCase(subs, newUserUC(users), NewMockTxManager(), newTestLogger())

		sub, _ := model.NewSubscription("sub-1", "x@y.co", "X Y", standardPlan(t), "pay-1")
		_ = subs.Save(ctx, repository.NoTX, sub)

		ent, err := uc.GetActiveSubscription(ctx, model.IdentityByEmail("X@Y.co"))
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if ent == nil {
			t.Fatal("expected an entitlement")
		}
		if ent.Subscription.ID != "sub-1" {
			t.Errorf("wrong subscription returned: %q", ent.Subscription.ID)
		}
		if ent.DaysRemaining != 365 {
			t.Errorf("expected 365 days remaining, got %d", ent.DaysRemaining)
		}
	})

	t.Run("nothing on record means no entitlement and no error", func(t *testing.T) {
		uc := usecase.NewEntitlementUseCase(NewMockSubscriptionRepo(), newUserUC(NewMockUserRepo()), NewMockTxManager(), newTestLogger())

		ent, err := uc.GetActiveSubscription(ctx, model.IdentityByEmail("nobody@y.co"))
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if ent != nil {
			t.Fatalf("expected nil entitlement, got %+v", ent)
		}
	})

	t.Run("a lapsed active record is expired on read", func(t *testing.T) {
		subs := NewMockSubscriptionRepo()
		users := NewMockUserRepo()
		uc := usecase.NewEntitlementUseCase(subs, newUserUC(users), NewMockTxManager(), newTestLogger())

		usr, _ := model.NewUser("u-1", "old@y.co", "Old Timer")
		usr.HasActiveSubscription = true
		_ = users.Save(ctx, repository.NoTX, usr)

		// a 365-day subscription bought 400 days ago
		stale := &model.Subscription{
			ID:        "sub-old",
			UserID:    &usr.ID,
			Email:     "old@y.co",
			PlanID:    "standard",
			Status:    model.SubscriptionStatusActive,
			StartDate: time.Now().AddDate(0, 0, -400),
			EndDate:   time.Now().AddDate(0, 0, -35),
			CreatedAt: time.Now().AddDate(0, 0, -400),
		}
		_ = subs.Save(ctx, repository.NoTX, stale)

		ent, err := uc.GetActiveSubscription(ctx, model.IdentityByEmail("old@y.co"))
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if ent != nil {
			t.Fatal("a lapsed subscription must not entitle")
		}

		stored, _ := subs.FindByID(ctx, repository.NoTX, "sub-old")
		if stored.Status != model.SubscriptionStatusExpired {
			t.Errorf("expected expired after read, got %q", stored.Status)
		}
		refreshed, _ := users.FindByID(ctx, repository.NoTX, "u-1")
		if refreshed.HasActiveSubscription {
			t.Error("expected denormalized flag cleared on expiry")
		}
	})

	t.Run("expiry write failure still answers no entitlement", func(t *testing.T) {
		subs := NewMockSubscriptionRepo()
		subs.MarkExpiredFunc = func(ctx context.Context, tx repository.Tx, id string) error {
			return domain.ErrOperationFailed
		}
		uc := usecase.NewEntitlementUseCase(subs, newUserUC(NewMockUserRepo()), NewMockTxManager(), newTestLogger())

		stale := &model.Subscription{
			ID:        "sub-old",
			Email:     "old@y.co",
			Status:    model.SubscriptionStatusActive,
			StartDate: time.Now().AddDate(0, 0, -100),
			EndDate:   time.Now().AddDate(0, 0, -10),
			CreatedAt: time.Now().AddDate(0, 0, -100),
		}
		_ = subs.Save(ctx, repository.NoTX, stale)

		ent, err := uc.GetActiveSubscription(ctx, model.IdentityByEmail("old@y.co"))
		if err != nil {
			t.Fatalf("a failed expiry write must not surface: %v", err)
		}
		if ent != nil {
			t.Fatal("expected no entitlement")
		}
	})

	t.Run("lookup by user id", func(t *testing.T) {
		subs := NewMockSubscriptionRepo()
		uc := usecase.NewEntitlementUseCase(subs, newUserUC(NewMockUserRepo()), NewMockTxManager(), newTestLogger())

		uid := "u-9"
		sub, _ := model.NewSubscription("sub-9", "z@y.co", "Z", standardPlan(t), "pay-9")
		sub.UserID = &uid
		_ = subs.Save(ctx, repository.NoTX, sub)

		ent, err := uc.GetActiveSubscription(ctx, model.IdentityByUserID("u-9"))
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if ent == nil || ent.Subscription.ID != "sub-9" {
			t.Fatalf("expected sub-9, got %+v", ent)
		}
	})

	t.Run("history returns every record for the email", func(t *testing.T) {
		subs := NewMockSubscriptionRepo()
		uc := usecase.NewEntitlementUseCase(subs, newUserUC(NewMockUserRepo()), NewMockTxManager(), newTestLogger())

		active, _ := model.NewSubscription("sub-new", "h@y.co", "H", standardPlan(t), "pay-2")
		_ = subs.Save(ctx, repository.NoTX, active)
		old := &model.Subscription{
			ID: "sub-old", Email: "h@y.co", Status: model.SubscriptionStatusExpired,
			StartDate: time.Now().AddDate(-2, 0, 0), EndDate: time.Now().AddDate(-1, 0, 0),
		}
		_ = subs.Save(ctx, repository.NoTX, old)

		history, err := uc.History(ctx, "H@Y.co")
		if err != nil {
			t.Fatalf("history: %v", err)
		}
		if len(history) != 2 {
			t.Fatalf("expected both records, got %d", len(history))
		}

		if _, err := uc.History(ctx, "  "); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("expected ErrValidation for a blank email, got %v", err)
		}
	})

	t.Run("empty and double-set identities are rejected", func(t *testing.T) {
		uc := usecase.NewEntitlementUseCase(NewMockSubscriptionRepo(), newUserUC(NewMockUserRepo()), NewMockTxManager(), newTestLogger())

		if _, err := uc.GetActiveSubscription(ctx, model.Identity{}); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("expected ErrValidation for empty identity, got %v", err)
		}
		if _, err := uc.GetActiveSubscription(ctx, model.Identity{UserID: "u", Email: "e@y.co"}); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("expected ErrValidation for double-set identity, got %v", err)
		}
	})
}
