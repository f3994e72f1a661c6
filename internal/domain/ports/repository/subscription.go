package repository

import (
	"context"

	"jobportal-subscription/internal/domain/model"
)

// SubscriptionRepository is the port for subscription records.
//
// FindActiveByEmail / FindActiveByUserID return the most-recently-created
// subscription with status=active only; pending and expired rows never
// qualify.
type SubscriptionRepository interface {
	Save(ctx context.Context, tx Tx, sub *model.Subscription) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Subscription, error)
	FindActiveByEmail(ctx context.Context, tx Tx, email string) (*model.Subscription, error)
	FindActiveByUserID(ctx context.Context, tx Tx, userID string) (*model.Subscription, error)
	FindByPaymentID(ctx context.Context, tx Tx, paymentID string) (*model.Subscription, error)
	ListByEmail(ctx context.Context, tx Tx, email string) ([]*model.Subscription, error)

	// MarkExpired flips an active row to expired; a no-op if the row has
	// already left the active state.
	MarkExpired(ctx context.Context, tx Tx, id string) error

	// CountByStatus powers the admin dashboard and the status gauge.
	CountByStatus(ctx context.Context, tx Tx) (map[model.SubscriptionStatus]int, error)
}
