package repository

import (
	"context"
	"time"

	"jobportal-subscription/internal/domain/model"
)

type PaymentRepository interface {
	Save(ctx context.Context, tx Tx, p *model.Payment) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Payment, error)
	FindByOrderRef(ctx context.Context, tx Tx, orderRef string) (*model.Payment, error)
	UpdateStatus(ctx context.Context, tx Tx, id string, status model.PaymentStatus, transactionID *string, paidAt *time.Time) error
	SumByPeriod(ctx context.Context, tx Tx, period string) (int64, error)
}
