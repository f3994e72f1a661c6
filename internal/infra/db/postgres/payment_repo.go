package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"jobportal-subscription/internal/domain"
	"jobportal-subscription/internal/domain/model"
	"jobportal-subscription/internal/domain/ports/repository"
)

var _ repository.PaymentRepository = (*paymentRepo)(nil)

type paymentRepo struct{ pool *pgxpool.Pool }

func NewPaymentRepo(pool *pgxpool.Pool) *paymentRepo {
	return &paymentRepo{pool: pool}
}

const payCols = `id, user_id, email, plan_id, amount, currency, status, payment_method, transaction_id, order_ref, created_at, updated_at, paid_at`

func (r *paymentRepo) Save(ctx context.Context, tx repository.Tx, p *model.Payment) error {
	const q = `
INSERT INTO payments (
  id, user_id, email, plan_id, amount, currency, status, payment_method, transaction_id, order_ref, created_at, updated_at, paid_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
ON CONFLICT (id) DO UPDATE SET
  user_id=$2, status=$7, transaction_id=$9, updated_at=$12, paid_at=$13;`

	_, err := execSQL(ctx, r.pool, tx, q, p.ID, p.UserID, p.Email, p.PlanID, p.Amount, p.Currency, p.Status, p.PaymentMethod, p.TransactionID, p.OrderRef, p.CreatedAt, p.UpdatedAt, p.PaidAt)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *paymentRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Payment, error) {
	q := `SELECT ` + payCols + ` FROM payments WHERE id=$1`
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	q += ";"
	return r.queryOne(ctx, tx, q, id)
}

func (r *paymentRepo) FindByOrderRef(ctx context.Context, tx repository.Tx, orderRef string) (*model.Payment, error) {
	q := `SELECT ` + payCols + ` FROM payments WHERE order_ref=$1 LIMIT 1`
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	q += ";"
	return r.queryOne(ctx, tx, q, orderRef)
}

func (r *paymentRepo) UpdateStatus(ctx context.Context, tx repository.Tx, id string, status model.PaymentStatus, transactionID *string, paidAt *time.Time) error {
	const q = `UPDATE payments SET status=$2, transaction_id=COALESCE($3, transaction_id), paid_at=COALESCE($4, paid_at), updated_at=NOW() WHERE id=$1;`
	_, err := execSQL(ctx, r.pool, tx, q, id, status, transactionID, paidAt)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *paymentRepo) SumByPeriod(ctx context.Context, tx repository.Tx, period string) (int64, error) {
	const q = `SELECT COALESCE(SUM(amount),0) FROM payments WHERE status='completed' AND paid_at >= DATE_TRUNC($1, NOW());`
	row, err := pickRow(ctx, r.pool, tx, q, period)
	if err != nil {
		return 0, err
	}
	var sum int64
	if err := row.Scan(&sum); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return sum, nil
}

func (r *paymentRepo) queryOne(ctx context.Context, tx repository.Tx, sql string, args ...any) (*model.Payment, error) {
	row, err := pickRow(ctx, r.pool, tx, sql, args...)
	if err != nil {
		return nil, err
	}
	p := &model.Payment{}
	var status string
	if err := row.Scan(&p.ID, &p.UserID, &p.Email, &p.PlanID, &p.Amount, &p.Currency, &status, &p.PaymentMethod, &p.TransactionID, &p.OrderRef, &p.CreatedAt, &p.UpdatedAt, &p.PaidAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	p.Status = model.PaymentStatus(status)
	return p, nil
}
