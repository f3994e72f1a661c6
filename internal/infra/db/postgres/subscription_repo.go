package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"jobportal-subscription/internal/domain"
	"jobportal-subscription/internal/domain/model"
	"jobportal-subscription/internal/domain/ports/repository"
)

// Ensure subscriptionRepo implements repository.SubscriptionRepository
var _ repository.SubscriptionRepository = (*subscriptionRepo)(nil)

type subscriptionRepo struct {
	pool *pgxpool.Pool
}

func NewSubscriptionRepo(pool *pgxpool.Pool) *subscriptionRepo {
	return &subscriptionRepo{pool: pool}
}

const subCols = `id, user_id, email, full_name, plan_id, amount, currency, status, start_date, end_date, features, payment_id, created_at`

// isActiveUniqueViolation reports whether err is the unique violation raised
// by the one-active-per-email partial index. Other 23505s, a colliding
// primary key for one, must not masquerade as a duplicate subscription.
func isActiveUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) &&
		pgErr.Code == "23505" &&
		pgErr.ConstraintName == "subscriptions_one_active_per_email"
}

func (r *subscriptionRepo) Save(ctx context.Context, tx repository.Tx, s *model.Subscription) error {
	const q = `
INSERT INTO subscriptions (
  id, user_id, email, full_name, plan_id, amount, currency, status, start_date, end_date, features, payment_id, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
ON CONFLICT (id) DO UPDATE SET
  user_id=$2, status=$8, start_date=$9, end_date=$10;`

	_, err := execSQL(ctx, r.pool, tx, q, s.ID, s.UserID, s.Email, s.FullName, s.PlanID, s.Amount, s.Currency, s.Status, s.StartDate, s.EndDate, s.Features, s.PaymentID, s.CreatedAt)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidArgument), errors.Is(err, domain.ErrInvalidExecContext):
			return err
		default:
			if isActiveUniqueViolation(err) {
				return domain.ErrActiveSubscriptionExists
			}
			return domain.ErrOperationFailed
		}
	}
	return nil
}

func (r *subscriptionRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Subscription, error) {
	return r.queryOne(ctx, tx, `SELECT `+subCols+` FROM subscriptions WHERE id=$1;`, id)
}

func (r *subscriptionRepo) FindActiveByEmail(ctx context.Context, tx repository.Tx, email string) (*model.Subscription, error) {
	const q = `
SELECT ` + subCols + `
  FROM subscriptions
 WHERE lower(email)=lower($1) AND status='active'
 ORDER BY created_at DESC
 LIMIT 1;`
	return r.queryOne(ctx, tx, q, email)
}

func (r *subscriptionRepo) FindActiveByUserID(ctx context.Context, tx repository.Tx, userID string) (*model.Subscription, error) {
	const q = `
SELECT ` + subCols + `
  FROM subscriptions
 WHERE user_id=$1 AND status='active'
 ORDER BY created_at DESC
 LIMIT 1;`
	return r.queryOne(ctx, tx, q, userID)
}

func (r *subscriptionRepo) FindByPaymentID(ctx context.Context, tx repository.Tx, paymentID string) (*model.Subscription, error) {
	return r.queryOne(ctx, tx, `SELECT `+subCols+` FROM subscriptions WHERE payment_id=$1 LIMIT 1;`, paymentID)
}

func (r *subscriptionRepo) ListByEmail(ctx context.Context, tx repository.Tx, email string) ([]*model.Subscription, error) {
	const q = `
SELECT ` + subCols + `
  FROM subscriptions
 WHERE lower(email)=lower($1)
 ORDER BY created_at DESC;`
	rows, err := queryRows(ctx, r.pool, tx, q, email)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidArgument), errors.Is(err, domain.ErrInvalidExecContext):
			return nil, err
		default:
			return nil, domain.ErrOperationFailed
		}
	}
	defer rows.Close()
	var out []*model.Subscription
	for rows.Next() {
		s, err := scanSub(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func (r *subscriptionRepo) MarkExpired(ctx context.Context, tx repository.Tx, id string) error {
	const q = `UPDATE subscriptions SET status='expired' WHERE id=$1 AND status='active';`
	_, err := execSQL(ctx, r.pool, tx, q, id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidArgument), errors.Is(err, domain.ErrInvalidExecContext):
			return err
		default:
			return domain.ErrOperationFailed
		}
	}
	return nil
}

func (r *subscriptionRepo) CountByStatus(ctx context.Context, tx repository.Tx) (map[model.SubscriptionStatus]int, error) {
	const q = `SELECT status, COUNT(*) FROM subscriptions GROUP BY status;`
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	counts := make(map[model.SubscriptionStatus]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		counts[model.SubscriptionStatus(status)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return counts, nil
}

func (r *subscriptionRepo) queryOne(ctx context.Context, tx repository.Tx, sql string, args ...any) (*model.Subscription, error) {
	row, err := pickRow(ctx, r.pool, tx, sql, args...)
	if err != nil {
		return nil, err
	}
	s := &model.Subscription{}
	var status string
	if err := row.Scan(&s.ID, &s.UserID, &s.Email, &s.FullName, &s.PlanID, &s.Amount, &s.Currency, &status, &s.StartDate, &s.EndDate, &s.Features, &s.PaymentID, &s.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	s.Status = model.SubscriptionStatus(status)
	return s, nil
}

func scanSub(rows pgx.Rows) (*model.Subscription, error) {
	s := &model.Subscription{}
	var status string
	if err := rows.Scan(&s.ID, &s.UserID, &s.Email, &s.FullName, &s.PlanID, &s.Amount, &s.Currency, &status, &s.StartDate, &s.EndDate, &s.Features, &s.PaymentID, &s.CreatedAt); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	s.Status = model.SubscriptionStatus(status)
	return s, nil
}
