//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"jobportal-subscription/internal/domain"
	"jobportal-subscription/internal/domain/model"
	"jobportal-subscription/internal/domain/ports/adapter"
	"jobportal-subscription/internal/domain/ports/repository"
	"jobportal-subscription/internal/usecase"
)

// =============================
// Repositories
// =============================

// ---- Mock PlanRepository ----

type MockPlanRepo struct {
	mu    sync.Mutex
	store map[string]*model.Plan

	SaveFunc     func(ctx context.Context, tx repository.Tx, plan *model.Plan) error
	FindByIDFunc func(ctx context.Context, tx repository.Tx, id string) (*model.Plan, error)
	ListAllFunc  func(ctx context.Context, tx repository.Tx) ([]*model.Plan, error)
	DeleteFunc   func(ctx context.Context, tx repository.Tx, id string) error
}

var _ repository.PlanRepository = (*MockPlanRepo)(nil)

func NewMockPlanRepo() *MockPlanRepo {
	return &MockPlanRepo{store: map[string]*model.Plan{}}
}

func (m *MockPlanRepo) Save(ctx context.Context, tx repository.Tx, plan *model.Plan) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx, plan)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *plan
	m.store[plan.ID] = &cp
	return nil
}

func (m *MockPlanRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Plan, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockPlanRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Plan, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx, tx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.Plan, 0, len(m.store))
	for _, p := range m.store {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MockPlanRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.store, id)
	return nil
}

// ---- Mock SubscriptionRepository ----

type MockSubscriptionRepo struct {
	mu    sync.Mutex
	store map[string]*model.Subscription

	SaveFunc               func(ctx context.Context, tx repository.Tx, sub *model.Subscription) error
	FindByIDFunc           func(ctx context.Context, tx repository.Tx, id string) (*model.Subscription, error)
	FindActiveByEmailFunc  func(ctx context.Context, tx repository.Tx, email string) (*model.Subscription, error)
	FindActiveByUserIDFunc func(ctx context.Context, tx repository.Tx, userID string) (*model.Subscription, error)
	FindByPaymentIDFunc    func(ctx context.Context, tx repository.Tx, paymentID string) (*model.Subscription, error)
	ListByEmailFunc        func(ctx context.Context, tx repository.Tx, email string) ([]*model.Subscription, error)
	MarkExpiredFunc        func(ctx context.Context, tx repository.Tx, id string) error
	CountByStatusFunc      func(ctx context.Context, tx repository.Tx) (map[model.SubscriptionStatus]int, error)
}

var _ repository.SubscriptionRepository = (*MockSubscriptionRepo)(nil)

func NewMockSubscriptionRepo() *MockSubscriptionRepo {
	return &MockSubscriptionRepo{store: map[string]*model.Subscription{}}
}

func (m *MockSubscriptionRepo) Save(ctx context.Context, tx repository.Tx, sub *model.Subscription) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx, sub)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *sub
	m.store[sub.ID] = &cp
	return nil
}

func (m *MockSubscriptionRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Subscription, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *MockSubscriptionRepo) FindActiveByEmail(ctx context.Context, tx repository.Tx, email string) (*model.Subscription, error) {
	if m.FindActiveByEmailFunc != nil {
		return m.FindActiveByEmailFunc(ctx, tx, email)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var latest *model.Subscription
	for _, s := range m.store {
		if s.Status != model.SubscriptionStatusActive || !strings.EqualFold(s.Email, email) {
			continue
		}
		if latest == nil || s.CreatedAt.After(latest.CreatedAt) {
			latest = s
		}
	}
	if latest == nil {
		return nil, domain.ErrNotFound
	}
	cp := *latest
	return &cp, nil
}

func (m *MockSubscriptionRepo) FindActiveByUserID(ctx context.Context, tx repository.Tx, userID string) (*model.Subscription, error) {
	if m.FindActiveByUserIDFunc != nil {
		return m.FindActiveByUserIDFunc(ctx, tx, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var latest *model.Subscription
	for _, s := range m.store {
		if s.Status != model.SubscriptionStatusActive || s.UserID == nil || *s.UserID != userID {
			continue
		}
		if latest == nil || s.CreatedAt.After(latest.CreatedAt) {
			latest = s
		}
	}
	if latest == nil {
		return nil, domain.ErrNotFound
	}
	cp := *latest
	return &cp, nil
}

func (m *MockSubscriptionRepo) FindByPaymentID(ctx context.Context, tx repository.Tx, paymentID string) (*model.Subscription, error) {
	if m.FindByPaymentIDFunc != nil {
		return m.FindByPaymentIDFunc(ctx, tx, paymentID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.store {
		if s.PaymentID == paymentID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockSubscriptionRepo) ListByEmail(ctx context.Context, tx repository.Tx, email string) ([]*model.Subscription, error) {
	if m.ListByEmailFunc != nil {
		return m.ListByEmailFunc(ctx, tx, email)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Subscription
	for _, s := range m.store {
		if strings.EqualFold(s.Email, email) {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockSubscriptionRepo) MarkExpired(ctx context.Context, tx repository.Tx, id string) error {
	if m.MarkExpiredFunc != nil {
		return m.MarkExpiredFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	if s.Status == model.SubscriptionStatusActive {
		s.Status = model.SubscriptionStatusExpired
	}
	return nil
}

func (m *MockSubscriptionRepo) CountByStatus(ctx context.Context, tx repository.Tx) (map[model.SubscriptionStatus]int, error) {
	if m.CountByStatusFunc != nil {
		return m.CountByStatusFunc(ctx, tx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[model.SubscriptionStatus]int{}
	for _, s := range m.store {
		out[s.Status]++
	}
	return out, nil
}

// ---- Mock PaymentRepository ----

type MockPaymentRepo struct {
	mu    sync.Mutex
	store map[string]*model.Payment

	SaveFunc           func(ctx context.Context, tx repository.Tx, p *model.Payment) error
	FindByIDFunc       func(ctx context.Context, tx repository.Tx, id string) (*model.Payment, error)
	FindByOrderRefFunc func(ctx context.Context, tx repository.Tx, orderRef string) (*model.Payment, error)
	UpdateStatusFunc   func(ctx context.Context, tx repository.Tx, id string, status model.PaymentStatus, transactionID *string, paidAt *time.Time) error
	SumByPeriodFunc    func(ctx context.Context, tx repository.Tx, period string) (int64, error)
}

var _ repository.PaymentRepository = (*MockPaymentRepo)(nil)

func NewMockPaymentRepo() *MockPaymentRepo {
	return &MockPaymentRepo{store: map[string]*model.Payment{}}
}

func (m *MockPaymentRepo) Save(ctx context.Context, tx repository.Tx, p *model.Payment) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx, p)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.store[p.ID] = &cp
	return nil
}

func (m *MockPaymentRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Payment, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockPaymentRepo) FindByOrderRef(ctx context.Context, tx repository.Tx, orderRef string) (*model.Payment, error) {
	if m.FindByOrderRefFunc != nil {
		return m.FindByOrderRefFunc(ctx, tx, orderRef)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.store {
		if p.OrderRef == orderRef {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockPaymentRepo) UpdateStatus(ctx context.Context, tx repository.Tx, id string, status model.PaymentStatus, transactionID *string, paidAt *time.Time) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, tx, id, status, transactionID, paidAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Status = status
	if transactionID != nil {
		p.TransactionID = *transactionID
	}
	if paidAt != nil {
		p.PaidAt = paidAt
	}
	p.UpdatedAt = time.Now()
	return nil
}

func (m *MockPaymentRepo) SumByPeriod(ctx context.Context, tx repository.Tx, period string) (int64, error) {
	if m.SumByPeriodFunc != nil {
		return m.SumByPeriodFunc(ctx, tx, period)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var sum int64
	for _, p := range m.store {
		if p.Status == model.PaymentStatusCompleted {
			sum += p.Amount
		}
	}
	return sum, nil
}

// ---- Mock UserRepository ----

type MockUserRepo struct {
	mu    sync.Mutex
	store map[string]*model.User

	SaveFunc          func(ctx context.Context, tx repository.Tx, u *model.User) error
	FindByIDFunc      func(ctx context.Context, tx repository.Tx, id string) (*model.User, error)
	FindByEmailFunc   func(ctx context.Context, tx repository.Tx, email string) (*model.User, error)
	SetActiveFlagFunc func(ctx context.Context, tx repository.Tx, userID string, active bool) error
	CountUsersFunc    func(ctx context.Context, tx repository.Tx) (int, error)
}

var _ repository.UserRepository = (*MockUserRepo)(nil)

func NewMockUserRepo() *MockUserRepo {
	return &MockUserRepo{store: map[string]*model.User{}}
}

func (m *MockUserRepo) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx, u)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.store[u.ID] = &cp
	return nil
}

func (m *MockUserRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *MockUserRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, tx, email)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.store {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockUserRepo) SetActiveFlag(ctx context.Context, tx repository.Tx, userID string, active bool) error {
	if m.SetActiveFlagFunc != nil {
		return m.SetActiveFlagFunc(ctx, tx, userID, active)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.store[userID]
	if !ok {
		return domain.ErrNotFound
	}
	u.HasActiveSubscription = active
	return nil
}

func (m *MockUserRepo) CountUsers(ctx context.Context, tx repository.Tx) (int, error) {
	if m.CountUsersFunc != nil {
		return m.CountUsersFunc(ctx, tx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.store), nil
}

// =============================
// Adapters and infra helpers
// =============================

// ---- Mock PaymentGateway ----

type MockGateway struct {
	mu      sync.Mutex
	Charges []adapter.ChargeRequest

	ChargeFunc          func(ctx context.Context, req adapter.ChargeRequest) (adapter.ChargeResult, error)
	CreateOrderFunc     func(ctx context.Context, amount int64, currency, receipt string) (string, error)
	VerifySignatureFunc func(orderRef, paymentID, signature string) bool
}

var _ adapter.PaymentGateway = (*MockGateway)(nil)

func (m *MockGateway) Name() string { return "mock" }

func (m *MockGateway) Charge(ctx context.Context, req adapter.ChargeRequest) (adapter.ChargeResult, error) {
	m.mu.Lock()
	m.Charges = append(m.Charges, req)
	m.mu.Unlock()
	if m.ChargeFunc != nil {
		return m.ChargeFunc(ctx, req)
	}
	return adapter.ChargeResult{TransactionID: "txn_" + uuid.NewString()}, nil
}

func (m *MockGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (string, error) {
	if m.CreateOrderFunc != nil {
		return m.CreateOrderFunc(ctx, amount, currency, receipt)
	}
	return "order_" + uuid.NewString(), nil
}

func (m *MockGateway) VerifySignature(orderRef, paymentID, signature string) bool {
	if m.VerifySignatureFunc != nil {
		return m.VerifySignatureFunc(orderRef, paymentID, signature)
	}
	return true
}

// ---- Mock EmailNotifier ----

type MockMailer struct {
	mu   sync.Mutex
	Sent []struct{ To, Subject, Body string }

	SendFunc func(ctx context.Context, to, subject, body string) error
}

var _ adapter.EmailNotifier = (*MockMailer)(nil)

func (m *MockMailer) Send(ctx context.Context, to, subject, body string) error {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, to, subject, body)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, struct{ To, Subject, Body string }{to, subject, body})
	return nil
}

// ---- Mock TransactionManager ----

type MockTxManager struct {
	WithTxFunc func(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error
}

var _ repository.TransactionManager = (*MockTxManager)(nil)

func NewMockTxManager() *MockTxManager { return &MockTxManager{} }

// WithTx runs the function immediately without a real transaction unless the
// test overrides WithTxFunc.
func (m *MockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, txOpt, fn)
	}
	return fn(ctx, repository.NoTX)
}

// ---- In-memory Locker ----

type MockLocker struct {
	mu    sync.Mutex
	held  map[string]string
	ErrOn map[string]error
}

func NewMockLocker() *MockLocker {
	return &MockLocker{held: map[string]string{}, ErrOn: map[string]error{}}
}

func (l *MockLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err, bad := l.ErrOn[key]; bad {
		return "", err
	}
	if tok, ok := l.held[key]; ok && tok != "" {
		return "", errors.New("locked")
	}
	tok := uuid.NewString()
	l.held[key] = tok
	return tok, nil
}

func (l *MockLocker) Unlock(ctx context.Context, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] == token {
		delete(l.held, key)
		return nil
	}
	return errors.New("unlock token mismatch")
}

// newTestLogger creates a silent zerolog.Logger so test output stays clean.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

// newUserUC wraps a mock user repo in the real directory use case.
func newUserUC(users *MockUserRepo) usecase.UserUseCase {
	return usecase.NewUserUseCase(users, NewMockTxManager(), newTestLogger())
}
