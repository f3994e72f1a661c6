package model

import "time"

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"   // order created; awaiting verification
	PaymentStatusCompleted PaymentStatus = "completed" // charge approved or verification passed
	PaymentStatusFailed    PaymentStatus = "failed"    // charge declined or verification failed
)

// Payment records one payment attempt. A payment funds at most one
// subscription; the subscription carries the back-reference (PaymentID),
// never the reverse.
type Payment struct {
	ID            string
	UserID        *string // nil for guest checkouts
	Email         string
	PlanID        string
	Amount        int64
	Currency      string
	Status        PaymentStatus
	PaymentMethod string
	TransactionID string // provider transaction/payment id, set on completion
	OrderRef      string // provider order reference for the order/verify flow
	CreatedAt     time.Time
	UpdatedAt     time.Time
	PaidAt        *time.Time
}
