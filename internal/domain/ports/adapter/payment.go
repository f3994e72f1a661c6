package adapter

import "context"

// ChargeRequest describes a one-shot charge attempt.
type ChargeRequest struct {
	Email         string
	Amount        int64
	Currency      string
	PaymentMethod string
	Description   string
}

// ChargeResult is the provider-agnostic outcome of a charge.
type ChargeResult struct {
	TransactionID string
	Declined      bool
	Reason        string
}

// PaymentGateway is the hex port for payment providers.
//
// The charge outcome is decided by the gateway implementation (an injected
// policy in the simulated gateway), never by a random roll in the use case,
// so tests stay deterministic.
type PaymentGateway interface {
	Name() string

	// Charge attempts a one-shot charge. A declined charge is reported via
	// ChargeResult.Declined, not an error; errors mean the provider itself
	// was unreachable.
	Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error)

	// CreateOrder registers a payment intent with the provider and returns
	// its order reference for the two-phase order/verify flow.
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (orderRef string, err error)

	// VerifySignature checks the provider's signature over orderRef and
	// paymentID. A false return is fatal for the verify flow.
	VerifySignature(orderRef, paymentID, signature string) bool
}
