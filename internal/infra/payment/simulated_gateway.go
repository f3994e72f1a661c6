package payment

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"jobportal-subscription/internal/domain/ports/adapter"
)

// OutcomePolicy decides whether a simulated charge is approved. Replacing
// the source system's random 80% success roll with an injected policy keeps
// tests deterministic.
type OutcomePolicy interface {
	Approve(req adapter.ChargeRequest) (ok bool, reason string)
}

// ApproveAll approves every charge.
type ApproveAll struct{}

func (ApproveAll) Approve(adapter.ChargeRequest) (bool, string) { return true, "" }

// DeclineMethod declines charges made with one specific payment method and
// approves everything else. Useful for demo and test wiring.
type DeclineMethod struct{ Method string }

func (p DeclineMethod) Approve(req adapter.ChargeRequest) (bool, string) {
	if strings.EqualFold(req.PaymentMethod, p.Method) {
		return false, "payment method declined"
	}
	return true, ""
}

// Ensure compile-time conformance
var _ adapter.PaymentGateway = (*SimulatedGateway)(nil)

// SimulatedGateway stands in for a real payment provider. Charges resolve
// through the injected policy; orders get ULID references and signatures are
// verified with the shared-secret HMAC signer, exactly as the verify flow
// expects from a real provider.
type SimulatedGateway struct {
	policy OutcomePolicy
	signer *OrderSigner
}

func NewSimulatedGateway(policy OutcomePolicy, signer *OrderSigner) *SimulatedGateway {
	if policy == nil {
		policy = ApproveAll{}
	}
	return &SimulatedGateway{policy: policy, signer: signer}
}

func (g *SimulatedGateway) Name() string { return "simulated" }

func (g *SimulatedGateway) Charge(ctx context.Context, req adapter.ChargeRequest) (adapter.ChargeResult, error) {
	ok, reason := g.policy.Approve(req)
	if !ok {
		return adapter.ChargeResult{Declined: true, Reason: reason}, nil
	}
	return adapter.ChargeResult{TransactionID: "txn_" + uuid.NewString()}, nil
}

func (g *SimulatedGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (string, error) {
	return "order_" + ulid.Make().String(), nil
}

func (g *SimulatedGateway) VerifySignature(orderRef, paymentID, signature string) bool {
	return g.signer.Verify(orderRef, paymentID, signature)
}
