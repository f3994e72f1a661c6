package payment

import (
	"strings"
	"testing"
)

func TestOrderSigner(t *testing.T) {
	signer := NewOrderSigner("test-secret")

	t.Run("sign and verify round-trip", func(t *testing.T) {
		sig := signer.Sign("order_1", "pay_1")
		if sig == "" {
			t.Fatal("expected a signature")
		}
		if !signer.Verify("order_1", "pay_1", sig) {
			t.Error("expected the signature to verify")
		}
	})

	t.Run("deterministic for the same secret", func(t *testing.T) {
		other := NewOrderSigner("test-secret")
		if signer.Sign("order_1", "pay_1") != other.Sign("order_1", "pay_1") {
			t.Error("two signers with the same secret must agree")
		}
	})

	t.Run("any mismatch fails", func(t *testing.T) {
		sig := signer.Sign("order_1", "pay_1")

		if signer.Verify("order_2", "pay_1", sig) {
			t.Error("wrong order ref must not verify")
		}
		if signer.Verify("order_1", "pay_2", sig) {
			t.Error("wrong payment id must not verify")
		}
		if signer.Verify("order_1", "pay_1", "") {
			t.Error("empty signature must not verify")
		}
		tampered := strings.ToUpper(sig[:1]) + sig[1:]
		if tampered != sig && signer.Verify("order_1", "pay_1", tampered) {
			t.Error("tampered signature must not verify")
		}
		if NewOrderSigner("other-secret").Verify("order_1", "pay_1", sig) {
			t.Error("signature from a different secret must not verify")
		}
	})

	t.Run("field swap does not collide", func(t *testing.T) {
		// orderRef|paymentID and paymentID|orderRef are different messages
		if signer.Sign("a", "b") == signer.Sign("b", "a") {
			t.Error("swapped fields must produce different signatures")
		}
	})
}
