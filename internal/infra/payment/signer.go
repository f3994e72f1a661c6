package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// OrderSigner computes and checks the HMAC-SHA256 signature the provider
// attaches to a verified payment: hex(HMAC(secret, orderRef + "|" + paymentID)).
type OrderSigner struct {
	secret []byte
}

func NewOrderSigner(secret string) *OrderSigner {
	return &OrderSigner{secret: []byte(secret)}
}

func (s *OrderSigner) Sign(orderRef, paymentID string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(orderRef + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify compares in constant time and tolerates nothing: any mismatch,
// including an empty signature, fails.
func (s *OrderSigner) Verify(orderRef, paymentID, signature string) bool {
	expected := s.Sign(orderRef, paymentID)
	return hmac.Equal([]byte(expected), []byte(signature))
}
