package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Order is a payment-provider-side record representing an intent to
// collect a specific amount. Its id is distinct from the local order id.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"` // minor units
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// Gateway wraps calls to the external payment provider. Only remote
// order creation is trusted; payment confirmations are verified locally
// by signature.
type Gateway interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*Order, error)
}

// VerifySignature recomputes the HMAC-SHA256 of "orderID|paymentID"
// with the gateway secret and compares it to the provided signature in
// constant time. This is the sole trust boundary against forged
// payment confirmations.
func VerifySignature(orderID, paymentID, signature string, secret []byte) bool {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
