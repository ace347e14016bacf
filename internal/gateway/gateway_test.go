package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func signPayload(orderID, paymentID string, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	secret := []byte("gateway-secret")
	signature := signPayload("order_abc", "pay_xyz", secret)

	assert.True(t, VerifySignature("order_abc", "pay_xyz", signature, secret))
}

func TestVerifySignature_Mismatch(t *testing.T) {
	secret := []byte("gateway-secret")
	signature := signPayload("order_abc", "pay_xyz", secret)

	tests := []struct {
		name      string
		orderID   string
		paymentID string
		signature string
		secret    []byte
	}{
		{"flipped signature byte", "order_abc", "pay_xyz", "0" + signature[1:], secret},
		{"truncated signature", "order_abc", "pay_xyz", signature[:len(signature)-1], secret},
		{"different order id", "order_abd", "pay_xyz", signature, secret},
		{"different payment id", "order_abc", "pay_xyy", signature, secret},
		{"wrong secret", "order_abc", "pay_xyz", signature, []byte("other-secret")},
		{"empty signature", "order_abc", "pay_xyz", "", secret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, VerifySignature(tt.orderID, tt.paymentID, tt.signature, tt.secret))
		})
	}
}
