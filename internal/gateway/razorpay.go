package gateway

import (
	"context"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
)

// RazorpayGateway talks to the hosted Razorpay API.
type RazorpayGateway struct {
	client *razorpay.Client
}

// Ensure RazorpayGateway implements Gateway
var _ Gateway = (*RazorpayGateway)(nil)

// NewRazorpay creates a gateway backed by the Razorpay SDK.
func NewRazorpay(keyID, keySecret string) *RazorpayGateway {
	return &RazorpayGateway{client: razorpay.NewClient(keyID, keySecret)}
}

// CreateOrder opens a remote order for the given amount in minor units.
func (g *RazorpayGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*Order, error) {
	data := map[string]interface{}{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
	}

	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay create order: %w", err)
	}

	id, ok := body["id"].(string)
	if !ok || id == "" {
		return nil, fmt.Errorf("razorpay create order: missing id in response")
	}

	order := &Order{
		ID:       id,
		Amount:   amount,
		Currency: currency,
		Receipt:  receipt,
	}
	if amt, ok := body["amount"].(float64); ok {
		order.Amount = int64(amt)
	}
	return order, nil
}
