package model

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestUser_JSONHidesSecrets(t *testing.T) {
	user := User{
		ID:           uuid.New(),
		Name:         "Alice",
		Mobile:       "9999999999",
		Email:        "alice@example.com",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		Role:         RoleUser,
		RefreshToken: "eyJhbGciOiJIUzI1NiJ9.live.token",
		Active:       true,
	}

	body, err := json.Marshal(user)
	assert.NoError(t, err)

	var fields map[string]interface{}
	assert.NoError(t, json.Unmarshal(body, &fields))

	assert.Contains(t, fields, "id")
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "role")
	for key := range fields {
		assert.NotContains(t, string(body), user.PasswordHash, "password hash leaked via %q", key)
		assert.NotContains(t, string(body), user.RefreshToken, "refresh token leaked via %q", key)
	}
}

func TestOrder_JSONHidesSignature(t *testing.T) {
	order := Order{
		ID:               uuid.New(),
		BuyerID:          uuid.New(),
		ProductID:        uuid.New(),
		Quantity:         1,
		Amount:           decimal.NewFromInt(499),
		Status:           OrderStatusPaid,
		GatewayOrderID:   "order_gw1",
		GatewayPaymentID: "pay_1",
		GatewaySignature: "deadbeefdeadbeefdeadbeef",
	}

	body, err := json.Marshal(order)
	assert.NoError(t, err)

	assert.Contains(t, string(body), "order_gw1")
	assert.Contains(t, string(body), "pay_1")
	assert.NotContains(t, string(body), order.GatewaySignature)
}

func TestUser_IsAdmin(t *testing.T) {
	assert.True(t, (&User{Role: RoleAdmin}).IsAdmin())
	assert.False(t, (&User{Role: RoleUser}).IsAdmin())
	assert.False(t, (&User{}).IsAdmin())
}
