package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderStatus represents the payment status of an order.
type OrderStatus string

const (
	OrderStatusPending OrderStatus = "pending"
	OrderStatusPaid    OrderStatus = "paid"
	OrderStatusFailed  OrderStatus = "failed"
)

// Order represents a purchase with its payment state machine.
// An order is created in pending status with a gateway order already
// opened; it moves to paid only after signature verification.
type Order struct {
	ID               uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	BuyerID          uuid.UUID       `json:"buyer_id" gorm:"type:char(36);not null;index"`
	ProductID        uuid.UUID       `json:"product_id" gorm:"type:char(36);not null;index"`
	Quantity         int             `json:"quantity" gorm:"not null;default:1"`
	Amount           decimal.Decimal `json:"amount" gorm:"type:decimal(20,2);not null"`
	Status           OrderStatus     `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	PaymentMethod    string          `json:"payment_method" gorm:"size:50"`
	GatewayOrderID   string          `json:"gateway_order_id" gorm:"size:64;index"`
	GatewayPaymentID string          `json:"gateway_payment_id,omitempty" gorm:"size:64"`
	GatewaySignature string          `json:"-" gorm:"size:128"`
	Delivered        bool            `json:"delivered" gorm:"default:false"`
	ShippingAddress  string          `json:"shipping_address,omitempty" gorm:"size:512"`
	ShippingPhone    string          `json:"shipping_phone,omitempty" gorm:"size:15"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	DeletedAt        gorm.DeletedAt  `json:"-" gorm:"index"`

	// Relations
	Buyer   User    `json:"-" gorm:"foreignKey:BuyerID"`
	Product Product `json:"-" gorm:"foreignKey:ProductID"`
}

// BeforeCreate sets UUID before creating the record.
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// OrderEvent records a state transition of an order.
// Every transition is logged regardless of outcome.
type OrderEvent struct {
	ID        uuid.UUID      `json:"id" gorm:"type:char(36);primaryKey"`
	OrderID   uuid.UUID      `json:"order_id" gorm:"type:char(36);not null;index"`
	Status    OrderStatus    `json:"status" gorm:"type:varchar(20);not null;index"`
	Note      string         `json:"note,omitempty" gorm:"type:text"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// BeforeCreate sets UUID before creating the record.
func (e *OrderEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
