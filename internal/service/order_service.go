package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"digikart/internal/errors"
	"digikart/internal/gateway"
	"digikart/internal/metrics"
	"digikart/internal/model"
	"digikart/internal/repository"
)

const orderCurrency = "INR"

// OrderService orchestrates order creation against the payment gateway
// and signature-based payment verification.
type OrderService interface {
	CreateOrder(ctx context.Context, buyerID, productID uuid.UUID, quantity int, amount decimal.Decimal, method, shippingAddress, shippingPhone string) (*model.Order, *gateway.Order, error)
	VerifyPayment(ctx context.Context, orderID uuid.UUID, gatewayOrderID, gatewayPaymentID, signature string) (*model.Order, error)
	DeleteOrder(ctx context.Context, id uuid.UUID) error
	ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]model.Order, error)
	ListAll(ctx context.Context) ([]model.Order, error)
	Close()
}

type orderService struct {
	orders        repository.OrderRepository
	events        repository.OrderEventRepository
	products      repository.ProductRepository
	gateway       gateway.Gateway
	gatewaySecret []byte
	log           zerolog.Logger
	// Channel for async event logging
	eventChannel chan model.OrderEvent
	workerDone   chan struct{}
	closeOnce    sync.Once
}

// NewOrderService creates a new order service.
func NewOrderService(
	orders repository.OrderRepository,
	events repository.OrderEventRepository,
	products repository.ProductRepository,
	gw gateway.Gateway,
	gatewaySecret string,
	log zerolog.Logger,
) OrderService {
	service := &orderService{
		orders:        orders,
		events:        events,
		products:      products,
		gateway:       gw,
		gatewaySecret: []byte(gatewaySecret),
		log:           log,
		eventChannel:  make(chan model.OrderEvent, 100),
		workerDone:    make(chan struct{}),
	}

	// Start async event log worker
	go service.eventWorker(context.Background())

	return service
}

// Close stops the event worker after flushing queued events. Safe to
// call more than once.
func (s *orderService) Close() {
	s.closeOnce.Do(func() { close(s.workerDone) })
}

// eventWorker batches order events and flushes them periodically until
// Close is called.
func (s *orderService) eventWorker(ctx context.Context) {
	batch := make([]model.OrderEvent, 0, 10)
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case event := <-s.eventChannel:
			batch = append(batch, event)
			if len(batch) >= 10 {
				_ = s.events.CreateBatch(ctx, batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				_ = s.events.CreateBatch(ctx, batch)
				batch = batch[:0]
			}
		case <-s.workerDone:
			// Drain anything already queued, flush, exit.
			for {
				select {
				case event := <-s.eventChannel:
					batch = append(batch, event)
				default:
					if len(batch) > 0 {
						_ = s.events.CreateBatch(ctx, batch)
					}
					return
				}
			}
		}
	}
}

// recordEvent queues an event without blocking the request path.
func (s *orderService) recordEvent(orderID uuid.UUID, status model.OrderStatus, note string) {
	select {
	case s.eventChannel <- model.OrderEvent{OrderID: orderID, Status: status, Note: note}:
	default:
		s.log.Warn().Str("order_id", orderID.String()).Msg("event channel full, dropping order event")
	}
}

// CreateOrder opens a remote gateway order and persists a local order in
// pending status. The gateway order id is assigned before any client-side
// payment attempt.
func (s *orderService) CreateOrder(ctx context.Context, buyerID, productID uuid.UUID, quantity int, amount decimal.Decimal, method, shippingAddress, shippingPhone string) (*model.Order, *gateway.Order, error) {
	if quantity <= 0 {
		quantity = 1
	}

	if _, err := s.products.FindByID(ctx, productID); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, errors.ErrProductNotFound
		}
		return nil, nil, fmt.Errorf("find product: %w", err)
	}

	// The gateway bills in minor units.
	minorUnits := amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	receipt := fmt.Sprintf("rcpt_%d", time.Now().UnixNano())

	gatewayOrder, err := s.gateway.CreateOrder(ctx, minorUnits, orderCurrency, receipt)
	if err != nil {
		return nil, nil, fmt.Errorf("open gateway order: %w", err)
	}

	order := &model.Order{
		ID:              uuid.New(),
		BuyerID:         buyerID,
		ProductID:       productID,
		Quantity:        quantity,
		Amount:          amount,
		Status:          model.OrderStatusPending,
		PaymentMethod:   method,
		GatewayOrderID:  gatewayOrder.ID,
		ShippingAddress: shippingAddress,
		ShippingPhone:   shippingPhone,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, nil, fmt.Errorf("create order: %w", err)
	}

	s.recordEvent(order.ID, model.OrderStatusPending, "gateway order "+gatewayOrder.ID+" opened")
	metrics.OrdersCreatedTotal.Inc()

	return order, gatewayOrder, nil
}

// VerifyPayment checks the gateway signature and transitions the order to
// paid. A paid order is immutable: a later verify call can never reset it,
// and a valid repeat confirmation is answered idempotently.
func (s *orderService) VerifyPayment(ctx context.Context, orderID uuid.UUID, gatewayOrderID, gatewayPaymentID, signature string) (*model.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}

	// A signature is only proof of payment for the gateway order this
	// order was opened with; one valid for another order must not
	// confirm this one.
	if gatewayOrderID != order.GatewayOrderID {
		s.recordEvent(order.ID, order.Status, "gateway order id mismatch")
		metrics.PaymentVerifyFailuresTotal.Inc()
		return nil, errors.ErrSignatureMismatch
	}

	if !gateway.VerifySignature(gatewayOrderID, gatewayPaymentID, signature, s.gatewaySecret) {
		s.recordEvent(order.ID, order.Status, "signature verification failed")
		metrics.PaymentVerifyFailuresTotal.Inc()
		return nil, errors.ErrSignatureMismatch
	}

	if order.Status == model.OrderStatusPaid {
		return order, nil
	}

	order.GatewayPaymentID = gatewayPaymentID
	order.GatewaySignature = signature
	order.Status = model.OrderStatusPaid

	if err := s.orders.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}

	s.recordEvent(order.ID, model.OrderStatusPaid, "payment "+gatewayPaymentID+" verified")
	metrics.PaymentsVerifiedTotal.Inc()

	return order, nil
}

// DeleteOrder removes an order. The client calls this as compensation
// when the hosted payment UI reports failure or cancellation, so pending
// orders are not left orphaned.
func (s *orderService) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrOrderNotFound
		}
		return fmt.Errorf("find order: %w", err)
	}

	if err := s.orders.Delete(ctx, order.ID); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}

	s.recordEvent(order.ID, model.OrderStatusFailed, "order removed")
	return nil
}

// ListByBuyer returns the caller's orders. An empty result is not an error.
func (s *orderService) ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]model.Order, error) {
	return s.orders.ListByBuyer(ctx, buyerID)
}

// ListAll returns every order. An empty result is not an error.
func (s *orderService) ListAll(ctx context.Context) ([]model.Order, error) {
	return s.orders.ListAll(ctx)
}
