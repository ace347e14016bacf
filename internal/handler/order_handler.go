package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"digikart/internal/errors"
	mw "digikart/internal/middleware"
	"digikart/internal/service"
)

// OrderHandler handles order and payment endpoints.
type OrderHandler struct {
	orderService service.OrderService
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// CreateOrderRequest represents a checkout start request.
type CreateOrderRequest struct {
	ProductID       string  `json:"productId" validate:"required,uuid"`
	Quantity        int     `json:"quantity" validate:"omitempty,min=1"`
	Amount          float64 `json:"amount" validate:"required,gt=0"`
	PaymentMethod   string  `json:"paymentMethod"`
	ShippingAddress string  `json:"shippingAddress"`
	ShippingPhone   string  `json:"shippingPhone" validate:"omitempty,numeric,len=10"`
}

// VerifyPaymentRequest carries the gateway-supplied identifiers from the
// payment callback.
type VerifyPaymentRequest struct {
	OrderID          string `json:"orderId" validate:"required,uuid"`
	GatewayOrderID   string `json:"gatewayOrderId" validate:"required"`
	GatewayPaymentID string `json:"gatewayPaymentId" validate:"required"`
	GatewaySignature string `json:"gatewaySignature" validate:"required"`
}

// CreateOrder godoc
// @Summary Open an order and a gateway order
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateOrderRequest true "Order data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /orders/create [post]
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	user, ok := mw.CurrentUser(c)
	if !ok {
		return errors.NewHTTPError(http.StatusUnauthorized, "You are not logged in! Please log in to get access.")
	}

	var req CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return errors.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return errors.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return errors.NewHTTPError(http.StatusBadRequest, "invalid productId")
	}

	order, gatewayOrder, err := h.orderService.CreateOrder(
		c.Request().Context(),
		user.ID,
		productID,
		req.Quantity,
		decimal.NewFromFloat(req.Amount),
		req.PaymentMethod,
		req.ShippingAddress,
		req.ShippingPhone,
	)
	if err != nil {
		return errors.MapErrorToHTTP(err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success":      true,
		"order":        order,
		"gatewayOrder": gatewayOrder,
	})
}

// VerifyPayment godoc
// @Summary Confirm a payment by signature
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body VerifyPaymentRequest true "Gateway callback data"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /orders/verify-payment [post]
func (h *OrderHandler) VerifyPayment(c echo.Context) error {
	var req VerifyPaymentRequest
	if err := c.Bind(&req); err != nil {
		return errors.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return errors.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		return errors.NewHTTPError(http.StatusBadRequest, "invalid orderId")
	}

	order, err := h.orderService.VerifyPayment(
		c.Request().Context(), orderID, req.GatewayOrderID, req.GatewayPaymentID, req.GatewaySignature)
	if err != nil {
		return errors.MapErrorToHTTP(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"order":   order,
	})
}

// DeleteOrder godoc
// @Summary Remove an order
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /orders/{id} [delete]
func (h *OrderHandler) DeleteOrder(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return errors.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	if err := h.orderService.DeleteOrder(c.Request().Context(), id); err != nil {
		return errors.MapErrorToHTTP(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "order deleted",
	})
}

// MyOrders godoc
// @Summary List the caller's orders
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} errors.ErrorResponse
// @Router /orders/my-orders [get]
func (h *OrderHandler) MyOrders(c echo.Context) error {
	user, ok := mw.CurrentUser(c)
	if !ok {
		return errors.NewHTTPError(http.StatusUnauthorized, "You are not logged in! Please log in to get access.")
	}

	orders, err := h.orderService.ListByBuyer(c.Request().Context(), user.ID)
	if err != nil {
		return errors.MapErrorToHTTP(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"orders":  orders,
	})
}

// AllOrders godoc
// @Summary List every order
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /orders [get]
func (h *OrderHandler) AllOrders(c echo.Context) error {
	orders, err := h.orderService.ListAll(c.Request().Context())
	if err != nil {
		return errors.MapErrorToHTTP(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"orders":  orders,
	})
}
