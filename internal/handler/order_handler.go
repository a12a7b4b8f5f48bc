package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/threadcart/commerce-service/internal/domain"
	"github.com/threadcart/commerce-service/internal/service"
	"github.com/threadcart/commerce-service/pkg/middleware"
	"go.uber.org/zap"
)

type OrderHandler struct {
	orderService *service.OrderService
	logger       *zap.Logger
}

func NewOrderHandler(orderService *service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// CreatePaymentIntent registers the cart total with the payment gateway and
// returns the provider order the client pays against. Stock is untouched.
func (h *OrderHandler) CreatePaymentIntent(c *gin.Context) {
	var req domain.PaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c)
		return
	}

	userID := middleware.UserID(c)
	intent, err := h.orderService.CreatePaymentIntent(c.Request.Context(), userID, req)
	if err != nil {
		h.logger.Error("Failed to create payment intent",
			zap.String("user_id", userID),
			zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, intent)
}

// ConfirmOrder verifies the payment confirmation and commits the cart into
// order records with stock debited, all-or-nothing.
func (h *OrderHandler) ConfirmOrder(c *gin.Context) {
	var req domain.ConfirmOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c)
		return
	}

	userID := middleware.UserID(c)
	orders, err := h.orderService.PlaceOrder(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"data":    orders,
	})
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	userID := middleware.UserID(c)

	orders, err := h.orderService.ListOrders(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list orders",
			zap.String("user_id", userID),
			zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	orderID := c.Param("id")
	userID := middleware.UserID(c)

	order, err := h.orderService.GetOrder(c.Request.Context(), userID, orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	orderID := c.Param("id")
	userID := middleware.UserID(c)

	var req domain.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c)
		return
	}

	order, err := h.orderService.UpdateOrderStatus(c.Request.Context(), userID, orderID, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order updated successfully",
		"data":    order,
	})
}
