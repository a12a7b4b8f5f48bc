package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/threadcart/commerce-service/internal/domain"
	"github.com/threadcart/commerce-service/internal/service"
	"github.com/threadcart/commerce-service/pkg/middleware"
	"go.uber.org/zap"
)

type CartHandler struct {
	cartService *service.CartService
	logger      *zap.Logger
}

func NewCartHandler(cartService *service.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		logger:      logger,
	}
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var req domain.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c)
		return
	}

	item, err := h.cartService.AddItem(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Product added to cart",
		"data":    item,
	})
}

func (h *CartHandler) ListItems(c *gin.Context) {
	items, err := h.cartService.ListItems(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.logger.Error("Failed to list cart", zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

func (h *CartHandler) UpdateItem(c *gin.Context) {
	var req domain.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c)
		return
	}

	item, err := h.cartService.UpdateItem(c.Request.Context(), middleware.UserID(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	if item == nil {
		c.JSON(http.StatusOK, gin.H{"message": "Product removed from cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart updated",
		"data":    item,
	})
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	if err := h.cartService.RemoveItem(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product removed from cart"})
}
