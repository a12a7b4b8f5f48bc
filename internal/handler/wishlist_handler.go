package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/threadcart/commerce-service/internal/domain"
	"github.com/threadcart/commerce-service/internal/service"
	"github.com/threadcart/commerce-service/pkg/middleware"
	"go.uber.org/zap"
)

type WishlistHandler struct {
	wishlistService *service.WishlistService
	logger          *zap.Logger
}

func NewWishlistHandler(wishlistService *service.WishlistService, logger *zap.Logger) *WishlistHandler {
	return &WishlistHandler{
		wishlistService: wishlistService,
		logger:          logger,
	}
}

func (h *WishlistHandler) AddItem(c *gin.Context) {
	var req domain.AddWishlistItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c)
		return
	}

	item, err := h.wishlistService.AddItem(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Product added to wishlist",
		"data":    item,
	})
}

func (h *WishlistHandler) ListItems(c *gin.Context) {
	items, err := h.wishlistService.ListItems(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.logger.Error("Failed to list wishlist", zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

func (h *WishlistHandler) RemoveItem(c *gin.Context) {
	if err := h.wishlistService.RemoveItem(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product removed from wishlist"})
}
