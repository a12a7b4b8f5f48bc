package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/threadcart/commerce-service/internal/domain"
	"github.com/threadcart/commerce-service/internal/service"
	"go.uber.org/zap"
)

type CategoryHandler struct {
	categoryService *service.CategoryService
	logger          *zap.Logger
}

func NewCategoryHandler(categoryService *service.CategoryService, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		logger:          logger,
	}
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req domain.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c)
		return
	}

	category, err := h.categoryService.CreateCategory(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, category)
}

func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.categoryService.ListCategories(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list categories", zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, categories)
}

func (h *CategoryHandler) CreateSubcategory(c *gin.Context) {
	var req domain.CreateSubcategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c)
		return
	}

	sub, err := h.categoryService.CreateSubcategory(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, sub)
}

func (h *CategoryHandler) ListSubcategories(c *gin.Context) {
	subs, err := h.categoryService.ListSubcategories(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list subcategories", zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, subs)
}
