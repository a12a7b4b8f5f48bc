package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/threadcart/commerce-service/internal/domain"
	"go.uber.org/zap"
)

type CategoryStore interface {
	CreateCategory(ctx context.Context, category *domain.Category) error
	CreateSubcategory(ctx context.Context, sub *domain.Subcategory) error
	ListCategories(ctx context.Context) ([]domain.Category, error)
	ListSubcategories(ctx context.Context) ([]domain.Subcategory, error)
}

type CategoryService struct {
	categoryRepo CategoryStore
	logger       *zap.Logger
}

func NewCategoryService(categoryRepo CategoryStore, logger *zap.Logger) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		logger:       logger,
	}
}

func (s *CategoryService) CreateCategory(ctx context.Context, req domain.CreateCategoryRequest) (*domain.Category, error) {
	category := &domain.Category{
		CategoryID: uuid.NewString(),
		Name:       req.Name,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.categoryRepo.CreateCategory(ctx, category); err != nil {
		s.logger.Error("Failed to create category", zap.String("name", req.Name), zap.Error(err))
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) CreateSubcategory(ctx context.Context, req domain.CreateSubcategoryRequest) (*domain.Subcategory, error) {
	sub := &domain.Subcategory{
		SubcategoryID: uuid.NewString(),
		CategoryID:    req.CategoryID,
		Name:          req.Name,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.categoryRepo.CreateSubcategory(ctx, sub); err != nil {
		s.logger.Error("Failed to create subcategory", zap.String("name", req.Name), zap.Error(err))
		return nil, err
	}
	return sub, nil
}

func (s *CategoryService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categoryRepo.ListCategories(ctx)
}

func (s *CategoryService) ListSubcategories(ctx context.Context) ([]domain.Subcategory, error) {
	return s.categoryRepo.ListSubcategories(ctx)
}
