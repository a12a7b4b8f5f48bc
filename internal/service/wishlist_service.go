package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/threadcart/commerce-service/internal/domain"
	"github.com/threadcart/commerce-service/internal/repository"
	"go.uber.org/zap"
)

var ErrWishlistItemNotFound = errors.New("wishlist item not found")

type WishlistStore interface {
	PutItem(ctx context.Context, item *domain.WishlistItem) error
	ListByUser(ctx context.Context, userID string) ([]domain.WishlistItem, error)
	DeleteItem(ctx context.Context, wishlistID, userID string) error
}

type WishlistService struct {
	wishlistRepo WishlistStore
	productStore ProductStore
	logger       *zap.Logger
}

func NewWishlistService(wishlistRepo WishlistStore, productStore ProductStore, logger *zap.Logger) *WishlistService {
	return &WishlistService{
		wishlistRepo: wishlistRepo,
		productStore: productStore,
		logger:       logger,
	}
}

func (s *WishlistService) AddItem(ctx context.Context, userID string, req domain.AddWishlistItemRequest) (*domain.WishlistItem, error) {
	if _, err := uuid.Parse(req.ProductID); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidProductID, req.ProductID)
	}

	if _, err := s.productStore.GetProduct(ctx, req.ProductID); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	item := &domain.WishlistItem{
		WishlistID: uuid.NewString(),
		UserID:     userID,
		ProductID:  req.ProductID,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.wishlistRepo.PutItem(ctx, item); err != nil {
		s.logger.Error("Failed to add wishlist item",
			zap.String("user_id", userID),
			zap.String("product_id", req.ProductID),
			zap.Error(err))
		return nil, err
	}

	return item, nil
}

func (s *WishlistService) ListItems(ctx context.Context, userID string) ([]domain.WishlistItem, error) {
	return s.wishlistRepo.ListByUser(ctx, userID)
}

func (s *WishlistService) RemoveItem(ctx context.Context, userID, wishlistID string) error {
	if err := s.wishlistRepo.DeleteItem(ctx, wishlistID, userID); err != nil {
		if errors.Is(err, repository.ErrWishlistItemNotFound) {
			return ErrWishlistItemNotFound
		}
		return err
	}
	return nil
}
