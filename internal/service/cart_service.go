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

var ErrCartItemNotFound = errors.New("cart item not found")

type CartStore interface {
	PutItem(ctx context.Context, item *domain.CartItem) error
	GetItem(ctx context.Context, cartID, userID string) (*domain.CartItem, error)
	ListByUser(ctx context.Context, userID string) ([]domain.CartItem, error)
	DeleteItem(ctx context.Context, cartID, userID string) error
}

type CartService struct {
	cartRepo     CartStore
	productStore ProductStore
	logger       *zap.Logger
}

func NewCartService(cartRepo CartStore, productStore ProductStore, logger *zap.Logger) *CartService {
	return &CartService{
		cartRepo:     cartRepo,
		productStore: productStore,
		logger:       logger,
	}
}

// AddItem validates the requested variant against the live product before
// storing the cart line. Stock is not checked and not reserved: carts only
// claim inventory at order confirmation.
func (s *CartService) AddItem(ctx context.Context, userID string, req domain.AddCartItemRequest) (*domain.CartItem, error) {
	if err := s.validateVariant(ctx, req.ProductID, req.ColorID, req.Size); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	item := &domain.CartItem{
		CartID:    uuid.NewString(),
		UserID:    userID,
		ProductID: req.ProductID,
		ColorID:   req.ColorID,
		Size:      req.Size,
		Qty:       req.Qty,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.cartRepo.PutItem(ctx, item); err != nil {
		s.logger.Error("Failed to add cart item",
			zap.String("user_id", userID),
			zap.String("product_id", req.ProductID),
			zap.Error(err))
		return nil, err
	}

	return item, nil
}

func (s *CartService) ListItems(ctx context.Context, userID string) ([]domain.CartItem, error) {
	return s.cartRepo.ListByUser(ctx, userID)
}

func (s *CartService) GetItem(ctx context.Context, userID, cartID string) (*domain.CartItem, error) {
	item, err := s.cartRepo.GetItem(ctx, cartID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrCartItemNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, err
	}
	return item, nil
}

// UpdateItem re-validates the variant and replaces the line; qty 0 removes it.
func (s *CartService) UpdateItem(ctx context.Context, userID, cartID string, req domain.UpdateCartItemRequest) (*domain.CartItem, error) {
	item, err := s.GetItem(ctx, userID, cartID)
	if err != nil {
		return nil, err
	}

	if req.Qty == 0 {
		if err := s.cartRepo.DeleteItem(ctx, cartID, userID); err != nil {
			return nil, err
		}
		return nil, nil
	}

	if err := s.validateVariant(ctx, item.ProductID, req.ColorID, req.Size); err != nil {
		return nil, err
	}

	item.ColorID = req.ColorID
	item.Size = req.Size
	item.Qty = req.Qty
	item.UpdatedAt = time.Now().UTC()

	if err := s.cartRepo.PutItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID, cartID string) error {
	if err := s.cartRepo.DeleteItem(ctx, cartID, userID); err != nil {
		if errors.Is(err, repository.ErrCartItemNotFound) {
			return ErrCartItemNotFound
		}
		return err
	}
	return nil
}

func (s *CartService) validateVariant(ctx context.Context, productID, colorID, size string) error {
	if _, err := uuid.Parse(productID); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidProductID, productID)
	}

	product, err := s.productStore.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	if _, _, _, err := product.ResolveVariant(colorID, size); err != nil {
		return &ResolutionError{ProductID: productID, Reason: err}
	}
	return nil
}
