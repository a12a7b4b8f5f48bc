package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/threadcart/commerce-service/internal/domain"
	"github.com/threadcart/commerce-service/internal/service"
)

func TestCartAddItem_ValidatesVariant(t *testing.T) {
	productID := uuid.NewString()
	colorID := uuid.NewString()

	productStore := new(MockProductStore)
	cartStore := new(MockCartStore)
	productStore.On("GetProduct", mock.Anything, productID).Return(testProduct(productID, colorID, 5), nil)
	cartStore.On("PutItem", mock.Anything, mock.AnythingOfType("*domain.CartItem")).Return(nil).Once()

	svc := service.NewCartService(cartStore, productStore, zap.NewNop())

	item, err := svc.AddItem(context.Background(), "user-1", domain.AddCartItemRequest{
		ProductID: productID,
		ColorID:   colorID,
		Size:      "M",
		Qty:       2,
	})

	require.NoError(t, err)
	assert.Equal(t, "user-1", item.UserID)
	assert.Equal(t, 2, item.Qty)
	assert.NotEmpty(t, item.CartID)
	cartStore.AssertExpectations(t)
}

func TestCartAddItem_RejectsUnknownColor(t *testing.T) {
	productID := uuid.NewString()
	colorID := uuid.NewString()

	productStore := new(MockProductStore)
	cartStore := new(MockCartStore)
	productStore.On("GetProduct", mock.Anything, productID).Return(testProduct(productID, colorID, 5), nil)

	svc := service.NewCartService(cartStore, productStore, zap.NewNop())

	_, err := svc.AddItem(context.Background(), "user-1", domain.AddCartItemRequest{
		ProductID: productID,
		ColorID:   uuid.NewString(),
		Size:      "M",
		Qty:       1,
	})

	assert.ErrorIs(t, err, domain.ErrInvalidColor)
	cartStore.AssertNotCalled(t, "PutItem", mock.Anything, mock.Anything)
}

func TestCartUpdateItem_ZeroQtyRemovesLine(t *testing.T) {
	productID := uuid.NewString()
	colorID := uuid.NewString()
	cartID := uuid.NewString()

	existing := &domain.CartItem{
		CartID:    cartID,
		UserID:    "user-1",
		ProductID: productID,
		ColorID:   colorID,
		Size:      "M",
		Qty:       2,
	}

	productStore := new(MockProductStore)
	cartStore := new(MockCartStore)
	cartStore.On("GetItem", mock.Anything, cartID, "user-1").Return(existing, nil)
	cartStore.On("DeleteItem", mock.Anything, cartID, "user-1").Return(nil).Once()

	svc := service.NewCartService(cartStore, productStore, zap.NewNop())

	item, err := svc.UpdateItem(context.Background(), "user-1", cartID, domain.UpdateCartItemRequest{
		ColorID: colorID,
		Size:    "M",
		Qty:     0,
	})

	require.NoError(t, err)
	assert.Nil(t, item)
	cartStore.AssertExpectations(t)
	// No stock movement on cart operations.
	productStore.AssertNotCalled(t, "ReserveStock", mock.Anything, mock.Anything, mock.Anything)
	productStore.AssertNotCalled(t, "ReleaseStock", mock.Anything, mock.Anything, mock.Anything)
}

func TestCartUpdateItem_RevalidatesVariant(t *testing.T) {
	productID := uuid.NewString()
	colorID := uuid.NewString()
	cartID := uuid.NewString()

	existing := &domain.CartItem{
		CartID:    cartID,
		UserID:    "user-1",
		ProductID: productID,
		ColorID:   colorID,
		Size:      "M",
		Qty:       2,
	}

	productStore := new(MockProductStore)
	cartStore := new(MockCartStore)
	cartStore.On("GetItem", mock.Anything, cartID, "user-1").Return(existing, nil)
	productStore.On("GetProduct", mock.Anything, productID).Return(testProduct(productID, colorID, 5), nil)

	svc := service.NewCartService(cartStore, productStore, zap.NewNop())

	// c1 has no XL.
	_, err := svc.UpdateItem(context.Background(), "user-1", cartID, domain.UpdateCartItemRequest{
		ColorID: colorID,
		Size:    "XL",
		Qty:     1,
	})

	assert.ErrorIs(t, err, domain.ErrInvalidSize)
	cartStore.AssertNotCalled(t, "PutItem", mock.Anything, mock.Anything)
}
