package service_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/threadcart/commerce-service/internal/domain"
	"github.com/threadcart/commerce-service/internal/payment"
	"github.com/threadcart/commerce-service/internal/repository"
	"github.com/threadcart/commerce-service/internal/service"
)

const testSecret = "test-secret"

func sign(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func testProduct(productID, colorID string, stockM int) *domain.Product {
	return &domain.Product{
		ProductID:   productID,
		Title:       "Linen Shirt",
		Description: "Relaxed fit",
		Gender:      domain.GenderUnisex,
		ColorOptions: []domain.ColorVariant{
			{
				ColorID: colorID,
				Color:   "Red",
				Hex:     "#c0392b",
				Price:   domain.Price{OriginalPrice: 1999, DiscountedPrice: 1499},
				SizeOptions: []domain.SizeVariant{
					{Size: "S", Stock: 1},
					{Size: "M", Stock: stockM},
				},
				Images: []string{"red-front.jpg"},
			},
		},
	}
}

func variantRef(productID, colorID string) domain.VariantRef {
	return domain.VariantRef{
		ProductID:  productID,
		ColorID:    colorID,
		ColorIndex: 0,
		Size:       "M",
		SizeIndex:  1,
	}
}

func newOrderService(orderStore *MockOrderStore, productStore *MockProductStore, provider *MockPaymentProvider) *service.OrderService {
	return service.NewOrderService(orderStore, productStore, provider, nil, testSecret, "INR", zap.NewNop())
}

func TestPlaceOrder_Success(t *testing.T) {
	productID := uuid.NewString()
	colorID := uuid.NewString()
	ref := variantRef(productID, colorID)

	productStore := new(MockProductStore)
	orderStore := new(MockOrderStore)

	productStore.On("GetProduct", mock.Anything, productID).Return(testProduct(productID, colorID, 5), nil)
	productStore.On("ReserveStock", mock.Anything, ref, 3).Return(nil).Once()
	orderStore.On("CreateOrders", mock.Anything, mock.AnythingOfType("[]*domain.Order")).Return(nil).Once()

	svc := newOrderService(orderStore, productStore, nil)

	req := domain.ConfirmOrderRequest{
		RazorpayOrderID:   "order_abc",
		RazorpayPaymentID: "pay_xyz",
		Signature:         sign("order_abc", "pay_xyz", testSecret),
		Items: []domain.OrderRequestItem{
			{ProductID: productID, ColorID: colorID, Size: "M", Qty: 3},
		},
	}

	orders, err := svc.PlaceOrder(context.Background(), "user-1", req)

	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, domain.StatusPlaced, orders[0].Status)
	assert.Equal(t, "user-1", orders[0].UserID)
	assert.Equal(t, 3, orders[0].Qty)
	assert.Equal(t, 1499.0, orders[0].UnitPrice)
	assert.Equal(t, colorID, orders[0].Color.ColorID)
	assert.Empty(t, orders[0].Color.SizeOptions, "order snapshot must not carry the live size tree")
	assert.Equal(t, "order_abc", orders[0].RazorpayOrderID)
	assert.Equal(t, "pay_xyz", orders[0].RazorpayPaymentID)
	productStore.AssertExpectations(t)
	orderStore.AssertExpectations(t)
	productStore.AssertNotCalled(t, "ReleaseStock", mock.Anything, mock.Anything, mock.Anything)
}

func TestPlaceOrder_SignatureMismatch(t *testing.T) {
	productStore := new(MockProductStore)
	orderStore := new(MockOrderStore)
	svc := newOrderService(orderStore, productStore, nil)

	good := sign("order_abc", "pay_xyz", testSecret)
	// Flip one hex digit.
	var mutated string
	if good[0] == 'a' {
		mutated = "b" + good[1:]
	} else {
		mutated = "a" + good[1:]
	}

	req := domain.ConfirmOrderRequest{
		RazorpayOrderID:   "order_abc",
		RazorpayPaymentID: "pay_xyz",
		Signature:         mutated,
		Items: []domain.OrderRequestItem{
			{ProductID: uuid.NewString(), ColorID: uuid.NewString(), Size: "M", Qty: 1},
		},
	}

	orders, err := svc.PlaceOrder(context.Background(), "user-1", req)

	assert.ErrorIs(t, err, service.ErrSignatureMismatch)
	assert.Nil(t, orders)
	productStore.AssertNotCalled(t, "GetProduct", mock.Anything, mock.Anything)
	productStore.AssertNotCalled(t, "ReserveStock", mock.Anything, mock.Anything, mock.Anything)
}

func TestPlaceOrder_EmptyItems(t *testing.T) {
	svc := newOrderService(new(MockOrderStore), new(MockProductStore), nil)

	req := domain.ConfirmOrderRequest{
		RazorpayOrderID:   "order_abc",
		RazorpayPaymentID: "pay_xyz",
		Signature:         sign("order_abc", "pay_xyz", testSecret),
	}

	_, err := svc.PlaceOrder(context.Background(), "user-1", req)
	assert.ErrorIs(t, err, service.ErrEmptyOrder)
}

func TestPlaceOrder_UnknownProduct(t *testing.T) {
	productID := uuid.NewString()

	productStore := new(MockProductStore)
	orderStore := new(MockOrderStore)
	productStore.On("GetProduct", mock.Anything, productID).Return(nil, repository.ErrProductNotFound)

	svc := newOrderService(orderStore, productStore, nil)

	req := domain.ConfirmOrderRequest{
		RazorpayOrderID:   "order_abc",
		RazorpayPaymentID: "pay_xyz",
		Signature:         sign("order_abc", "pay_xyz", testSecret),
		Items: []domain.OrderRequestItem{
			{ProductID: productID, ColorID: uuid.NewString(), Size: "M", Qty: 1},
		},
	}

	_, err := svc.PlaceOrder(context.Background(), "user-1", req)

	assert.ErrorIs(t, err, repository.ErrProductNotFound)
	orderStore.AssertNotCalled(t, "CreateOrders", mock.Anything, mock.Anything)
}

func TestPlaceOrder_MalformedProductID(t *testing.T) {
	svc := newOrderService(new(MockOrderStore), new(MockProductStore), nil)

	req := domain.ConfirmOrderRequest{
		RazorpayOrderID:   "order_abc",
		RazorpayPaymentID: "pay_xyz",
		Signature:         sign("order_abc", "pay_xyz", testSecret),
		Items: []domain.OrderRequestItem{
			{ProductID: "not-a-uuid", ColorID: uuid.NewString(), Size: "M", Qty: 1},
		},
	}

	_, err := svc.PlaceOrder(context.Background(), "user-1", req)
	assert.ErrorIs(t, err, service.ErrInvalidProductID)
}

func TestPlaceOrder_InvalidColor(t *testing.T) {
	productID := uuid.NewString()
	colorID := uuid.NewString()

	productStore := new(MockProductStore)
	productStore.On("GetProduct", mock.Anything, productID).Return(testProduct(productID, colorID, 5), nil)

	svc := newOrderService(new(MockOrderStore), productStore, nil)

	req := domain.ConfirmOrderRequest{
		RazorpayOrderID:   "order_abc",
		RazorpayPaymentID: "pay_xyz",
		Signature:         sign("order_abc", "pay_xyz", testSecret),
		Items: []domain.OrderRequestItem{
			{ProductID: productID, ColorID: uuid.NewString(), Size: "M", Qty: 1},
		},
	}

	_, err := svc.PlaceOrder(context.Background(), "user-1", req)

	var resErr *service.ResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.Equal(t, productID, resErr.ProductID)
	assert.ErrorIs(t, err, domain.ErrInvalidColor)
}

func TestPlaceOrder_InvalidSizeForValidColor(t *testing.T) {
	productID := uuid.NewString()
	colorID := uuid.NewString()

	productStore := new(MockProductStore)
	productStore.On("GetProduct", mock.Anything, productID).Return(testProduct(productID, colorID, 5), nil)

	svc := newOrderService(new(MockOrderStore), productStore, nil)

	// XL is a legal label but this color only stocks S and M.
	req := domain.ConfirmOrderRequest{
		RazorpayOrderID:   "order_abc",
		RazorpayPaymentID: "pay_xyz",
		Signature:         sign("order_abc", "pay_xyz", testSecret),
		Items: []domain.OrderRequestItem{
			{ProductID: productID, ColorID: colorID, Size: "XL", Qty: 1},
		},
	}

	_, err := svc.PlaceOrder(context.Background(), "user-1", req)

	assert.ErrorIs(t, err, domain.ErrInvalidSize)
	assert.NotErrorIs(t, err, domain.ErrInvalidColor)
}

func TestPlaceOrder_InsufficientStock(t *testing.T) {
	productID := uuid.NewString()
	colorID := uuid.NewString()
	ref := variantRef(productID, colorID)

	productStore := new(MockProductStore)
	orderStore := new(MockOrderStore)
	productStore.On("GetProduct", mock.Anything, productID).Return(testProduct(productID, colorID, 2), nil)
	productStore.On("ReserveStock", mock.Anything, ref, 3).Return(repository.ErrInsufficientStock).Once()

	svc := newOrderService(orderStore, productStore, nil)

	req := domain.ConfirmOrderRequest{
		RazorpayOrderID:   "order_abc",
		RazorpayPaymentID: "pay_xyz",
		Signature:         sign("order_abc", "pay_xyz", testSecret),
		Items: []domain.OrderRequestItem{
			{ProductID: productID, ColorID: colorID, Size: "M", Qty: 3},
		},
	}

	_, err := svc.PlaceOrder(context.Background(), "user-1", req)

	var stockErr *service.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 3, stockErr.Requested)
	assert.Equal(t, 2, stockErr.Available)
	assert.Equal(t, productID, stockErr.ProductID)
	orderStore.AssertNotCalled(t, "CreateOrders", mock.Anything, mock.Anything)
	// Nothing was reserved for this single item, so nothing to release.
	productStore.AssertNotCalled(t, "ReleaseStock", mock.Anything, mock.Anything, mock.Anything)
}

func TestPlaceOrder_InsufficientStockReportsLiveCount(t *testing.T) {
	productID := uuid.NewString()
	colorID := uuid.NewString()
	ref := variantRef(productID, colorID)

	productStore := new(MockProductStore)
	orderStore := new(MockOrderStore)
	// The lookup saw 4 in stock, but a concurrent buyer got there first and
	// the store rejected the write with only 1 left. The response must carry
	// the store's count, not the stale read.
	productStore.On("GetProduct", mock.Anything, productID).Return(testProduct(productID, colorID, 4), nil)
	productStore.On("ReserveStock", mock.Anything, ref, 3).
		Return(&repository.StockShortfallError{Requested: 3, Available: 1}).Once()

	svc := newOrderService(orderStore, productStore, nil)

	req := domain.ConfirmOrderRequest{
		RazorpayOrderID:   "order_abc",
		RazorpayPaymentID: "pay_xyz",
		Signature:         sign("order_abc", "pay_xyz", testSecret),
		Items: []domain.OrderRequestItem{
			{ProductID: productID, ColorID: colorID, Size: "M", Qty: 3},
		},
	}

	_, err := svc.PlaceOrder(context.Background(), "user-1", req)

	var stockErr *service.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 1, stockErr.Available)
}

func TestPlaceOrder_NonPositiveQuantity(t *testing.T) {
	productID := uuid.NewString()

	productStore := new(MockProductStore)
	orderStore := new(MockOrderStore)
	svc := newOrderService(orderStore, productStore, nil)

	req := domain.ConfirmOrderRequest{
		RazorpayOrderID:   "order_abc",
		RazorpayPaymentID: "pay_xyz",
		Signature:         sign("order_abc", "pay_xyz", testSecret),
		Items: []domain.OrderRequestItem{
			{ProductID: productID, ColorID: uuid.NewString(), Size: "M", Qty: 0},
		},
	}

	_, err := svc.PlaceOrder(context.Background(), "user-1", req)

	assert.ErrorIs(t, err, service.ErrInvalidQuantity)
	productStore.AssertNotCalled(t, "GetProduct", mock.Anything, mock.Anything)
	productStore.AssertNotCalled(t, "ReserveStock", mock.Anything, mock.Anything, mock.Anything)
}

func TestPlaceOrder_RollbackOnLaterItemFailure(t *testing.T) {
	productID := uuid.NewString()
	colorID := uuid.NewString()
	ref := variantRef(productID, colorID)

	productStore := new(MockProductStore)
	orderStore := new(MockOrderStore)
	productStore.On("GetProduct", mock.Anything, productID).Return(testProduct(productID, colorID, 5), nil)
	productStore.On("ReserveStock", mock.Anything, ref, 2).Return(nil).Once()
	productStore.On("ReserveStock", mock.Anything, ref, 10).Return(repository.ErrInsufficientStock).Once()
	productStore.On("ReleaseStock", mock.Anything, ref, 2).Return(nil).Once()

	svc := newOrderService(orderStore, productStore, nil)

	req := domain.ConfirmOrderRequest{
		RazorpayOrderID:   "order_abc",
		RazorpayPaymentID: "pay_xyz",
		Signature:         sign("order_abc", "pay_xyz", testSecret),
		Items: []domain.OrderRequestItem{
			{ProductID: productID, ColorID: colorID, Size: "M", Qty: 2},
			{ProductID: productID, ColorID: colorID, Size: "M", Qty: 10},
		},
	}

	_, err := svc.PlaceOrder(context.Background(), "user-1", req)

	assert.ErrorIs(t, err, service.ErrInsufficientStock)
	productStore.AssertExpectations(t)
	orderStore.AssertNotCalled(t, "CreateOrders", mock.Anything, mock.Anything)
}

func TestPlaceOrder_RollbackOnPersistFailure(t *testing.T) {
	productID := uuid.NewString()
	colorID := uuid.NewString()
	ref := variantRef(productID, colorID)

	productStore := new(MockProductStore)
	orderStore := new(MockOrderStore)
	productStore.On("GetProduct", mock.Anything, productID).Return(testProduct(productID, colorID, 5), nil)
	productStore.On("ReserveStock", mock.Anything, ref, 3).Return(nil).Once()
	productStore.On("ReleaseStock", mock.Anything, ref, 3).Return(nil).Once()
	orderStore.On("CreateOrders", mock.Anything, mock.Anything).Return(errors.New("transact write failed")).Once()

	svc := newOrderService(orderStore, productStore, nil)

	req := domain.ConfirmOrderRequest{
		RazorpayOrderID:   "order_abc",
		RazorpayPaymentID: "pay_xyz",
		Signature:         sign("order_abc", "pay_xyz", testSecret),
		Items: []domain.OrderRequestItem{
			{ProductID: productID, ColorID: colorID, Size: "M", Qty: 3},
		},
	}

	orders, err := svc.PlaceOrder(context.Background(), "user-1", req)

	assert.Error(t, err)
	assert.Nil(t, orders)
	productStore.AssertExpectations(t)
}

func TestUpdateOrderStatus_CancelReleasesStockOnce(t *testing.T) {
	productID := uuid.NewString()
	colorID := uuid.NewString()
	ref := variantRef(productID, colorID)

	order := &domain.Order{
		OrderID:   uuid.NewString(),
		UserID:    "user-1",
		ProductID: productID,
		Color:     domain.ColorVariant{ColorID: colorID, Color: "Red"},
		Size:      "M",
		Qty:       3,
		Status:    domain.StatusPlaced,
	}

	productStore := new(MockProductStore)
	orderStore := new(MockOrderStore)
	orderStore.On("GetOrder", mock.Anything, order.OrderID).Return(order, nil)
	orderStore.On("UpdateOrderStatus", mock.Anything, order.OrderID, domain.StatusPlaced, domain.StatusCancelled).Return(nil).Once()
	productStore.On("GetProduct", mock.Anything, productID).Return(testProduct(productID, colorID, 2), nil)
	productStore.On("ReleaseStock", mock.Anything, ref, 3).Return(nil).Once()

	svc := newOrderService(orderStore, productStore, nil)

	updated, err := svc.UpdateOrderStatus(context.Background(), "user-1", order.OrderID, domain.StatusCancelled)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, updated.Status)
	productStore.AssertExpectations(t)
	orderStore.AssertExpectations(t)
}

func TestUpdateOrderStatus_CancelTwiceIsNoOp(t *testing.T) {
	order := &domain.Order{
		OrderID: uuid.NewString(),
		UserID:  "user-1",
		Status:  domain.StatusCancelled,
		Qty:     3,
	}

	productStore := new(MockProductStore)
	orderStore := new(MockOrderStore)
	orderStore.On("GetOrder", mock.Anything, order.OrderID).Return(order, nil)

	svc := newOrderService(orderStore, productStore, nil)

	updated, err := svc.UpdateOrderStatus(context.Background(), "user-1", order.OrderID, domain.StatusCancelled)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, updated.Status)
	orderStore.AssertNotCalled(t, "UpdateOrderStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	productStore.AssertNotCalled(t, "ReleaseStock", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateOrderStatus_InvalidTransition(t *testing.T) {
	order := &domain.Order{
		OrderID: uuid.NewString(),
		UserID:  "user-1",
		Status:  domain.StatusDelivered,
	}

	orderStore := new(MockOrderStore)
	orderStore.On("GetOrder", mock.Anything, order.OrderID).Return(order, nil)

	svc := newOrderService(orderStore, new(MockProductStore), nil)

	_, err := svc.UpdateOrderStatus(context.Background(), "user-1", order.OrderID, domain.StatusShipped)
	assert.ErrorIs(t, err, service.ErrInvalidTransition)
}

func TestUpdateOrderStatus_OtherUsersOrderHidden(t *testing.T) {
	order := &domain.Order{
		OrderID: uuid.NewString(),
		UserID:  "someone-else",
		Status:  domain.StatusPlaced,
	}

	orderStore := new(MockOrderStore)
	orderStore.On("GetOrder", mock.Anything, order.OrderID).Return(order, nil)

	svc := newOrderService(orderStore, new(MockProductStore), nil)

	_, err := svc.UpdateOrderStatus(context.Background(), "user-1", order.OrderID, domain.StatusConfirmed)
	assert.ErrorIs(t, err, repository.ErrOrderNotFound)
}

func TestCreatePaymentIntent_Success(t *testing.T) {
	productID := uuid.NewString()

	provider := new(MockPaymentProvider)
	provider.On("CreateOrder", 2998.0, "INR").Return(&payment.ProviderOrder{
		ID:       "order_abc",
		Amount:   299800,
		Currency: "INR",
		Receipt:  "rcpt_1",
	}, nil).Once()

	svc := newOrderService(new(MockOrderStore), new(MockProductStore), provider)

	req := domain.PaymentIntentRequest{
		Items: []domain.OrderRequestItem{
			{ProductID: productID, ColorID: uuid.NewString(), Size: "M", Qty: 2},
		},
		TotalAmount: 2998.0,
	}

	intent, err := svc.CreatePaymentIntent(context.Background(), "user-1", req)

	require.NoError(t, err)
	assert.Equal(t, "order_abc", intent.ProviderOrderID)
	assert.Equal(t, int64(299800), intent.Amount)
	assert.Equal(t, "INR", intent.Currency)
	provider.AssertExpectations(t)
}

func TestCreatePaymentIntent_ProviderError(t *testing.T) {
	provider := new(MockPaymentProvider)
	provider.On("CreateOrder", mock.Anything, mock.Anything).Return(nil, payment.ErrProvider)

	svc := newOrderService(new(MockOrderStore), new(MockProductStore), provider)

	req := domain.PaymentIntentRequest{
		Items: []domain.OrderRequestItem{
			{ProductID: uuid.NewString(), ColorID: uuid.NewString(), Size: "M", Qty: 1},
		},
		TotalAmount: 100,
	}

	_, err := svc.CreatePaymentIntent(context.Background(), "user-1", req)
	assert.ErrorIs(t, err, payment.ErrProvider)
}
