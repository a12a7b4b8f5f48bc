package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/threadcart/commerce-service/internal/domain"
	"github.com/threadcart/commerce-service/internal/events"
	"github.com/threadcart/commerce-service/internal/payment"
	"github.com/threadcart/commerce-service/internal/repository"
	"go.uber.org/zap"
)

var (
	ErrInvalidProductID  = errors.New("invalid product id")
	ErrSignatureMismatch = errors.New("payment signature mismatch")
	ErrEmptyOrder        = errors.New("order must contain at least one item")
	ErrInvalidQuantity   = errors.New("quantity must be at least 1")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// ResolutionError reports which line item failed variant resolution and
// whether the color or the size was wrong. The two are distinct so a
// storefront can point the user at the right picker.
type ResolutionError struct {
	ProductID string
	Reason    error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("product %s: %v", e.ProductID, e.Reason)
}

func (e *ResolutionError) Unwrap() error { return e.Reason }

type InsufficientStockError struct {
	ProductID string
	ColorID   string
	Size      string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s size %s: requested %d, available %d",
		e.ProductID, e.Size, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// ProductStore is the slice of the product repository the order pipeline
// needs: catalog lookup plus the stock ledger.
type ProductStore interface {
	GetProduct(ctx context.Context, productID string) (*domain.Product, error)
	ReserveStock(ctx context.Context, ref domain.VariantRef, qty int) error
	ReleaseStock(ctx context.Context, ref domain.VariantRef, qty int) error
}

type OrderStore interface {
	CreateOrders(ctx context.Context, orders []*domain.Order) error
	GetOrder(ctx context.Context, orderID string) (*domain.Order, error)
	ListOrdersByUser(ctx context.Context, userID string) ([]domain.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, from, to domain.OrderStatus) error
}

type PaymentProvider interface {
	CreateOrder(amount float64, currency string) (*payment.ProviderOrder, error)
}

type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, event events.OrderPlacedEvent) error
	PublishOrderCancelled(ctx context.Context, event events.OrderCancelledEvent) error
}

type OrderService struct {
	orderStore    OrderStore
	productStore  ProductStore
	provider      PaymentProvider
	publisher     EventPublisher
	paymentSecret string
	currency      string
	logger        *zap.Logger
}

func NewOrderService(orderStore OrderStore, productStore ProductStore, provider PaymentProvider, publisher EventPublisher, paymentSecret, currency string, logger *zap.Logger) *OrderService {
	return &OrderService{
		orderStore:    orderStore,
		productStore:  productStore,
		provider:      provider,
		publisher:     publisher,
		paymentSecret: paymentSecret,
		currency:      currency,
		logger:        logger,
	}
}

// CreatePaymentIntent registers the cart total with the payment gateway. No
// stock is touched here: inventory is only claimed once the payment comes
// back confirmed, so abandoned carts can't starve stock.
func (s *OrderService) CreatePaymentIntent(ctx context.Context, userID string, req domain.PaymentIntentRequest) (*domain.PaymentIntentResponse, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	for _, item := range req.Items {
		if err := validateItem(item); err != nil {
			return nil, err
		}
	}

	order, err := s.provider.CreateOrder(req.TotalAmount, s.currency)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Payment intent created",
		zap.String("user_id", userID),
		zap.String("provider_order_id", order.ID),
		zap.Int64("amount", order.Amount))

	return &domain.PaymentIntentResponse{
		ProviderOrderID: order.ID,
		Amount:          order.Amount,
		Currency:        order.Currency,
		Receipt:         order.Receipt,
	}, nil
}

type reservation struct {
	ref      domain.VariantRef
	qty      int
	snapshot domain.ColorVariant
}

// PlaceOrder commits a paid cart: it verifies the payment signature, then
// walks the items in input order through lookup, variant resolution and stock
// reservation, and only once every item holds its stock does it persist the
// order batch. The first failing item aborts the call and every reservation
// taken earlier in the same call is released again, so a partially committed
// batch is never observable.
func (s *OrderService) PlaceOrder(ctx context.Context, userID string, req domain.ConfirmOrderRequest) ([]*domain.Order, error) {
	if !payment.VerifySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.Signature, s.paymentSecret) {
		s.logger.Warn("Payment signature rejected",
			zap.String("user_id", userID),
			zap.String("provider_order_id", req.RazorpayOrderID))
		return nil, ErrSignatureMismatch
	}

	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	var reserved []reservation
	for _, item := range req.Items {
		res, err := s.reserveItem(ctx, item)
		if err != nil {
			s.rollback(ctx, reserved)
			return nil, err
		}
		reserved = append(reserved, *res)
	}

	now := time.Now().UTC()
	orders := make([]*domain.Order, 0, len(req.Items))
	for i, item := range req.Items {
		orders = append(orders, &domain.Order{
			OrderID:           uuid.NewString(),
			UserID:            userID,
			ProductID:         item.ProductID,
			Color:             reserved[i].snapshot,
			Size:              item.Size,
			Qty:               item.Qty,
			UnitPrice:         reserved[i].snapshot.Price.DiscountedPrice,
			Status:            domain.StatusPlaced,
			RazorpayOrderID:   req.RazorpayOrderID,
			RazorpayPaymentID: req.RazorpayPaymentID,
			CreatedAt:         now,
			UpdatedAt:         now,
		})
	}

	if err := s.orderStore.CreateOrders(ctx, orders); err != nil {
		s.logger.Error("Failed to persist order batch, rolling back reservations",
			zap.String("user_id", userID),
			zap.String("provider_order_id", req.RazorpayOrderID),
			zap.Error(err))
		s.rollback(ctx, reserved)
		return nil, err
	}

	s.logger.Info("Order batch placed",
		zap.String("user_id", userID),
		zap.String("provider_order_id", req.RazorpayOrderID),
		zap.Int("order_count", len(orders)))

	s.publishPlaced(ctx, userID, req.RazorpayOrderID, orders)

	return orders, nil
}

func (s *OrderService) reserveItem(ctx context.Context, item domain.OrderRequestItem) (*reservation, error) {
	if err := validateItem(item); err != nil {
		return nil, err
	}

	product, err := s.productStore.GetProduct(ctx, item.ProductID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, fmt.Errorf("product %s: %w", item.ProductID, repository.ErrProductNotFound)
		}
		return nil, err
	}

	ref, color, sizeOpt, err := product.ResolveVariant(item.ColorID, item.Size)
	if err != nil {
		return nil, &ResolutionError{ProductID: item.ProductID, Reason: err}
	}

	if err := s.productStore.ReserveStock(ctx, ref, item.Qty); err != nil {
		if errors.Is(err, repository.ErrInsufficientStock) {
			// Prefer the stock the store saw when it rejected the write;
			// the resolve-time read above may be a stale cache hit.
			available := sizeOpt.Stock
			var shortfall *repository.StockShortfallError
			if errors.As(err, &shortfall) && shortfall.Available >= 0 {
				available = shortfall.Available
			}
			return nil, &InsufficientStockError{
				ProductID: item.ProductID,
				ColorID:   item.ColorID,
				Size:      item.Size,
				Requested: item.Qty,
				Available: available,
			}
		}
		return nil, err
	}

	return &reservation{ref: ref, qty: item.Qty, snapshot: color.Snapshot()}, nil
}

// rollback releases every reservation taken earlier in a failed PlaceOrder
// call. A release that fails here leaves stock phantom-reserved; that is a
// reportable inconsistency, so it is logged with full identifiers for manual
// reconciliation rather than swallowed.
func (s *OrderService) rollback(ctx context.Context, reserved []reservation) {
	for i := len(reserved) - 1; i >= 0; i-- {
		res := reserved[i]
		if err := s.productStore.ReleaseStock(ctx, res.ref, res.qty); err != nil {
			s.logger.Error("INCONSISTENCY: failed to release reserved stock during rollback",
				zap.String("product_id", res.ref.ProductID),
				zap.String("color_id", res.ref.ColorID),
				zap.String("size", res.ref.Size),
				zap.Int("qty", res.qty),
				zap.Error(err))
		}
	}
}

func (s *OrderService) GetOrder(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	order, err := s.orderStore.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, repository.ErrOrderNotFound
	}
	return order, nil
}

func (s *OrderService) ListOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.orderStore.ListOrdersByUser(ctx, userID)
}

// UpdateOrderStatus applies one transition of the order state machine.
// Cancellation restocks the order's variant exactly once: the conditional
// status write decides a single winner, and an already-cancelled order is a
// no-op rather than a second release.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, userID, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	if !domain.IsValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	order, err := s.GetOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}

	if status == domain.StatusCancelled && order.Status == domain.StatusCancelled {
		return order, nil
	}

	if !domain.CanTransition(order.Status, status) {
		return nil, ErrInvalidTransition
	}

	if err := s.orderStore.UpdateOrderStatus(ctx, orderID, order.Status, status); err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			// Lost a race with a concurrent transition. Re-read; if the
			// other writer applied the same status this request is done.
			current, rerr := s.GetOrder(ctx, userID, orderID)
			if rerr == nil && current.Status == status {
				return current, nil
			}
			return nil, ErrInvalidTransition
		}
		return nil, err
	}

	order.Status = status
	order.UpdatedAt = time.Now().UTC()

	if status == domain.StatusCancelled {
		s.restock(ctx, order)
		s.publishCancelled(ctx, order)
	}

	s.logger.Info("Order status updated",
		zap.String("order_id", orderID),
		zap.String("status", string(status)))

	return order, nil
}

// restock returns a cancelled order's quantity to its variant. The caller has
// already won the conditional status write, so this runs at most once per
// order.
func (s *OrderService) restock(ctx context.Context, order *domain.Order) {
	product, err := s.productStore.GetProduct(ctx, order.ProductID)
	if err != nil {
		s.logger.Error("INCONSISTENCY: cannot restock cancelled order, product lookup failed",
			zap.String("order_id", order.OrderID),
			zap.String("product_id", order.ProductID),
			zap.Int("qty", order.Qty),
			zap.Error(err))
		return
	}

	ref, _, _, err := product.ResolveVariant(order.Color.ColorID, order.Size)
	if err != nil {
		s.logger.Error("INCONSISTENCY: cannot restock cancelled order, variant no longer resolves",
			zap.String("order_id", order.OrderID),
			zap.String("product_id", order.ProductID),
			zap.String("color_id", order.Color.ColorID),
			zap.String("size", order.Size),
			zap.Error(err))
		return
	}

	if err := s.productStore.ReleaseStock(ctx, ref, order.Qty); err != nil {
		s.logger.Error("INCONSISTENCY: failed to restock cancelled order",
			zap.String("order_id", order.OrderID),
			zap.String("product_id", order.ProductID),
			zap.Int("qty", order.Qty),
			zap.Error(err))
	}
}

func (s *OrderService) publishPlaced(ctx context.Context, userID, providerOrderID string, orders []*domain.Order) {
	if s.publisher == nil {
		return
	}

	lines := make([]events.OrderLine, 0, len(orders))
	for _, o := range orders {
		lines = append(lines, events.OrderLine{
			OrderID:   o.OrderID,
			ProductID: o.ProductID,
			ColorID:   o.Color.ColorID,
			Size:      o.Size,
			Qty:       o.Qty,
			UnitPrice: o.UnitPrice,
		})
	}

	event := events.OrderPlacedEvent{
		EventID:         uuid.NewString(),
		UserID:          userID,
		ProviderOrderID: providerOrderID,
		Orders:          lines,
		Timestamp:       time.Now().UTC(),
	}

	// The batch is already committed; a publish failure is logged, not
	// propagated to the client.
	if err := s.publisher.PublishOrderPlaced(ctx, event); err != nil {
		s.logger.Error("Failed to publish order placed event",
			zap.String("provider_order_id", providerOrderID),
			zap.Error(err))
	}
}

func (s *OrderService) publishCancelled(ctx context.Context, order *domain.Order) {
	if s.publisher == nil {
		return
	}

	event := events.OrderCancelledEvent{
		EventID:   uuid.NewString(),
		OrderID:   order.OrderID,
		UserID:    order.UserID,
		ProductID: order.ProductID,
		ColorID:   order.Color.ColorID,
		Size:      order.Size,
		Qty:       order.Qty,
		Timestamp: time.Now().UTC(),
	}

	if err := s.publisher.PublishOrderCancelled(ctx, event); err != nil {
		s.logger.Error("Failed to publish order cancelled event",
			zap.String("order_id", order.OrderID),
			zap.Error(err))
	}
}

// validateItem rejects ids that are not well-formed before any store round
// trip, and enforces the size label set and a positive quantity.
func validateItem(item domain.OrderRequestItem) error {
	if _, err := uuid.Parse(item.ProductID); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidProductID, item.ProductID)
	}
	if !domain.IsValidSize(item.Size) {
		return &ResolutionError{ProductID: item.ProductID, Reason: domain.ErrInvalidSize}
	}
	if item.Qty < 1 {
		return fmt.Errorf("product %s: %w", item.ProductID, ErrInvalidQuantity)
	}
	return nil
}
