package domain

import (
	"time"
)

type OrderStatus string

const (
	StatusPlaced    OrderStatus = "placed"
	StatusConfirmed OrderStatus = "confirmed"
	StatusShipped   OrderStatus = "shipped"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

var validNext = map[OrderStatus]map[OrderStatus]bool{
	StatusPlaced:    {StatusConfirmed: true, StatusShipped: true, StatusDelivered: true, StatusCancelled: true},
	StatusConfirmed: {StatusShipped: true, StatusCancelled: true},
	StatusShipped:   {StatusDelivered: true, StatusCancelled: true},
	StatusDelivered: {},
	StatusCancelled: {},
}

func IsValidStatus(s OrderStatus) bool {
	_, ok := validNext[s]
	return ok
}

func CanTransition(from, to OrderStatus) bool {
	return validNext[from][to]
}

// Order is created only by the order service after a successful stock
// reservation. Color is a snapshot of the resolved variant at order time, not
// a live reference: later product edits must not change what was bought.
type Order struct {
	OrderID           string       `dynamodbav:"order_id"            json:"order_id"`
	UserID            string       `dynamodbav:"user_id"             json:"user_id"`
	ProductID         string       `dynamodbav:"product_id"          json:"product_id"`
	Color             ColorVariant `dynamodbav:"color"               json:"color"`
	Size              string       `dynamodbav:"size"                json:"size"`
	Qty               int          `dynamodbav:"qty"                 json:"qty"`
	UnitPrice         float64      `dynamodbav:"unit_price"          json:"unit_price"`
	Status            OrderStatus  `dynamodbav:"status"              json:"status"`
	RazorpayOrderID   string       `dynamodbav:"razorpay_order_id"   json:"razorpay_order_id"`
	RazorpayPaymentID string       `dynamodbav:"razorpay_payment_id" json:"razorpay_payment_id"`
	CreatedAt         time.Time    `dynamodbav:"created_at"          json:"created_at"`
	UpdatedAt         time.Time    `dynamodbav:"updated_at"          json:"updated_at"`
}

// OrderRequestItem is one client-supplied cart line submitted for order
// placement. Color is requested by stable color_id, never by display name.
type OrderRequestItem struct {
	ProductID string `json:"product_id" binding:"required"`
	ColorID   string `json:"color_id" binding:"required"`
	Size      string `json:"size" binding:"required"`
	Qty       int    `json:"qty" binding:"required,min=1"`
}

type PaymentIntentRequest struct {
	Items       []OrderRequestItem `json:"items" binding:"required,min=1,dive"`
	TotalAmount float64            `json:"total_amount" binding:"required,gt=0"`
}

type PaymentIntentResponse struct {
	ProviderOrderID string `json:"provider_order_id"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
	Receipt         string `json:"receipt"`
}

type ConfirmOrderRequest struct {
	RazorpayOrderID   string             `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string             `json:"razorpay_payment_id" binding:"required"`
	Signature         string             `json:"signature" binding:"required"`
	Items             []OrderRequestItem `json:"items" binding:"required,min=1,dive"`
}

type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" binding:"required"`
}
