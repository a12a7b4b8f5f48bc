package events

import (
	"time"
)

// Published after the order batch is committed and stock is debited.
type OrderPlacedEvent struct {
	EventID         string      `json:"event_id"`
	UserID          string      `json:"user_id"`
	ProviderOrderID string      `json:"provider_order_id"`
	Orders          []OrderLine `json:"orders"`
	Timestamp       time.Time   `json:"timestamp"`
}

type OrderLine struct {
	OrderID   string  `json:"order_id"`
	ProductID string  `json:"product_id"`
	ColorID   string  `json:"color_id"`
	Size      string  `json:"size"`
	Qty       int     `json:"qty"`
	UnitPrice float64 `json:"unit_price"`
}

// Published after a cancellation has restocked the order's variant.
type OrderCancelledEvent struct {
	EventID   string    `json:"event_id"`
	OrderID   string    `json:"order_id"`
	UserID    string    `json:"user_id"`
	ProductID string    `json:"product_id"`
	ColorID   string    `json:"color_id"`
	Size      string    `json:"size"`
	Qty       int       `json:"qty"`
	Timestamp time.Time `json:"timestamp"`
}
