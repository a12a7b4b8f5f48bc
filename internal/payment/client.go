package payment

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	razorpay "github.com/razorpay/razorpay-go"
	"go.uber.org/zap"
)

// ErrProvider wraps any transport or gateway failure from Razorpay. The
// service surfaces it as-is; retrying is left to the client.
var ErrProvider = errors.New("payment provider error")

// ProviderOrder is a gateway-side record of an amount to be collected,
// created before the customer pays. Amount is in the currency's minor unit.
type ProviderOrder struct {
	ID       string
	Amount   int64
	Currency string
	Receipt  string
}

type Client struct {
	rz     *razorpay.Client
	logger *zap.Logger
}

func NewClient(keyID, keySecret string, logger *zap.Logger) *Client {
	return &Client{
		rz:     razorpay.NewClient(keyID, keySecret),
		logger: logger,
	}
}

// CreateOrder registers amount with the gateway and returns the provider
// order. Amounts are converted to minor units (paise for INR); the receipt is
// a fresh random token rather than a timestamp, so concurrent intents can't
// collide on the provider side.
func (c *Client) CreateOrder(amount float64, currency string) (*ProviderOrder, error) {
	receipt := "rcpt_" + uuid.NewString()
	minorUnits := int64(math.Round(amount * 100))

	data := map[string]interface{}{
		"amount":   minorUnits,
		"currency": currency,
		"receipt":  receipt,
	}

	body, err := c.rz.Order.Create(data, nil)
	if err != nil {
		c.logger.Error("Failed to create provider order",
			zap.Int64("amount", minorUnits),
			zap.String("currency", currency),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}

	orderID, ok := body["id"].(string)
	if !ok || orderID == "" {
		return nil, fmt.Errorf("%w: response missing order id", ErrProvider)
	}

	c.logger.Info("Provider order created",
		zap.String("provider_order_id", orderID),
		zap.Int64("amount", minorUnits),
		zap.String("currency", currency))

	return &ProviderOrder{
		ID:       orderID,
		Amount:   minorUnits,
		Currency: currency,
		Receipt:  receipt,
	}, nil
}
