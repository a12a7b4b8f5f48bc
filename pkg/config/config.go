package config

import (
	"errors"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port      string `envconfig:"PORT" default:"8080"`
	AWSRegion string `envconfig:"AWS_REGION" default:"ap-south-1"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`

	ProductTableName  string `envconfig:"PRODUCT_TABLE_NAME" default:"products-table"`
	OrderTableName    string `envconfig:"ORDER_TABLE_NAME" default:"orders-table"`
	CartTableName     string `envconfig:"CART_TABLE_NAME" default:"cart-table"`
	WishlistTableName string `envconfig:"WISHLIST_TABLE_NAME" default:"wishlist-table"`
	CategoryTableName string `envconfig:"CATEGORY_TABLE_NAME" default:"categories-table"`
	ContactTableName  string `envconfig:"CONTACT_TABLE_NAME" default:"contacts-table"`

	RazorpayKeyID     string `envconfig:"RAZORPAY_KEY_ID"`
	RazorpayKeySecret string `envconfig:"RAZORPAY_KEY_SECRET"`
	Currency          string `envconfig:"CURRENCY" default:"INR"`

	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`

	KafkaBrokers string `envconfig:"KAFKA_BROKERS" default:""`
	RedisAddr    string `envconfig:"REDIS_ADDR" default:""`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	// A missing payment secret must fail at startup, not per request: with no
	// secret every signature check would silently reject.
	if cfg.RazorpayKeyID == "" || cfg.RazorpayKeySecret == "" {
		return nil, errors.New("RAZORPAY_KEY_ID and RAZORPAY_KEY_SECRET are required")
	}

	return &cfg, nil
}
