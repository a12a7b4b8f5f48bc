package domain

import (
	"time"
)

// CartItem references a variant by composite key (product_id, color_id, size).
// Carts never hold stock: reservation happens only at order confirmation.
type CartItem struct {
	CartID    string    `dynamodbav:"cart_id"    json:"cart_id"`
	UserID    string    `dynamodbav:"user_id"    json:"user_id"`
	ProductID string    `dynamodbav:"product_id" json:"product_id"`
	ColorID   string    `dynamodbav:"color_id"   json:"color_id"`
	Size      string    `dynamodbav:"size"       json:"size"`
	Qty       int       `dynamodbav:"qty"        json:"qty"`
	CreatedAt time.Time `dynamodbav:"created_at" json:"created_at"`
	UpdatedAt time.Time `dynamodbav:"updated_at" json:"updated_at"`
}

type AddCartItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	ColorID   string `json:"color_id" binding:"required"`
	Size      string `json:"size" binding:"required"`
	Qty       int    `json:"qty" binding:"required,min=1"`
}

// Qty 0 removes the line, matching the storefront's "set to zero" gesture.
type UpdateCartItemRequest struct {
	ColorID string `json:"color_id" binding:"required"`
	Size    string `json:"size" binding:"required"`
	Qty     int    `json:"qty" binding:"min=0"`
}

type WishlistItem struct {
	WishlistID string    `dynamodbav:"wishlist_id" json:"wishlist_id"`
	UserID     string    `dynamodbav:"user_id"     json:"user_id"`
	ProductID  string    `dynamodbav:"product_id"  json:"product_id"`
	CreatedAt  time.Time `dynamodbav:"created_at"  json:"created_at"`
}

type AddWishlistItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

type Category struct {
	CategoryID string    `dynamodbav:"category_id" json:"category_id"`
	Name       string    `dynamodbav:"name"        json:"name"`
	CreatedAt  time.Time `dynamodbav:"created_at"  json:"created_at"`
}

type Subcategory struct {
	SubcategoryID string    `dynamodbav:"subcategory_id" json:"subcategory_id"`
	CategoryID    string    `dynamodbav:"category_id"    json:"category_id"`
	Name          string    `dynamodbav:"name"           json:"name"`
	CreatedAt     time.Time `dynamodbav:"created_at"     json:"created_at"`
}

type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

type CreateSubcategoryRequest struct {
	CategoryID string `json:"category_id" binding:"required"`
	Name       string `json:"name" binding:"required"`
}
