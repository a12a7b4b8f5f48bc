package domain

import (
	"errors"
	"time"
)

var (
	ErrInvalidColor = errors.New("invalid color selected")
	ErrInvalidSize  = errors.New("invalid size selected")
)

// ValidSizes is the set of size labels a SizeVariant may carry.
var ValidSizes = []string{"XS", "S", "M", "L", "XL", "XXL", "XXXL"}

func IsValidSize(size string) bool {
	for _, s := range ValidSizes {
		if s == size {
			return true
		}
	}
	return false
}

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderUnisex Gender = "unisex"
)

type Price struct {
	OriginalPrice   float64 `dynamodbav:"original_price"   json:"original_price"`
	DiscountedPrice float64 `dynamodbav:"discounted_price" json:"discounted_price"`
}

type SizeVariant struct {
	Size  string `dynamodbav:"size"  json:"size"`
	Stock int    `dynamodbav:"stock" json:"stock"`
}

// ColorVariant identity is (product_id, color_id). ColorID is assigned by the
// server on create and stays stable across edits, so carts and orders keep
// matching after a display-name rename.
type ColorVariant struct {
	ColorID     string        `dynamodbav:"color_id"     json:"color_id"`
	Color       string        `dynamodbav:"color"        json:"color"`
	Hex         string        `dynamodbav:"hex"          json:"hex"`
	Price       Price         `dynamodbav:"price"        json:"price"`
	SizeOptions []SizeVariant `dynamodbav:"size_options" json:"size_options"`
	Images      []string      `dynamodbav:"images"       json:"images"`
}

type Product struct {
	ProductID    string         `dynamodbav:"product_id"    json:"product_id"`
	Title        string         `dynamodbav:"title"         json:"title"`
	Description  string         `dynamodbav:"description"   json:"description"`
	Category     string         `dynamodbav:"category"      json:"category"`
	SubCategory  string         `dynamodbav:"sub_category"  json:"sub_category"`
	Gender       Gender         `dynamodbav:"gender"        json:"gender"`
	Instruction  []string       `dynamodbav:"instruction"   json:"instruction,omitempty"`
	ColorOptions []ColorVariant `dynamodbav:"color_options" json:"color_options"`
	CreatedAt    time.Time      `dynamodbav:"created_at"    json:"created_at"`
	UpdatedAt    time.Time      `dynamodbav:"updated_at"    json:"updated_at"`
}

// VariantRef is a handle to one (color, size) node of a product's variant
// tree. The indexes address the node inside the stored document so the stock
// ledger can build a conditional-update path; ColorID and Size travel along as
// identity guards for that path.
type VariantRef struct {
	ProductID  string
	ColorID    string
	ColorIndex int
	Size       string
	SizeIndex  int
}

// ResolveVariant finds the (color, size) node matching the request. Colors are
// matched by ColorID, sizes by label. The two stages fail separately so the
// caller can tell a wrong color from a wrong size on a valid color.
func (p *Product) ResolveVariant(colorID, size string) (VariantRef, *ColorVariant, *SizeVariant, error) {
	for ci := range p.ColorOptions {
		color := &p.ColorOptions[ci]
		if color.ColorID != colorID {
			continue
		}
		for si := range color.SizeOptions {
			if color.SizeOptions[si].Size != size {
				continue
			}
			ref := VariantRef{
				ProductID:  p.ProductID,
				ColorID:    colorID,
				ColorIndex: ci,
				Size:       size,
				SizeIndex:  si,
			}
			return ref, color, &color.SizeOptions[si], nil
		}
		return VariantRef{}, nil, nil, ErrInvalidSize
	}
	return VariantRef{}, nil, nil, ErrInvalidColor
}

// Snapshot returns a copy of the color variant suitable for embedding in an
// order: price and presentation frozen at order time, size tree dropped.
func (c *ColorVariant) Snapshot() ColorVariant {
	snap := *c
	snap.SizeOptions = nil
	snap.Images = append([]string(nil), c.Images...)
	return snap
}

type SizeVariantRequest struct {
	Size  string `json:"size" binding:"required"`
	Stock int    `json:"stock" binding:"min=0"`
}

type ColorVariantRequest struct {
	// ColorID is optional on create and on update. When an update supplies
	// the id of an existing color, that color keeps its identity even if its
	// display name changes.
	ColorID     string               `json:"color_id"`
	Color       string               `json:"color" binding:"required"`
	Hex         string               `json:"hex" binding:"required"`
	Price       Price                `json:"price" binding:"required"`
	SizeOptions []SizeVariantRequest `json:"size_options" binding:"required,min=1"`
	Images      []string             `json:"images"`
}

type CreateProductRequest struct {
	Title        string                `json:"title" binding:"required"`
	Description  string                `json:"description" binding:"required"`
	Category     string                `json:"category" binding:"required"`
	SubCategory  string                `json:"sub_category" binding:"required"`
	Gender       Gender                `json:"gender" binding:"required,oneof=male female unisex"`
	Instruction  []string              `json:"instruction"`
	ColorOptions []ColorVariantRequest `json:"color_options" binding:"required,min=1"`
}
