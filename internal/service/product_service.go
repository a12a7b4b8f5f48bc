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

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidVariant  = errors.New("invalid variant definition")
)

// CatalogStore is the full product surface the catalog CRUD needs; it is a
// superset of the ProductStore slice the order pipeline sees.
type CatalogStore interface {
	CreateProduct(ctx context.Context, product *domain.Product) error
	GetProduct(ctx context.Context, productID string) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	DeleteProduct(ctx context.Context, productID string) error
}

type ProductService struct {
	productRepo CatalogStore
	logger      *zap.Logger
}

func NewProductService(productRepo CatalogStore, logger *zap.Logger) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		logger:      logger,
	}
}

func (s *ProductService) CreateProduct(ctx context.Context, req domain.CreateProductRequest) (*domain.Product, error) {
	colors, err := buildColorOptions(req.ColorOptions)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	product := &domain.Product{
		ProductID:    uuid.NewString(),
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		SubCategory:  req.SubCategory,
		Gender:       req.Gender,
		Instruction:  req.Instruction,
		ColorOptions: colors,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.productRepo.CreateProduct(ctx, product); err != nil {
		s.logger.Error("Failed to save product",
			zap.String("product_id", product.ProductID),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("Product created",
		zap.String("product_id", product.ProductID),
		zap.Int("color_count", len(product.ColorOptions)))

	return product, nil
}

func (s *ProductService) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	if _, err := uuid.Parse(productID); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidProductID, productID)
	}

	product, err := s.productRepo.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *ProductService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.productRepo.ListProducts(ctx)
}

// UpdateProduct replaces the product document. Existing color ids are kept
// when the request addresses them, so carts and orders referencing a variant
// survive an edit; colors without an id are treated as new.
func (s *ProductService) UpdateProduct(ctx context.Context, productID string, req domain.CreateProductRequest) (*domain.Product, error) {
	existing, err := s.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	colors, err := buildColorOptions(req.ColorOptions)
	if err != nil {
		return nil, err
	}

	// Re-attach stable color ids for colors that already exist. A request
	// that carries the color_id of an existing color keeps that id no matter
	// what the display name says, so a rename never changes variant identity.
	// Requests without an id fall back to display-name matching. Anything
	// else is a new color and keeps its freshly minted id.
	byID := make(map[string]bool, len(existing.ColorOptions))
	byName := make(map[string]string, len(existing.ColorOptions))
	for _, c := range existing.ColorOptions {
		byID[c.ColorID] = true
		byName[c.Color] = c.ColorID
	}
	for i, cr := range req.ColorOptions {
		if cr.ColorID != "" && byID[cr.ColorID] {
			colors[i].ColorID = cr.ColorID
			continue
		}
		if id, ok := byName[colors[i].Color]; ok {
			colors[i].ColorID = id
		}
	}

	product := &domain.Product{
		ProductID:    existing.ProductID,
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		SubCategory:  req.SubCategory,
		Gender:       req.Gender,
		Instruction:  req.Instruction,
		ColorOptions: colors,
		CreatedAt:    existing.CreatedAt,
		UpdatedAt:    time.Now().UTC(),
	}

	if err := s.productRepo.CreateProduct(ctx, product); err != nil {
		s.logger.Error("Failed to update product",
			zap.String("product_id", productID),
			zap.Error(err))
		return nil, err
	}

	return product, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, productID string) error {
	if _, err := uuid.Parse(productID); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidProductID, productID)
	}

	if err := s.productRepo.DeleteProduct(ctx, productID); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	s.logger.Info("Product deleted", zap.String("product_id", productID))
	return nil
}

// buildColorOptions validates the variant tree and mints stable color ids.
func buildColorOptions(reqs []domain.ColorVariantRequest) ([]domain.ColorVariant, error) {
	if len(reqs) == 0 {
		return nil, fmt.Errorf("%w: at least one color option is required", ErrInvalidVariant)
	}

	colors := make([]domain.ColorVariant, 0, len(reqs))
	for _, cr := range reqs {
		if len(cr.SizeOptions) == 0 {
			return nil, fmt.Errorf("%w: color %q needs at least one size option", ErrInvalidVariant, cr.Color)
		}
		if cr.Price.OriginalPrice < 0 || cr.Price.DiscountedPrice < 0 {
			return nil, fmt.Errorf("%w: color %q has a negative price", ErrInvalidVariant, cr.Color)
		}
		if cr.Price.DiscountedPrice > cr.Price.OriginalPrice {
			return nil, fmt.Errorf("%w: color %q discounted price exceeds original", ErrInvalidVariant, cr.Color)
		}

		sizes := make([]domain.SizeVariant, 0, len(cr.SizeOptions))
		seen := make(map[string]bool, len(cr.SizeOptions))
		for _, sr := range cr.SizeOptions {
			if !domain.IsValidSize(sr.Size) {
				return nil, fmt.Errorf("%w: unknown size %q for color %q", ErrInvalidVariant, sr.Size, cr.Color)
			}
			if seen[sr.Size] {
				return nil, fmt.Errorf("%w: duplicate size %q for color %q", ErrInvalidVariant, sr.Size, cr.Color)
			}
			if sr.Stock < 0 {
				return nil, fmt.Errorf("%w: negative stock for size %q of color %q", ErrInvalidVariant, sr.Size, cr.Color)
			}
			seen[sr.Size] = true
			sizes = append(sizes, domain.SizeVariant{Size: sr.Size, Stock: sr.Stock})
		}

		colors = append(colors, domain.ColorVariant{
			ColorID:     uuid.NewString(),
			Color:       cr.Color,
			Hex:         cr.Hex,
			Price:       cr.Price,
			SizeOptions: sizes,
			Images:      cr.Images,
		})
	}

	return colors, nil
}
