package product

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"shopSphere/domain"
	"shopSphere/pkg/ident"
	"shopSphere/pkg/logger"
)

// CatalogWriteRepository contract interface
type CatalogWriteRepository interface {
	EnsureShard(ctx context.Context, name string) error
	Insert(ctx context.Context, shard string, product *domain.Product) error
	Update(ctx context.Context, shard string, product *domain.Product) error
	Delete(ctx context.Context, shard, id string) error
}

type ShardRegistry interface {
	ListShards(ctx context.Context) ([]string, error)
}

type CatalogReader interface {
	FindByID(ctx context.Context, shard, id string) (*domain.Product, error)
}

// Invalidator is fired after every catalog mutation so the fan-out
// engine never serves stale data beyond the TTL window.
type Invalidator interface {
	InvalidateProduct(ctx context.Context, id string)
}

type productService struct {
	writeRepo   CatalogWriteRepository
	registry    ShardRegistry
	reader      CatalogReader
	invalidator Invalidator
}

func NewProductService(writeRepo CatalogWriteRepository, registry ShardRegistry, reader CatalogReader, invalidator Invalidator) *productService {
	return &productService{
		writeRepo:   writeRepo,
		registry:    registry,
		reader:      reader,
		invalidator: invalidator,
	}
}

func (s *productService) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	// Validation
	if product.Name == "" {
		logger.Error("Invalid product data: product name is required")
		return nil, errors.New("product name is required")
	}

	if product.Category == "" {
		logger.Error("Invalid product data: product category is required")
		return nil, errors.New("product category is required")
	}

	if product.Price <= 0 {
		logger.Error("Invalid product data: price must be greater than 0")
		return nil, errors.New("price must be greater than 0")
	}

	if product.Quantity < 0 {
		logger.Error("Invalid product data: quantity cannot be negative")
		return nil, errors.New("quantity cannot be negative")
	}

	if product.ID == "" {
		product.ID = ident.NewProductID()
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now()
	}
	product.InStock = product.Quantity > 0
	product.Discount = computeDiscount(product.Price, product.MRP)

	// the home shard is created implicitly on first write to a
	// new category
	shard := domain.ShardForCategory(product.Category)
	if err := s.writeRepo.EnsureShard(ctx, shard); err != nil {
		logger.Error("failed to ensure shard", "shard", shard, "error", err)
		return nil, fmt.Errorf("failed to ensure shard: %w", err)
	}

	if err := s.writeRepo.Insert(ctx, shard, product); err != nil {
		logger.Error("failed to create new product", "error", err)
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.invalidator.InvalidateProduct(ctx, product.ID)

	logger.Info("product created successfully", "id", product.ID, "shard", shard)

	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	if product.ID == "" {
		logger.Error("Invalid product data: ID is required")
		return nil, errors.New("product ID is required")
	}

	if product.Name == "" {
		logger.Error("Invalid product data: product name is required")
		return nil, errors.New("product name is required")
	}

	if product.Price <= 0 {
		logger.Error("Invalid product data: price must be greater than 0")
		return nil, errors.New("price must be greater than 0")
	}

	shard, existing, err := s.locate(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		logger.Error("product not found", "id", product.ID)
		return nil, errors.New("product not found")
	}

	product.InStock = product.Quantity > 0
	product.Discount = computeDiscount(product.Price, product.MRP)

	// the row stays in the shard it was found in even when the
	// category changes; id-in-one-shard is preserved
	if err := s.writeRepo.Update(ctx, shard, product); err != nil {
		logger.Error("failed to update product", "error", err)
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	s.invalidator.InvalidateProduct(ctx, product.ID)

	updated, err := s.reader.FindByID(ctx, shard, product.ID)
	if err != nil {
		logger.Error("failed to fetch updated product", "error", err)
		return nil, fmt.Errorf("failed to fetch updated product: %w", err)
	}

	logger.Info("product updated success", "id", product.ID)

	return updated, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id string) error {
	if id == "" {
		logger.Error("Invalid product id when deleting product")
		return errors.New("invalid product id")
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	shard, existing, err := s.locate(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		logger.Error("product not found", "id", id)
		return errors.New("product not found")
	}

	if err := s.writeRepo.Delete(ctx, shard, id); err != nil {
		logger.Error("failed to delete product", "error", err)
		return fmt.Errorf("failed to delete product: %w", err)
	}

	s.invalidator.InvalidateProduct(ctx, id)

	logger.Info("product deleted success", "id", id)

	return nil
}

// locate finds which shard currently holds the product id.
func (s *productService) locate(ctx context.Context, id string) (string, *domain.Product, error) {
	shards, err := s.registry.ListShards(ctx)
	if err != nil {
		return "", nil, fmt.Errorf("failed to list shards: %w", err)
	}

	for _, shard := range shards {
		product, err := s.reader.FindByID(ctx, shard, id)
		if err != nil {
			logger.Warn("shard lookup failed during locate", "shard", shard, "error", err)
			continue
		}
		if product != nil {
			return shard, product, nil
		}
	}

	return "", nil, nil
}

func computeDiscount(price, mrp float64) float64 {
	if mrp <= 0 || price >= mrp {
		return 0
	}

	return math.Round((mrp - price) / mrp * 100)
}
