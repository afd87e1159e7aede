package postgres

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"shopSphere/domain"

	"gorm.io/gorm"
)

var shardNamePattern = regexp.MustCompile(`^products(_[a-z0-9]+)?$`)

// CatalogWriteRepository owns all catalog mutations. Shard tables are
// created implicitly on first write to a new category.
type CatalogWriteRepository struct {
	DB *gorm.DB
}

func NewCatalogWriteRepository(db *gorm.DB) *CatalogWriteRepository {
	return &CatalogWriteRepository{
		DB: db,
	}
}

// EnsureShard creates the shard table when it does not exist yet. The
// name is validated against the partition naming scheme before being
// interpolated into DDL.
func (r *CatalogWriteRepository) EnsureShard(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if !shardNamePattern.MatchString(name) {
		return fmt.Errorf("invalid shard name: %s", name)
	}

	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id             TEXT PRIMARY KEY,
		name           TEXT,
		description    TEXT,
		category       TEXT,
		gender         TEXT,
		price          NUMERIC,
		mrp            NUMERIC,
		discount       NUMERIC,
		quantity       NUMERIC,
		in_stock       BOOLEAN,
		colors         JSONB,
		images         JSONB,
		view_count     BIGINT DEFAULT 0,
		purchase_count BIGINT DEFAULT 0,
		created_at     TIMESTAMPTZ DEFAULT NOW()
	)`, name)

	if err := r.DB.WithContext(ctx).Exec(ddl).Error; err != nil {
		return fmt.Errorf("failed to create shard %s: %w", name, err)
	}

	return nil
}

func (r *CatalogWriteRepository) Insert(ctx context.Context, shard string, product *domain.Product) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Table(shard).Create(product).Error; err != nil {
		return fmt.Errorf("failed to insert product into shard %s: %w", shard, err)
	}

	return nil
}

func (r *CatalogWriteRepository) Update(ctx context.Context, shard string, product *domain.Product) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	updateData := map[string]interface{}{
		"name":        product.Name,
		"description": product.Description,
		"category":    product.Category,
		"gender":      product.Gender,
		"price":       product.Price,
		"mrp":         product.MRP,
		"discount":    product.Discount,
		"quantity":    product.Quantity,
		"in_stock":    product.InStock,
		"colors":      product.Colors,
		"images":      product.Images,
	}

	result := r.DB.WithContext(ctx).Table(shard).Where("id = ?", product.ID).Updates(updateData)
	if result.Error != nil {
		return fmt.Errorf("failed to update product in shard %s: %w", shard, result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("product not found")
	}

	return nil
}

func (r *CatalogWriteRepository) Delete(ctx context.Context, shard, id string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Table(shard).Where("id = ?", id).Delete(&domain.Product{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete product from shard %s: %w", shard, result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("product not found")
	}

	return nil
}
