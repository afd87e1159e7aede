package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"shopSphere/domain"

	"gorm.io/gorm"
)

// CatalogRepository executes one filter predicate against a single
// shard table. Cross-shard merging happens above, in the fan-out
// service.
type CatalogRepository struct {
	DB *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{
		DB: db,
	}
}

func (r *CatalogRepository) QueryShard(ctx context.Context, shard string, filter domain.CatalogFilter) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var products []domain.Product

	q := applyFilter(r.DB.WithContext(ctx).Table(shard), filter)
	if err := q.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to query shard %s: %w", shard, err)
	}

	return products, nil
}

func (r *CatalogRepository) FindByID(ctx context.Context, shard, id string) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var product domain.Product
	err := r.DB.WithContext(ctx).Table(shard).Where("id = ?", id).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find product in shard %s: %w", shard, err)
	}

	return &product, nil
}

// IncrCounters bumps the stored view/purchase counters behind the
// composite popularity sort. Best effort; the caller swallows errors.
func (r *CatalogRepository) IncrCounters(ctx context.Context, shard, id string, views, purchases int) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Table(shard).Where("id = ?", id).Updates(map[string]interface{}{
		"view_count":     gorm.Expr("view_count + ?", views),
		"purchase_count": gorm.Expr("purchase_count + ?", purchases),
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update counters in shard %s: %w", shard, result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("product not found in shard")
	}

	return nil
}

// applyFilter translates the catalog filter into one SQL predicate.
// Category compares case-insensitively with the trailing "s" made
// optional on both sides. Color overlap for relatedTo queries is
// applied in memory by the service, not here.
func applyFilter(q *gorm.DB, f domain.CatalogFilter) *gorm.DB {
	if f.Category != "" {
		stripped := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(f.Category)), "s")
		q = q.Where("LOWER(category) IN ?", []string{stripped, stripped + "s"})
	}

	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		q = q.Where("(name ILIKE ? OR description ILIKE ?)", pattern, pattern)
	}

	if f.Gender != "" {
		q = q.Where("LOWER(gender) = ?", strings.ToLower(f.Gender))
	}

	if f.InStock != nil {
		q = q.Where("in_stock = ?", *f.InStock)
	}

	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}

	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}

	if len(f.IDs) > 0 {
		q = q.Where("id IN ?", f.IDs)
	}

	if len(f.ExcludeIDs) > 0 {
		q = q.Where("id NOT IN ?", f.ExcludeIDs)
	}

	return q
}
