package postgres

import (
	"context"
	"fmt"

	"shopSphere/domain"

	"gorm.io/gorm"
)

// ShardRegistry reads partition metadata. It never creates
// partitions; that is the write repository's job.
type ShardRegistry struct {
	DB *gorm.DB
}

func NewShardRegistry(db *gorm.DB) *ShardRegistry {
	return &ShardRegistry{
		DB: db,
	}
}

// ListShards returns every product-bearing partition, default
// partition included when present.
func (r *ShardRegistry) ListShards(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var tables []string
	err := r.DB.WithContext(ctx).Raw(
		`SELECT table_name FROM information_schema.tables
		 WHERE table_schema = 'public'
		   AND (table_name = ? OR table_name LIKE ?)
		 ORDER BY table_name`,
		domain.DefaultShard, domain.DefaultShard+"\\_%",
	).Scan(&tables).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list shards: %w", err)
	}

	return tables, nil
}

func (r *ShardRegistry) ShardExists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("context error: %w", err)
	}

	var count int64
	err := r.DB.WithContext(ctx).Raw(
		`SELECT COUNT(*) FROM information_schema.tables
		 WHERE table_schema = 'public' AND table_name = ?`,
		name,
	).Scan(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check shard existence: %w", err)
	}

	return count > 0, nil
}
