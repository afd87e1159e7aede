package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"shopSphere/domain"
	"shopSphere/pkg/logger"
	"shopSphere/pkg/metrics"

	"golang.org/x/sync/errgroup"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ShardRegistry contract interface
type ShardRegistry interface {
	ListShards(ctx context.Context) ([]string, error)
	ShardExists(ctx context.Context, name string) (bool, error)
}

// CatalogRepository contract interface
type CatalogRepository interface {
	QueryShard(ctx context.Context, shard string, filter domain.CatalogFilter) ([]domain.Product, error)
	FindByID(ctx context.Context, shard, id string) (*domain.Product, error)
}

// Cache is best-effort: implementations log failures internally and
// degrade to miss/no-op, they never surface store errors here.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Delete(ctx context.Context, key string)
	DeleteByPattern(ctx context.Context, pattern string)
}

type CatalogService struct {
	registry  ShardRegistry
	repo      CatalogRepository
	cache     Cache
	listTTL   time.Duration
	detailTTL time.Duration
}

func NewCatalogService(registry ShardRegistry, repo CatalogRepository, cache Cache, listTTL, detailTTL time.Duration) *CatalogService {
	return &CatalogService{
		registry:  registry,
		repo:      repo,
		cache:     cache,
		listTTL:   listTTL,
		detailTTL: detailTTL,
	}
}

// Query runs one filter/sort/pagination tuple across every
// relevant shard and merges the results as if they were one table.
// Pagination happens strictly after the global merge and sort; a
// per-shard failure is logged and contributes nothing.
func (s *CatalogService) Query(ctx context.Context, q domain.CatalogQuery) (*domain.CatalogPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	q = clampQuery(q)

	// id-restricted queries (hydration, supplements) have unbounded
	// key cardinality and skip the cache
	cacheable := len(q.Filter.IDs) == 0 && len(q.Filter.ExcludeIDs) == 0

	var cacheKey string
	if cacheable {
		cacheKey = listCacheKey(q)
		if data, ok := s.cache.Get(ctx, cacheKey); ok {
			var page domain.CatalogPage
			if err := json.Unmarshal(data, &page); err == nil {
				metrics.CatalogCacheHits.Inc()
				return &page, nil
			}
			logger.Warn("failed to decode cached catalog page", "key", cacheKey)
		}
		metrics.CatalogCacheMisses.Inc()
	}

	filter := q.Filter
	var anchor *domain.Product

	if filter.RelatedTo != "" {
		var err error
		anchor, err = s.findAcrossShards(ctx, filter.RelatedTo)
		if err != nil {
			return nil, err
		}
		if anchor == nil {
			// unknown anchor yields an empty page, not an error
			return emptyPage(q), nil
		}
		filter = relatedFilter(filter, anchor)
	}

	shards, err := s.resolveShards(ctx, filter.Category)
	if err != nil {
		return nil, err
	}

	merged := s.fanOut(ctx, shards, filter)

	if anchor != nil {
		merged = filterRelated(merged, anchor)
	}

	if len(q.Filter.IDs) > 0 {
		orderByIDs(merged, q.Filter.IDs)
	} else {
		sortProducts(merged, q.Sort)
	}

	total := len(merged)
	totalPages := (total + q.PageSize - 1) / q.PageSize

	start := (q.Page - 1) * q.PageSize
	if start > total {
		start = total
	}
	end := start + q.PageSize
	if end > total {
		end = total
	}

	page := &domain.CatalogPage{
		Items:      merged[start:end],
		Total:      total,
		Page:       q.Page,
		TotalPages: totalPages,
	}

	if cacheable {
		if data, err := json.Marshal(page); err == nil {
			s.cache.Set(ctx, cacheKey, data, s.listTTL)
		}
	}

	return page, nil
}

// GetProductByID is the point lookup across shards, cached with the
// detail TTL class. A missing product returns (nil, nil).
func (s *CatalogService) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	key := detailCacheKey(id)
	if data, ok := s.cache.Get(ctx, key); ok {
		var product domain.Product
		if err := json.Unmarshal(data, &product); err == nil {
			metrics.CatalogCacheHits.Inc()
			return &product, nil
		}
	}
	metrics.CatalogCacheMisses.Inc()

	product, err := s.findAcrossShards(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}

	if data, err := json.Marshal(product); err == nil {
		s.cache.Set(ctx, key, data, s.detailTTL)
	}

	return product, nil
}

// InvalidateProduct is the hook the catalog write path fires after
// every mutation: all list-key variants plus the detail key.
func (s *CatalogService) InvalidateProduct(ctx context.Context, id string) {
	s.cache.DeleteByPattern(ctx, listKeyPrefix+"*")
	s.cache.Delete(ctx, detailCacheKey(id))
}

// resolveShards maps a category (or its absence) to the ordered
// fan-out target set. Read-only; partitions are created by the write
// path.
func (s *CatalogService) resolveShards(ctx context.Context, category string) ([]string, error) {
	if category == "" {
		shards, err := s.registry.ListShards(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve shards: %w", err)
		}
		return shards, nil
	}

	var shards []string
	for _, candidate := range domain.ShardCandidates(category) {
		exists, err := s.registry.ShardExists(ctx, candidate)
		if err != nil {
			logger.Warn("shard existence probe failed", "shard", candidate, "error", err)
			continue
		}
		if exists {
			shards = append(shards, candidate)
		}
	}

	// the default partition may hold overflow of any category
	exists, err := s.registry.ShardExists(ctx, domain.DefaultShard)
	if err == nil && exists {
		shards = append(shards, domain.DefaultShard)
	}

	if len(shards) == 0 {
		return nil, fmt.Errorf("no shards available for category %q", category)
	}

	return shards, nil
}

// fanOut queries every shard concurrently with one shared predicate
// and merges the results, deduplicating by id. The instance from the
// later shard wins; shard exclusivity is a soft invariant only.
func (s *CatalogService) fanOut(ctx context.Context, shards []string, filter domain.CatalogFilter) []domain.Product {
	results := make([][]domain.Product, len(shards))

	g, gctx := errgroup.WithContext(ctx)
	for i, shard := range shards {
		g.Go(func() error {
			items, err := s.repo.QueryShard(gctx, shard, filter)
			if err != nil {
				logger.Error("shard query failed, excluding from results", "shard", shard, "error", err)
				metrics.CatalogShardFailures.WithLabelValues(shard).Inc()
				return nil
			}
			results[i] = items
			return nil
		})
	}
	_ = g.Wait()

	index := make(map[string]int)
	var merged []domain.Product
	for _, items := range results {
		for _, p := range items {
			if at, ok := index[p.ID]; ok {
				merged[at] = p
				continue
			}
			index[p.ID] = len(merged)
			merged = append(merged, p)
		}
	}

	return merged
}

func (s *CatalogService) findAcrossShards(ctx context.Context, id string) (*domain.Product, error) {
	shards, err := s.registry.ListShards(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve shards: %w", err)
	}

	for _, shard := range shards {
		product, err := s.repo.FindByID(ctx, shard, id)
		if err != nil {
			logger.Error("shard point lookup failed", "shard", shard, "error", err)
			metrics.CatalogShardFailures.WithLabelValues(shard).Inc()
			continue
		}
		if product != nil {
			return product, nil
		}
	}

	return nil, nil
}

func clampQuery(q domain.CatalogQuery) domain.CatalogQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = defaultPageSize
	}
	if q.PageSize > maxPageSize {
		q.PageSize = maxPageSize
	}

	switch q.Sort {
	case domain.SortPriceLow, domain.SortPriceHigh, domain.SortDiscount, domain.SortPopularity, domain.SortNewest:
	default:
		q.Sort = domain.SortNewest
	}

	return q
}

func emptyPage(q domain.CatalogQuery) *domain.CatalogPage {
	return &domain.CatalogPage{
		Items:      []domain.Product{},
		Total:      0,
		Page:       q.Page,
		TotalPages: 0,
	}
}
