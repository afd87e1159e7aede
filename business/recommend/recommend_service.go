package recommend

import (
	"context"

	"shopSphere/domain"
	"shopSphere/pkg/ident"
	"shopSphere/pkg/logger"
	"shopSphere/pkg/metrics"
)

const (
	historySeedSize  = 10
	seedProducts     = 5
	neighborsPerSeed = 10
	neighborHistory  = 5
	defaultLimit     = 10
	maxLimit         = 50
)

// InteractionReader contract interface
type InteractionReader interface {
	RecentViews(ctx context.Context, userID string, n int) ([]string, error)
	Viewers(ctx context.Context, productID string, n int) ([]string, error)
	AddViewer(ctx context.Context, productID, userID string) error
	TopCategory(ctx context.Context, userID string) (string, error)
	TopPopular(ctx context.Context, n int) ([]string, error)
	TopPopularInCategory(ctx context.Context, category string, n int) ([]string, error)
}

// ExternalClient delegates to the optional external recommendation
// service. Advisory only; any failure falls through to the internal
// algorithm.
type ExternalClient interface {
	Enabled() bool
	FetchRecommendations(ctx context.Context, userID string, limit int) ([]string, error)
}

// Hydrator resolves candidate ids into public product records. In
// production this is the catalog fan-out engine.
type Hydrator interface {
	Query(ctx context.Context, q domain.CatalogQuery) (*domain.CatalogPage, error)
}

type RecommendService struct {
	reader   InteractionReader
	external ExternalClient
	hydrator Hydrator
}

func NewRecommendService(reader InteractionReader, external ExternalClient, hydrator Hydrator) *RecommendService {
	return &RecommendService{
		reader:   reader,
		external: external,
		hydrator: hydrator,
	}
}

// Recommend computes the candidate list for a user and hydrates it
// into in-stock product records, padding with popular products when
// stock or category filtering leaves the list short. It never fails
// for read-side causes; the worst case is an empty list.
func (s *RecommendService) Recommend(ctx context.Context, userID string, limit int) *domain.Recommendations {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	ids, source := s.candidateIDs(ctx, userID, limit)

	// malformed ids (typically from the external service) are
	// dropped individually, never abort the batch
	valid := ids[:0]
	for _, id := range ids {
		if ident.Valid(id) {
			valid = append(valid, id)
		}
	}

	inStock := true
	items := make([]domain.Product, 0, limit)

	if len(valid) > 0 {
		page, err := s.hydrator.Query(ctx, domain.CatalogQuery{
			Filter:   domain.CatalogFilter{IDs: valid, InStock: &inStock},
			Page:     1,
			PageSize: limit,
		})
		if err != nil {
			logger.Warn("recommendation hydration failed", "user", userID, "error", err)
		} else {
			items = append(items, page.Items...)
		}
	}

	// supplement with popular in-stock products until the limit is
	// reached or the catalog is exhausted
	if len(items) < limit {
		exclude := make([]string, 0, len(items))
		for _, p := range items {
			exclude = append(exclude, p.ID)
		}

		page, err := s.hydrator.Query(ctx, domain.CatalogQuery{
			Filter:   domain.CatalogFilter{InStock: &inStock, ExcludeIDs: exclude},
			Sort:     domain.SortPopularity,
			Page:     1,
			PageSize: limit - len(items),
		})
		if err != nil {
			logger.Warn("recommendation supplement failed", "user", userID, "error", err)
		} else {
			items = append(items, page.Items...)
		}
	}

	metrics.RecoRequestsTotal.WithLabelValues(source).Inc()

	return &domain.Recommendations{
		Items:  items,
		Count:  len(items),
		Source: source,
	}
}

// candidateIDs runs the layered strategy: external delegation, then
// the collaborative view graph, then category affinity, then global
// popularity. It reports which tier produced the list.
func (s *RecommendService) candidateIDs(ctx context.Context, userID string, limit int) ([]string, string) {
	if s.external != nil && s.external.Enabled() {
		ids, err := s.external.FetchRecommendations(ctx, userID, limit)
		if err == nil && len(ids) > 0 {
			if len(ids) > limit {
				ids = ids[:limit]
			}
			return ids, domain.RecoSourceExternal
		}
		if err != nil {
			logger.Warn("external recommendation service unavailable, falling back", "user", userID, "error", err)
		}
	}

	history, err := s.reader.RecentViews(ctx, userID, historySeedSize)
	if err != nil {
		logger.Warn("failed to read view history, using popularity fallback", "user", userID, "error", err)
		return s.popularityFallback(ctx, limit, nil, nil), domain.RecoSourcePopularity
	}

	if len(history) == 0 {
		// cold start
		return s.popularityFallback(ctx, limit, nil, nil), domain.RecoSourcePopularity
	}

	seen := make(map[string]struct{}, len(history))
	for _, id := range history {
		seen[id] = struct{}{}
	}

	var candidates []string
	picked := make(map[string]struct{})

	// collaborative step: users who viewed my recent products also
	// viewed these
	seeds := history
	if len(seeds) > seedProducts {
		seeds = seeds[:seedProducts]
	}

	for _, seed := range seeds {
		viewers, err := s.reader.Viewers(ctx, seed, neighborsPerSeed+1)
		if err != nil {
			logger.Warn("failed to read viewer set", "product", seed, "error", err)
			continue
		}

		neighbors := 0
		for _, neighbor := range viewers {
			if neighbor == userID {
				continue
			}
			if neighbors >= neighborsPerSeed {
				break
			}
			neighbors++

			theirViews, err := s.reader.RecentViews(ctx, neighbor, neighborHistory)
			if err != nil {
				continue
			}
			for _, pid := range theirViews {
				if _, ok := seen[pid]; ok {
					continue
				}
				if _, ok := picked[pid]; ok {
					continue
				}
				picked[pid] = struct{}{}
				candidates = append(candidates, pid)
			}
		}

		// register this user as a viewer of the seed so the next
		// request's collaborative step can discover them as a
		// neighbor (one request delayed by design of the lazy
		// population)
		if err := s.reader.AddViewer(ctx, seed, userID); err != nil {
			logger.Warn("failed to register viewer", "product", seed, "error", err)
		}
	}

	// category-affinity supplement
	if len(candidates) < limit {
		topCat, err := s.reader.TopCategory(ctx, userID)
		if err != nil {
			logger.Warn("failed to read top category", "user", userID, "error", err)
		} else if topCat != "" {
			catTop, err := s.reader.TopPopularInCategory(ctx, topCat, limit*2)
			if err != nil {
				logger.Warn("failed to read category popularity", "category", topCat, "error", err)
			} else {
				candidates = appendFresh(candidates, catTop, seen, picked, limit)
			}
		}
	}
	engineCandidates := len(candidates)

	// global popularity pad
	if len(candidates) < limit {
		candidates = append(candidates, s.popularityFallback(ctx, limit-len(candidates), seen, picked)...)
	}

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	source := domain.RecoSourceEngine
	if engineCandidates == 0 {
		source = domain.RecoSourcePopularity
	}

	return candidates, source
}

func (s *RecommendService) popularityFallback(ctx context.Context, limit int, seen, picked map[string]struct{}) []string {
	top, err := s.reader.TopPopular(ctx, limit*2)
	if err != nil {
		logger.Warn("failed to read popularity ranking", "error", err)
		return nil
	}

	if seen == nil && picked == nil {
		if len(top) > limit {
			top = top[:limit]
		}
		return top
	}

	return appendFresh(nil, top, seen, picked, limit)
}

// appendFresh adds ids neither already seen by the user nor already
// selected, preserving discovery order, up to the limit.
func appendFresh(candidates, ids []string, seen, picked map[string]struct{}, limit int) []string {
	for _, id := range ids {
		if len(candidates) >= limit {
			break
		}
		if _, ok := seen[id]; ok {
			continue
		}
		if _, ok := picked[id]; ok {
			continue
		}
		if picked != nil {
			picked[id] = struct{}{}
		}
		candidates = append(candidates, id)
	}

	return candidates
}
