package interaction

import (
	"context"
	"time"

	"shopSphere/domain"
	"shopSphere/pkg/logger"
	"shopSphere/pkg/metrics"
)

// InteractionStore contract interface. Implementations are Redis or
// the in-process fallback; persistence is best effort either way.
type InteractionStore interface {
	AppendView(ctx context.Context, userID, productID string) error
	SaveEvent(ctx context.Context, event domain.ViewEvent, ttl time.Duration) error
	IncrPopularity(ctx context.Context, productID string, weight int) error
	IncrCategoryPopularity(ctx context.Context, category, productID string, weight int) error
	IncrAffinity(ctx context.Context, userID, category string, weight int) error
}

// CounterRepository bumps the product-row counters behind the
// catalog's composite popularity sort.
type CounterRepository interface {
	IncrCounters(ctx context.Context, shard, id string, views, purchases int) error
}

type ShardRegistry interface {
	ListShards(ctx context.Context) ([]string, error)
	ShardExists(ctx context.Context, name string) (bool, error)
}

// interactionService records view and purchase events. Both entry
// points are fire-and-forget: every internal error is swallowed and
// logged, the caller always succeeds.
type interactionService struct {
	store    InteractionStore
	counters CounterRepository
	registry ShardRegistry
	eventTTL time.Duration
}

func NewInteractionService(store InteractionStore, counters CounterRepository, registry ShardRegistry, eventTTL time.Duration) *interactionService {
	return &interactionService{
		store:    store,
		counters: counters,
		registry: registry,
		eventTTL: eventTTL,
	}
}

// RecordView captures one product view: bounded history append,
// popularity +1, category affinity +1, a TTL'd raw event, and a
// best-effort bump of the row counter.
func (s *interactionService) RecordView(ctx context.Context, userID, productID, category string) {
	if userID == "" || productID == "" {
		return
	}

	if err := s.store.AppendView(ctx, userID, productID); err != nil {
		logger.Warn("failed to append view history", "user", userID, "error", err)
	}

	event := domain.ViewEvent{
		UserID:    userID,
		ProductID: productID,
		Category:  category,
		Timestamp: time.Now(),
	}
	if err := s.store.SaveEvent(ctx, event, s.eventTTL); err != nil {
		logger.Warn("failed to save view event", "user", userID, "error", err)
	}

	if err := s.store.IncrPopularity(ctx, productID, domain.ViewPopularityWeight); err != nil {
		logger.Warn("failed to increment popularity", "product", productID, "error", err)
	}

	if category != "" {
		if err := s.store.IncrCategoryPopularity(ctx, category, productID, domain.ViewPopularityWeight); err != nil {
			logger.Warn("failed to increment category popularity", "product", productID, "error", err)
		}
		if err := s.store.IncrAffinity(ctx, userID, category, domain.ViewAffinityWeight); err != nil {
			logger.Warn("failed to increment category affinity", "user", userID, "error", err)
		}
	}

	s.bumpRowCounters(ctx, productID, category, 1, 0)

	metrics.ViewEventsTotal.WithLabelValues("view").Inc()
}

// RecordPurchase applies the heavier purchase weights. Invoked by the
// order-completion collaborator.
func (s *interactionService) RecordPurchase(ctx context.Context, userID, productID, category string) {
	if userID == "" || productID == "" {
		return
	}

	if err := s.store.IncrPopularity(ctx, productID, domain.PurchasePopularityWeight); err != nil {
		logger.Warn("failed to increment popularity", "product", productID, "error", err)
	}

	if category != "" {
		if err := s.store.IncrCategoryPopularity(ctx, category, productID, domain.PurchasePopularityWeight); err != nil {
			logger.Warn("failed to increment category popularity", "product", productID, "error", err)
		}
		if err := s.store.IncrAffinity(ctx, userID, category, domain.PurchaseAffinityWeight); err != nil {
			logger.Warn("failed to increment category affinity", "user", userID, "error", err)
		}
	}

	s.bumpRowCounters(ctx, productID, category, 0, 1)

	metrics.ViewEventsTotal.WithLabelValues("purchase").Inc()
}

// bumpRowCounters walks the shards the product can live in and stops
// at the first one holding the row.
func (s *interactionService) bumpRowCounters(ctx context.Context, productID, category string, views, purchases int) {
	var shards []string

	if category != "" {
		for _, candidate := range domain.ShardCandidates(category) {
			exists, err := s.registry.ShardExists(ctx, candidate)
			if err == nil && exists {
				shards = append(shards, candidate)
			}
		}
		shards = append(shards, domain.DefaultShard)
	} else {
		all, err := s.registry.ListShards(ctx)
		if err != nil {
			logger.Warn("failed to list shards for counter update", "error", err)
			return
		}
		shards = all
	}

	for _, shard := range shards {
		if err := s.counters.IncrCounters(ctx, shard, productID, views, purchases); err == nil {
			return
		}
	}
}
