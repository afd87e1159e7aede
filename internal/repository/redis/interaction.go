package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"shopSphere/domain"

	"github.com/redis/go-redis/v9"
)

// Interaction keyspace. Counters are plain sorted sets so the top-N
// reads stay single round-trips; the view history is a capped list.
const (
	keyHistory      = "reco:history:%s"     // user -> LIST of product ids, newest first
	keyEvent        = "reco:event:%s:%d"    // raw view event, TTL'd
	keyPopular      = "reco:popular"        // ZSET product -> weighted score
	keyPopularByCat = "reco:popular:cat:%s" // ZSET per category
	keyAffinity     = "reco:affinity:%s"    // ZSET user -> category weights
	keyViewers      = "reco:viewers:%s"     // SET product -> user ids
)

type InteractionRepository struct {
	client *redis.Client
}

func NewInteractionRepository(client *redis.Client) *InteractionRepository {
	return &InteractionRepository{
		client: client,
	}
}

// AppendView pushes productID onto the user's history and trims it to
// the bounded length in one pipeline.
func (r *InteractionRepository) AppendView(ctx context.Context, userID, productID string) error {
	key := fmt.Sprintf(keyHistory, userID)

	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, key, productID)
	pipe.LTrim(ctx, key, 0, int64(domain.ViewHistoryLimit-1))

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append view history: %w", err)
	}

	return nil
}

func (r *InteractionRepository) SaveEvent(ctx context.Context, event domain.ViewEvent, ttl time.Duration) error {
	jsonData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal view event: %w", err)
	}

	key := fmt.Sprintf(keyEvent, event.UserID, event.Timestamp.UnixNano())
	if err := r.client.Set(ctx, key, jsonData, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store view event: %w", err)
	}

	return nil
}

func (r *InteractionRepository) IncrPopularity(ctx context.Context, productID string, weight int) error {
	if err := r.client.ZIncrBy(ctx, keyPopular, float64(weight), productID).Err(); err != nil {
		return fmt.Errorf("failed to increment popularity: %w", err)
	}

	return nil
}

func (r *InteractionRepository) IncrCategoryPopularity(ctx context.Context, category, productID string, weight int) error {
	key := fmt.Sprintf(keyPopularByCat, domain.NormalizeCategory(category))
	if err := r.client.ZIncrBy(ctx, key, float64(weight), productID).Err(); err != nil {
		return fmt.Errorf("failed to increment category popularity: %w", err)
	}

	return nil
}

func (r *InteractionRepository) IncrAffinity(ctx context.Context, userID, category string, weight int) error {
	key := fmt.Sprintf(keyAffinity, userID)
	member := domain.NormalizeCategory(category)

	if err := r.client.ZIncrBy(ctx, key, float64(weight), member).Err(); err != nil {
		return fmt.Errorf("failed to increment category affinity: %w", err)
	}

	return nil
}

func (r *InteractionRepository) RecentViews(ctx context.Context, userID string, n int) ([]string, error) {
	key := fmt.Sprintf(keyHistory, userID)

	ids, err := r.client.LRange(ctx, key, 0, int64(n-1)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read view history: %w", err)
	}

	return ids, nil
}

func (r *InteractionRepository) Viewers(ctx context.Context, productID string, n int) ([]string, error) {
	key := fmt.Sprintf(keyViewers, productID)

	users, err := r.client.SRandMemberN(ctx, key, int64(n)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read viewer set: %w", err)
	}

	return users, nil
}

func (r *InteractionRepository) AddViewer(ctx context.Context, productID, userID string) error {
	key := fmt.Sprintf(keyViewers, productID)

	if err := r.client.SAdd(ctx, key, userID).Err(); err != nil {
		return fmt.Errorf("failed to register viewer: %w", err)
	}

	return nil
}

// TopCategory returns the user's highest-weighted category, or ""
// when the user has no recorded affinity.
func (r *InteractionRepository) TopCategory(ctx context.Context, userID string) (string, error) {
	key := fmt.Sprintf(keyAffinity, userID)

	cats, err := r.client.ZRevRange(ctx, key, 0, 0).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read category affinity: %w", err)
	}

	if len(cats) == 0 {
		return "", nil
	}

	return cats[0], nil
}

func (r *InteractionRepository) TopPopular(ctx context.Context, n int) ([]string, error) {
	ids, err := r.client.ZRevRange(ctx, keyPopular, 0, int64(n-1)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read popularity ranking: %w", err)
	}

	return ids, nil
}

func (r *InteractionRepository) TopPopularInCategory(ctx context.Context, category string, n int) ([]string, error) {
	key := fmt.Sprintf(keyPopularByCat, domain.NormalizeCategory(category))

	ids, err := r.client.ZRevRange(ctx, key, 0, int64(n-1)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read category popularity ranking: %w", err)
	}

	return ids, nil
}
