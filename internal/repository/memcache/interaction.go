package memcache

import (
	"context"
	"sort"
	"sync"
	"time"

	"shopSphere/domain"
)

type rawEvent struct {
	event     domain.ViewEvent
	expiresAt time.Time
}

// InteractionStore is the in-process fallback for the interaction
// data (view histories, counters, viewer sets). Used when no remote
// store is configured; data does not survive a restart, which the
// interaction contract explicitly tolerates.
type InteractionStore struct {
	mu            sync.Mutex
	history       map[string][]string
	events        []rawEvent
	popularity    map[string]float64
	catPopularity map[string]map[string]float64
	affinity      map[string]map[string]float64
	viewers       map[string]map[string]struct{}
}

func NewInteractionStore() *InteractionStore {
	return &InteractionStore{
		history:       make(map[string][]string),
		popularity:    make(map[string]float64),
		catPopularity: make(map[string]map[string]float64),
		affinity:      make(map[string]map[string]float64),
		viewers:       make(map[string]map[string]struct{}),
	}
}

func (s *InteractionStore) AppendView(ctx context.Context, userID, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := append([]string{productID}, s.history[userID]...)
	if len(h) > domain.ViewHistoryLimit {
		h = h[:domain.ViewHistoryLimit]
	}
	s.history[userID] = h

	return nil
}

func (s *InteractionStore) SaveEvent(ctx context.Context, event domain.ViewEvent, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, rawEvent{event: event, expiresAt: time.Now().Add(ttl)})

	// drop expired events opportunistically
	live := s.events[:0]
	now := time.Now()
	for _, e := range s.events {
		if e.expiresAt.After(now) {
			live = append(live, e)
		}
	}
	s.events = live

	return nil
}

func (s *InteractionStore) IncrPopularity(ctx context.Context, productID string, weight int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.popularity[productID] += float64(weight)

	return nil
}

func (s *InteractionStore) IncrCategoryPopularity(ctx context.Context, category, productID string, weight int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cat := domain.NormalizeCategory(category)
	if s.catPopularity[cat] == nil {
		s.catPopularity[cat] = make(map[string]float64)
	}
	s.catPopularity[cat][productID] += float64(weight)

	return nil
}

func (s *InteractionStore) IncrAffinity(ctx context.Context, userID, category string, weight int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.affinity[userID] == nil {
		s.affinity[userID] = make(map[string]float64)
	}
	s.affinity[userID][domain.NormalizeCategory(category)] += float64(weight)

	return nil
}

func (s *InteractionStore) RecentViews(ctx context.Context, userID string, n int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := s.history[userID]
	if n > 0 && len(h) > n {
		h = h[:n]
	}

	out := make([]string, len(h))
	copy(out, h)

	return out, nil
}

func (s *InteractionStore) Viewers(ctx context.Context, productID string, n int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := s.viewers[productID]
	out := make([]string, 0, len(set))
	for u := range set {
		out = append(out, u)
	}
	sort.Strings(out)

	if n > 0 && len(out) > n {
		out = out[:n]
	}

	return out, nil
}

func (s *InteractionStore) AddViewer(ctx context.Context, productID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.viewers[productID] == nil {
		s.viewers[productID] = make(map[string]struct{})
	}
	s.viewers[productID][userID] = struct{}{}

	return nil
}

func (s *InteractionStore) TopCategory(ctx context.Context, userID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var best string
	var bestScore float64
	for cat, score := range s.affinity[userID] {
		if score > bestScore || (score == bestScore && best != "" && cat < best) {
			best = cat
			bestScore = score
		}
	}

	return best, nil
}

func (s *InteractionStore) TopPopular(ctx context.Context, n int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return topByScore(s.popularity, n), nil
}

func (s *InteractionStore) TopPopularInCategory(ctx context.Context, category string, n int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return topByScore(s.catPopularity[domain.NormalizeCategory(category)], n), nil
}

func topByScore(scores map[string]float64, n int) []string {
	ids := make([]string, 0, len(scores))
	for id := range scores {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool {
		if scores[ids[i]] != scores[ids[j]] {
			return scores[ids[i]] > scores[ids[j]]
		}
		return ids[i] < ids[j]
	})

	if n > 0 && len(ids) > n {
		ids = ids[:n]
	}

	return ids
}
