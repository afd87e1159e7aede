//go:build !integration

package recommend

import (
	"context"
	"errors"
	"slices"
	"sort"
	"testing"

	"shopSphere/domain"
	"shopSphere/internal/repository/memcache"
	"shopSphere/pkg/ident"
)

// ---- fakes ----

type fakeHydrator struct {
	products []domain.Product
	queries  []domain.CatalogQuery
}

func (h *fakeHydrator) Query(ctx context.Context, q domain.CatalogQuery) (*domain.CatalogPage, error) {
	h.queries = append(h.queries, q)

	var items []domain.Product
	if len(q.Filter.IDs) > 0 {
		// hydration preserves the requested id order
		for _, id := range q.Filter.IDs {
			for _, p := range h.products {
				if p.ID != id {
					continue
				}
				if q.Filter.InStock != nil && p.InStock != *q.Filter.InStock {
					continue
				}
				items = append(items, p)
			}
		}
	} else {
		for _, p := range h.products {
			if q.Filter.InStock != nil && p.InStock != *q.Filter.InStock {
				continue
			}
			if slices.Contains(q.Filter.ExcludeIDs, p.ID) {
				continue
			}
			items = append(items, p)
		}
		if q.Sort == domain.SortPopularity {
			sort.Slice(items, func(i, j int) bool {
				si, sj := items[i].PopularityScore(), items[j].PopularityScore()
				if si != sj {
					return si > sj
				}
				return items[i].ID < items[j].ID
			})
		}
	}

	if q.PageSize > 0 && len(items) > q.PageSize {
		items = items[:q.PageSize]
	}

	return &domain.CatalogPage{Items: items, Total: len(items), Page: 1, TotalPages: 1}, nil
}

type fakeExternal struct {
	enabled bool
	ids     []string
	err     error
	calls   int
}

func (f *fakeExternal) Enabled() bool { return f.enabled }

func (f *fakeExternal) FetchRecommendations(ctx context.Context, userID string, limit int) ([]string, error) {
	f.calls++
	return f.ids, f.err
}

type failingReader struct{}

var errStoreDown = errors.New("store down")

func (failingReader) RecentViews(ctx context.Context, userID string, n int) ([]string, error) {
	return nil, errStoreDown
}
func (failingReader) Viewers(ctx context.Context, productID string, n int) ([]string, error) {
	return nil, errStoreDown
}
func (failingReader) AddViewer(ctx context.Context, productID, userID string) error {
	return errStoreDown
}
func (failingReader) TopCategory(ctx context.Context, userID string) (string, error) {
	return "", errStoreDown
}
func (failingReader) TopPopular(ctx context.Context, n int) ([]string, error) {
	return nil, errStoreDown
}
func (failingReader) TopPopularInCategory(ctx context.Context, category string, n int) ([]string, error) {
	return nil, errStoreDown
}

func stockedProduct(id string, score int64) domain.Product {
	return domain.Product{ID: id, Name: "P " + id, Category: "Jeans", Price: 100, InStock: true, ViewCount: score}
}

// ---- tests ----

func TestColdStartFallsBackToPopularity(t *testing.T) {
	ctx := context.Background()
	store := memcache.NewInteractionStore()

	p1, p2, p3 := ident.NewProductID(), ident.NewProductID(), ident.NewProductID()
	_ = store.IncrPopularity(ctx, p1, 5)
	_ = store.IncrPopularity(ctx, p2, 3)
	_ = store.IncrPopularity(ctx, p3, 1)

	hydrator := &fakeHydrator{products: []domain.Product{
		stockedProduct(p1, 0), stockedProduct(p2, 0), stockedProduct(p3, 0),
	}}

	svc := NewRecommendService(store, nil, hydrator)

	recos := svc.Recommend(ctx, "newcomer", 3)

	if recos.Source != domain.RecoSourcePopularity {
		t.Errorf("source = %q, want %q", recos.Source, domain.RecoSourcePopularity)
	}
	if recos.Count != 3 {
		t.Fatalf("count = %d, want 3", recos.Count)
	}
	got := []string{recos.Items[0].ID, recos.Items[1].ID, recos.Items[2].ID}
	if !slices.Equal(got, []string{p1, p2, p3}) {
		t.Errorf("items = %v, want popularity order [%s %s %s]", got, p1, p2, p3)
	}
}

func TestTwoHopCollaborativeDiscovery(t *testing.T) {
	ctx := context.Background()
	store := memcache.NewInteractionStore()

	seed := ident.NewProductID()
	p2 := ident.NewProductID()
	p3 := ident.NewProductID()

	// user A viewed the seed; neighbor B viewed the seed too plus two
	// other products
	_ = store.AppendView(ctx, "userA", seed)
	_ = store.AddViewer(ctx, seed, "userB")
	_ = store.AppendView(ctx, "userB", p2)
	_ = store.AppendView(ctx, "userB", p3)

	hydrator := &fakeHydrator{products: []domain.Product{
		stockedProduct(p2, 0), stockedProduct(p3, 0),
	}}

	svc := NewRecommendService(store, nil, hydrator)

	recos := svc.Recommend(ctx, "userA", 5)

	if recos.Source != domain.RecoSourceEngine {
		t.Errorf("source = %q, want %q", recos.Source, domain.RecoSourceEngine)
	}

	ids := make([]string, 0, len(recos.Items))
	for _, p := range recos.Items {
		ids = append(ids, p.ID)
	}
	if !slices.Contains(ids, p2) || !slices.Contains(ids, p3) {
		t.Errorf("items = %v, want the neighbor's views %s and %s", ids, p2, p3)
	}
	if slices.Contains(ids, seed) {
		t.Errorf("items = %v, must not recommend the already-viewed seed", ids)
	}

	// the requesting user is lazily registered as a viewer of the seed
	// so the next request can discover them as a neighbor
	viewers, err := store.Viewers(ctx, seed, 0)
	if err != nil {
		t.Fatalf("viewers read failed: %v", err)
	}
	if !slices.Contains(viewers, "userA") {
		t.Errorf("viewers of seed = %v, want userA registered", viewers)
	}
}

func TestExternalServicePreferred(t *testing.T) {
	ctx := context.Background()
	store := memcache.NewInteractionStore()

	ext := ident.NewProductID()
	external := &fakeExternal{enabled: true, ids: []string{ext}}
	hydrator := &fakeHydrator{products: []domain.Product{stockedProduct(ext, 0)}}

	svc := NewRecommendService(store, external, hydrator)

	recos := svc.Recommend(ctx, "userA", 1)

	if recos.Source != domain.RecoSourceExternal {
		t.Errorf("source = %q, want %q", recos.Source, domain.RecoSourceExternal)
	}
	if recos.Count != 1 || recos.Items[0].ID != ext {
		t.Errorf("items = %+v, want the delegated id", recos.Items)
	}
	if external.calls != 1 {
		t.Errorf("external service called %d times, want 1", external.calls)
	}
}

func TestExternalFailureFallsThrough(t *testing.T) {
	ctx := context.Background()
	store := memcache.NewInteractionStore()

	p1 := ident.NewProductID()
	_ = store.IncrPopularity(ctx, p1, 4)

	external := &fakeExternal{enabled: true, err: errors.New("upstream timeout")}
	hydrator := &fakeHydrator{products: []domain.Product{stockedProduct(p1, 0)}}

	svc := NewRecommendService(store, external, hydrator)

	recos := svc.Recommend(ctx, "userA", 5)

	if recos.Source != domain.RecoSourcePopularity {
		t.Errorf("source = %q, want fallback to %q", recos.Source, domain.RecoSourcePopularity)
	}
	if recos.Count != 1 || recos.Items[0].ID != p1 {
		t.Errorf("items = %+v, want the internal popularity pick", recos.Items)
	}
}

func TestMalformedExternalIDsSkipped(t *testing.T) {
	ctx := context.Background()
	store := memcache.NewInteractionStore()

	good := ident.NewProductID()
	external := &fakeExternal{enabled: true, ids: []string{"not-an-id", good, "also;bad"}}
	hydrator := &fakeHydrator{products: []domain.Product{stockedProduct(good, 0)}}

	svc := NewRecommendService(store, external, hydrator)

	recos := svc.Recommend(ctx, "userA", 3)

	if recos.Source != domain.RecoSourceExternal {
		t.Errorf("source = %q, want %q", recos.Source, domain.RecoSourceExternal)
	}
	if recos.Count != 1 || recos.Items[0].ID != good {
		t.Errorf("items = %+v, want only the well-formed id hydrated", recos.Items)
	}
}

func TestOutOfStockCandidatesAreSupplemented(t *testing.T) {
	ctx := context.Background()
	store := memcache.NewInteractionStore()

	gone := ident.NewProductID()
	avail := ident.NewProductID()
	_ = store.IncrPopularity(ctx, gone, 10)
	_ = store.IncrPopularity(ctx, avail, 1)

	outOfStock := stockedProduct(gone, 10)
	outOfStock.InStock = false

	hydrator := &fakeHydrator{products: []domain.Product{outOfStock, stockedProduct(avail, 1)}}

	svc := NewRecommendService(store, nil, hydrator)

	recos := svc.Recommend(ctx, "newcomer", 2)

	ids := make([]string, 0, len(recos.Items))
	for _, p := range recos.Items {
		ids = append(ids, p.ID)
	}
	if slices.Contains(ids, gone) {
		t.Errorf("items = %v, out-of-stock product must not be recommended", ids)
	}
	if !slices.Contains(ids, avail) {
		t.Errorf("items = %v, want the in-stock supplement", ids)
	}
}

func TestReaderFailureDegradesToCatalogPopularity(t *testing.T) {
	ctx := context.Background()

	a := stockedProduct(ident.NewProductID(), 9)
	b := stockedProduct(ident.NewProductID(), 2)
	hydrator := &fakeHydrator{products: []domain.Product{b, a}}

	svc := NewRecommendService(failingReader{}, nil, hydrator)

	recos := svc.Recommend(ctx, "userA", 2)

	if recos.Source != domain.RecoSourcePopularity {
		t.Errorf("source = %q, want %q", recos.Source, domain.RecoSourcePopularity)
	}
	if recos.Count != 2 {
		t.Fatalf("count = %d, want 2 from the catalog supplement", recos.Count)
	}
	if recos.Items[0].ID != a.ID {
		t.Errorf("first item = %s, want the highest-scoring product %s", recos.Items[0].ID, a.ID)
	}
}

func TestLimitClamped(t *testing.T) {
	ctx := context.Background()

	products := make([]domain.Product, 0, 15)
	for i := 0; i < 15; i++ {
		products = append(products, stockedProduct(ident.NewProductID(), int64(i)))
	}
	hydrator := &fakeHydrator{products: products}

	svc := NewRecommendService(memcache.NewInteractionStore(), nil, hydrator)

	recos := svc.Recommend(ctx, "userA", 0)
	if recos.Count != defaultLimit {
		t.Errorf("count = %d with limit 0, want the default %d", recos.Count, defaultLimit)
	}
}
