//go:build !integration

package recoapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"
	"time"
)

func TestFetchRecommendations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/recommendations" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("user_id"); got != "u1" {
			t.Errorf("user_id = %q, want u1", got)
		}
		if got := r.URL.Query().Get("limit"); got != "5" {
			t.Errorf("limit = %q, want 5", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"product_ids":["a","b","c"]}`))
	}))
	defer srv.Close()

	repo := NewRecoAPIRepository(RecoAPIConfig{BaseURL: srv.URL, Timeout: time.Second})

	ids, err := repo.FetchRecommendations(context.Background(), "u1", 5)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if !slices.Equal(ids, []string{"a", "b", "c"}) {
		t.Errorf("ids = %v, want [a b c]", ids)
	}
}

func TestFetchRecommendationsNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	repo := NewRecoAPIRepository(RecoAPIConfig{BaseURL: srv.URL, Timeout: time.Second})

	if _, err := repo.FetchRecommendations(context.Background(), "u1", 5); err == nil {
		t.Error("expected an error for a 502 response")
	}
}

func TestFetchRecommendationsTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"product_ids":[]}`))
	}))
	defer srv.Close()

	repo := NewRecoAPIRepository(RecoAPIConfig{BaseURL: srv.URL, Timeout: 30 * time.Millisecond})

	if _, err := repo.FetchRecommendations(context.Background(), "u1", 5); err == nil {
		t.Error("expected an error when the service exceeds the deadline")
	}
}

func TestFetchRecommendationsMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	repo := NewRecoAPIRepository(RecoAPIConfig{BaseURL: srv.URL, Timeout: time.Second})

	if _, err := repo.FetchRecommendations(context.Background(), "u1", 5); err == nil {
		t.Error("expected an error for an unparsable body")
	}
}

func TestEnabled(t *testing.T) {
	if NewRecoAPIRepository(RecoAPIConfig{}).Enabled() {
		t.Error("repository without a base URL must report disabled")
	}
	if !NewRecoAPIRepository(RecoAPIConfig{BaseURL: "http://reco.internal"}).Enabled() {
		t.Error("repository with a base URL must report enabled")
	}
}
