package recoapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

type RecoAPIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// RecoAPIRepository talks to the optional external recommendation
// service. The call is advisory: the engine falls through to its
// internal algorithm on timeout, transport error or non-2xx.
type RecoAPIRepository struct {
	recoConfig RecoAPIConfig
	client     *http.Client
}

func NewRecoAPIRepository(cfg RecoAPIConfig) *RecoAPIRepository {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}

	return &RecoAPIRepository{
		recoConfig: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

func (r *RecoAPIRepository) Enabled() bool {
	return r.recoConfig.BaseURL != ""
}

type recoResponse struct {
	ProductIDs []string `json:"product_ids"`
}

func (r *RecoAPIRepository) FetchRecommendations(ctx context.Context, userID string, limit int) ([]string, error) {
	endpoint := fmt.Sprintf("%s/recommendations?user_id=%s&limit=%s",
		r.recoConfig.BaseURL, url.QueryEscape(userID), strconv.Itoa(limit))

	ctx, cancel := context.WithTimeout(ctx, r.recoConfig.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Add("Accept", "application/json")

	res, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("recommendation service returned status %d", res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	var parsed recoResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse recommendation response: %w", err)
	}

	return parsed.ProductIDs, nil
}
