package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"shopSphere/domain"
	"shopSphere/internal/middleware"
	"shopSphere/pkg/metrics"

	"github.com/labstack/echo/v4"
)

type RecommendService interface {
	Recommend(ctx context.Context, userID string, limit int) *domain.Recommendations
}

type RecommendHandler struct {
	recommendService RecommendService
	timeout          time.Duration
}

func NewRecommendHandler(recommendService RecommendService) *RecommendHandler {
	return &RecommendHandler{
		recommendService: recommendService,
		timeout:          10 * time.Second,
	}
}

// Recommend serves the per-user suggestion list. The service layer
// guarantees a usable (possibly empty) result for any read-side
// failure, so this endpoint has no 5xx path of its own.
func (h *RecommendHandler) Recommend(c echo.Context) error {
	start := time.Now()

	limit := 0
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	userID := middleware.UserID(c)
	recos := h.recommendService.Recommend(ctx, userID, limit)

	metrics.RecoLatency.Observe(time.Since(start).Seconds())

	return c.JSON(http.StatusOK, recos)
}
