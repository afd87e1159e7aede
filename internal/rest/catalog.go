package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"shopSphere/domain"
	"shopSphere/pkg/logger"
	"shopSphere/pkg/metrics"

	"github.com/labstack/echo/v4"
)

type CatalogService interface {
	Query(ctx context.Context, q domain.CatalogQuery) (*domain.CatalogPage, error)
	GetProductByID(ctx context.Context, id string) (*domain.Product, error)
}

type CatalogHandler struct {
	catalogService CatalogService
	timeout        time.Duration
}

func NewCatalogHandler(catalogService CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		timeout:        10 * time.Second,
	}
}

// GetProducts handles the catalog list query. Pagination and filter
// input is clamped, never rejected; the endpoint stays available for
// any read-side input.
func (h *CatalogHandler) GetProducts(c echo.Context) error {
	start := time.Now()

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	q := domain.CatalogQuery{
		Filter: domain.CatalogFilter{
			Category:  c.QueryParam("category"),
			Search:    c.QueryParam("search"),
			Gender:    c.QueryParam("gender"),
			RelatedTo: c.QueryParam("relatedTo"),
		},
		Sort: c.QueryParam("sort"),
	}

	if v := c.QueryParam("inStock"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			q.Filter.InStock = &b
		}
	}
	if v := c.QueryParam("minPrice"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			q.Filter.MinPrice = &f
		}
	}
	if v := c.QueryParam("maxPrice"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			q.Filter.MaxPrice = &f
		}
	}
	if v := c.QueryParam("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			q.Page = n
		}
	}
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			q.PageSize = n
		}
	}

	page, err := h.catalogService.Query(ctx, q)
	if err != nil {
		logger.Error("catalog query failed", "error", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "catalog temporarily unavailable"})
	}

	metrics.CatalogListLatency.Observe(time.Since(start).Seconds())

	return c.JSON(http.StatusOK, page)
}

func (h *CatalogHandler) GetProductByID(c echo.Context) error {
	id := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	product, err := h.catalogService.GetProductByID(ctx, id)
	if err != nil {
		logger.Error("product lookup failed", "id", id, "error", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "catalog temporarily unavailable"})
	}
	if product == nil {
		return c.JSON(http.StatusNotFound, ResponseError{Message: "product not found"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"product": product,
	})
}
