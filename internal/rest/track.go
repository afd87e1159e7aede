package rest

import (
	"context"
	"net/http"
	"time"

	"shopSphere/internal/middleware"
	"shopSphere/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type InteractionService interface {
	RecordView(ctx context.Context, userID, productID, category string)
	RecordPurchase(ctx context.Context, userID, productID, category string)
}

type TrackHandler struct {
	interactionService InteractionService
	validator          *validator.Validate
	timeout            time.Duration
}

func NewTrackHandler(interactionService InteractionService) *TrackHandler {
	return &TrackHandler{
		interactionService: interactionService,
		validator:          validator.New(),
		timeout:            5 * time.Second,
	}
}

type TrackRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Category  string `json:"category"`
}

// TrackView always answers OK: tracking must never break the page
// that embeds it, even when persistence fails underneath.
func (h *TrackHandler) TrackView(c echo.Context) error {
	var req TrackRequest

	if err := c.Bind(&req); err != nil {
		logger.Warn("Failed to bind track request", "error", err)
		return c.JSON(http.StatusOK, fres.Response.StatusOK("ignored"))
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Warn("Failed to validate track request", "error", err)
		return c.JSON(http.StatusOK, fres.Response.StatusOK("ignored"))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	userID := middleware.UserID(c)
	h.interactionService.RecordView(ctx, userID, req.ProductID, req.Category)

	return c.JSON(http.StatusOK, fres.Response.StatusOK("tracked"))
}

// TrackPurchase is the order-completion collaborator's entry point;
// it applies the heavier purchase weights.
func (h *TrackHandler) TrackPurchase(c echo.Context) error {
	var req TrackRequest

	if err := c.Bind(&req); err != nil {
		logger.Warn("Failed to bind purchase request", "error", err)
		return c.JSON(http.StatusOK, fres.Response.StatusOK("ignored"))
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Warn("Failed to validate purchase request", "error", err)
		return c.JSON(http.StatusOK, fres.Response.StatusOK("ignored"))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	userID := middleware.UserID(c)
	h.interactionService.RecordPurchase(ctx, userID, req.ProductID, req.Category)

	return c.JSON(http.StatusOK, fres.Response.StatusOK("tracked"))
}
