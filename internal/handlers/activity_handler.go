package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ydahhani/ripple/backend/internal/activity"
	"github.com/ydahhani/ripple/backend/internal/repositories"
)

// ActivityHandler exposes the recent-activity feed
type ActivityHandler struct {
	aggregator *activity.Aggregator
}

// NewActivityHandler creates a new ActivityHandler
func NewActivityHandler(aggregator *activity.Aggregator) *ActivityHandler {
	return &ActivityHandler{aggregator: aggregator}
}

// RegisterActivityRoutes registers activity-related routes
func (h *ActivityHandler) RegisterActivityRoutes(g *echo.Group) {
	g.GET("/users/activity", h.GetRecentActivity)
}

// GetRecentActivity returns the caller's merged activity feed, most recent
// first.
func (h *ActivityHandler) GetRecentActivity(c echo.Context) error {
	currentUserID := userIDFromContext(c)

	events, err := h.aggregator.RecentActivity(c.Request().Context(), currentUserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "server error")
	}
	return c.JSON(http.StatusOK, events)
}
