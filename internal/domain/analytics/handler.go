package analytics

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handler exposes the analytics summary endpoint.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers the analytics route on the API group.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/analytics", h.Summary)
}

// Summary handles GET /api/v1/analytics.
func (h *Handler) Summary(c echo.Context) error {
	summary, err := h.svc.Summarize(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, summary)
}
