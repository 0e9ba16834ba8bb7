package search

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// Handler exposes the search endpoint and the audit trail.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers search routes on the API group. The audit trail
// route takes additional middleware (auth) supplied by the caller.
func (h *Handler) RegisterRoutes(api *echo.Group, admin ...echo.MiddlewareFunc) {
	api.POST("/search", h.Search)
	api.GET("/search/audit", h.Audit, admin...)
}

// Search handles POST /api/v1/search.
func (h *Handler) Search(c echo.Context) error {
	var req Request
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "bad request")
	}
	resp, err := h.svc.Search(c.Request().Context(), req, c.RealIP())
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyQuery), errors.Is(err, ErrInvalidModule):
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusOK, resp)
}

// Audit handles GET /api/v1/search/audit?limit=.
func (h *Handler) Audit(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	trails, err := h.svc.RecentTrails(c.Request().Context(), limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if trails == nil {
		trails = []Trail{}
	}
	return c.JSON(http.StatusOK, trails)
}
