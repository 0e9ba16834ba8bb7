package terminology

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// Handler provides REST endpoints for terminology search and mapping.
type Handler struct {
	svc *Service
}

// NewHandler creates a terminology handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers terminology routes on the API group.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/search_icd11", h.SearchICD11)
	api.GET("/search_namaste", h.SearchNamaste)
	api.POST("/map_namaste", h.MapNamaste)
	api.GET("/icd11/:code", h.LookupICD11)
}

func getLimit(c echo.Context) int {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return limit
}

// SearchICD11 handles GET /api/v1/search_icd11?keyword=...
func (h *Handler) SearchICD11(c echo.Context) error {
	keyword := c.QueryParam("keyword")
	results, err := h.svc.SearchICD11(c.Request().Context(), keyword, getLimit(c))
	if err != nil {
		if errors.Is(err, ErrKeywordTooShort) {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if len(results) == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "No ICD-11/TM2 codes found for the given keyword")
	}
	return c.JSON(http.StatusOK, results)
}

// SearchNamaste handles GET /api/v1/search_namaste?keyword=...
func (h *Handler) SearchNamaste(c echo.Context) error {
	keyword := c.QueryParam("keyword")
	results, err := h.svc.SearchNamaste(c.Request().Context(), keyword, getLimit(c))
	if err != nil {
		if errors.Is(err, ErrKeywordTooShort) {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if len(results) == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "No NAMASTE codes found for the given keyword")
	}
	return c.JSON(http.StatusOK, results)
}

// MapNamaste handles POST /api/v1/map_namaste.
func (h *Handler) MapNamaste(c echo.Context) error {
	var req MappingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	resp, err := h.svc.MapNamaste(c.Request().Context(), req.NamasteCode)
	if err != nil {
		switch {
		case errors.Is(err, ErrKeywordTooShort):
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "NAMASTE code not found")
		case errors.Is(err, ErrNoMapping):
			return echo.NewHTTPError(http.StatusNotFound, "No ICD-11 mapping available for the given NAMASTE code")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusOK, resp)
}

// LookupICD11 handles GET /api/v1/icd11/:code.
func (h *Handler) LookupICD11(c echo.Context) error {
	code, err := h.svc.LookupICD11(c.Request().Context(), c.Param("code"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "ICD-11 code not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, code)
}
