package ehr

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ayushbridge/emr/internal/domain/patient"
)

// Handler exposes the EHR integration endpoint.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers the integration route on the API group.
func (h *Handler) RegisterRoutes(api *echo.Group, mutate ...echo.MiddlewareFunc) {
	api.POST("/ehr_integration", h.Integrate, mutate...)
}

// Integrate handles POST /api/v1/ehr_integration.
func (h *Handler) Integrate(c echo.Context) error {
	var req patient.CreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	resp, err := h.svc.Integrate(c.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, patient.ErrNameRequired),
			errors.Is(err, patient.ErrInvalidAge),
			errors.Is(err, patient.ErrInvalidGender):
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusCreated, resp)
}
