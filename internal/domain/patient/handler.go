package patient

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ayushbridge/emr/pkg/pagination"
)

// Handler provides REST endpoints for patient records.
type Handler struct {
	svc *Service
}

// NewHandler creates a patient handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers patient routes on the API group. Mutating
// routes take additional middleware (auth) supplied by the caller.
func (h *Handler) RegisterRoutes(api *echo.Group, mutate ...echo.MiddlewareFunc) {
	api.GET("/patients", h.List)
	api.GET("/patients/:id", h.Get)
	api.POST("/patients", h.Create, mutate...)
	api.PUT("/patients/:id", h.Update, mutate...)
	api.DELETE("/patients/:id", h.Delete, mutate...)
}

func patientID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusUnprocessableEntity, "patient id must be a positive integer")
	}
	return id, nil
}

func validationStatus(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, ErrNameRequired), errors.Is(err, ErrInvalidAge), errors.Is(err, ErrInvalidGender):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Patient not found")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

// Create handles POST /api/v1/patients.
func (h *Handler) Create(c echo.Context) error {
	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	p, err := h.svc.Create(c.Request().Context(), req)
	if err != nil {
		return validationStatus(err)
	}
	return c.JSON(http.StatusCreated, p)
}

// Get handles GET /api/v1/patients/:id.
func (h *Handler) Get(c echo.Context) error {
	id, err := patientID(c)
	if err != nil {
		return err
	}
	p, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return validationStatus(err)
	}
	return c.JSON(http.StatusOK, p)
}

// List handles GET /api/v1/patients?skip=&limit=&gender=.
func (h *Handler) List(c echo.Context) error {
	page := pagination.FromContext(c)
	patients, err := h.svc.List(c.Request().Context(), ListFilter{
		Skip:   page.Skip,
		Limit:  page.Limit,
		Gender: c.QueryParam("gender"),
	})
	if err != nil {
		return validationStatus(err)
	}
	return c.JSON(http.StatusOK, patients)
}

// Update handles PUT /api/v1/patients/:id.
func (h *Handler) Update(c echo.Context) error {
	id, err := patientID(c)
	if err != nil {
		return err
	}
	var req UpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	p, err := h.svc.Update(c.Request().Context(), id, req)
	if err != nil {
		return validationStatus(err)
	}
	return c.JSON(http.StatusOK, p)
}

// Delete handles DELETE /api/v1/patients/:id.
func (h *Handler) Delete(c echo.Context) error {
	id, err := patientID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return validationStatus(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Patient deleted"})
}
