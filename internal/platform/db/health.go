package db

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

const healthTimeout = 5 * time.Second

// HealthHandler reports readiness of a Postgres-backed deployment:
// connectivity, pool usage, and whether the terminology reference tables
// have been seeded. Empty reference tables mean `emr-server seed` has not
// run and the search endpoints would answer nothing useful.
func HealthHandler(pool *pgxpool.Pool) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), healthTimeout)
		defer cancel()

		if err := pool.Ping(ctx); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]interface{}{
				"status":  "unhealthy",
				"storage": "postgres",
				"error":   err.Error(),
			})
		}

		var codes int64
		if err := pool.QueryRow(ctx, `SELECT count(*) FROM reference_icd11`).Scan(&codes); err != nil {
			codes = 0
		}

		stat := pool.Stat()
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":          "ok",
			"storage":         "postgres",
			"seeded":          codes > 0,
			"reference_codes": codes,
			"pool": map[string]int32{
				"total":    stat.TotalConns(),
				"idle":     stat.IdleConns(),
				"acquired": stat.AcquiredConns(),
				"max":      stat.MaxConns(),
			},
		})
	}
}
