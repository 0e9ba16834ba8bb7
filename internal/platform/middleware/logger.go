package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ayushbridge/emr/internal/platform/auth"
)

// Logger logs one structured line per request. Only the path is logged,
// never the query string or body: search terms can describe a patient's
// condition and must not end up in log storage. The authenticated subject
// is included when the auth middleware has populated one.
func Logger(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()
			rid, _ := c.Get("request_id").(string)

			err := next(c)

			evt := logger.Info()
			if err != nil {
				evt = logger.Error().Err(err)
			}

			evt = evt.
				Str("request_id", rid).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", c.Response().Status).
				Dur("latency", time.Since(start)).
				Str("remote_ip", c.RealIP())

			// Auth runs after this middleware and swaps the request, so the
			// subject has to come from the post-handler context.
			if sub := auth.UserID(c.Request().Context()); sub != "" {
				evt = evt.Str("subject", sub)
			}

			evt.Msg("request")
			return err
		}
	}
}
