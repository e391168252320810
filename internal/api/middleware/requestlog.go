package middleware

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const requestIDHeader = "X-Request-ID"

// healthPaths are probed constantly by orchestrators. Repeated successes
// are suppressed from the request log; failures are always logged.
var healthPaths = map[string]struct{}{
	"/healthz": {},
	"/readyz":  {},
}

// RequestLog returns Echo middleware that logs requests with structured
// fields. It generates a request ID if none is provided and propagates it
// through the response header and echo context. Health probe successes
// are logged only when the path's state changes, so steady-state probes
// do not flood the log.
func RequestLog(log *slog.Logger) echo.MiddlewareFunc {
	var mu sync.Mutex
	lastHealthy := make(map[string]bool)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			reqID := c.Request().Header.Get(requestIDHeader)
			if reqID == "" {
				reqID = uuid.NewString()
			}

			c.Set("request_id", reqID)
			c.Response().Header().Set(requestIDHeader, reqID)

			err := next(c)

			path := c.Request().URL.Path
			status := c.Response().Status

			fields := []any{
				"method", c.Request().Method,
				"path", path,
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", reqID,
			}

			if _, health := healthPaths[path]; health {
				success := status < http.StatusBadRequest

				mu.Lock()
				suppress := success && lastHealthy[path]
				lastHealthy[path] = success
				mu.Unlock()

				switch {
				case suppress:
				case success:
					log.Info("request", fields...)
				default:
					log.Warn("request", fields...)
				}
				return err
			}

			log.Info("request", fields...)
			return err
		}
	}
}
