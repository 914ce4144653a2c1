package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/invoicing-system/pkg/logger"
)

// ContextLogger attaches a child of base tagged with the request id to the
// request context. Must run after echo's RequestID middleware.
func ContextLogger(base zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			rid := c.Response().Header().Get(echo.HeaderXRequestID)
			if rid == "" {
				rid = req.Header.Get(echo.HeaderXRequestID)
			}
			if rid != "" {
				c.SetRequest(req.WithContext(logger.WithField(req.Context(), base, "request_id", rid)))
			}
			return next(c)
		}
	}
}
