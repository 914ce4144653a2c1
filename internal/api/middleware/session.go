package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/invoicing-system/internal/core/domain"
	"github.com/99minutos/invoicing-system/internal/core/ports"
	"github.com/99minutos/invoicing-system/pkg/logger"
)

// Session restores the user persisted for the token's session and stores the
// live session under ContextSession. A token whose session was logged out is
// rejected even if it has not expired. Must run after Auth.
func Session(manager ports.SessionManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sessionID, _ := c.Get(ContextSessionID).(string)
			if sessionID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing session")
			}

			sess := manager.Open(sessionID)
			user, err := sess.Restore(c.Request().Context())
			if errors.Is(err, domain.ErrSessionNotFound) {
				return echo.NewHTTPError(http.StatusUnauthorized, "session expired")
			}
			if err != nil {
				return err
			}

			// Role comes from the stored session, not the token.
			if userID, _ := c.Get(ContextUserID).(string); userID != user.ID {
				return echo.NewHTTPError(http.StatusUnauthorized, "session does not match token")
			}
			c.Set(ContextRole, string(user.EffectiveRole()))
			c.Set(ContextSession, sess)

			req := c.Request()
			c.SetRequest(req.WithContext(logger.WithField(req.Context(), zerolog.Nop(), "user_id", user.ID)))

			return next(c)
		}
	}
}
