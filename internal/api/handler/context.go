package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/invoicing-system/internal/api/middleware"
	"github.com/99minutos/invoicing-system/internal/core/domain"
	"github.com/99minutos/invoicing-system/internal/core/ports"
)

// ctxActor builds the caller identity injected by the Auth and Session
// middleware. A missing user id or role means the middleware did not run.
func ctxActor(c echo.Context) (ports.Actor, error) {
	userID, _ := c.Get(middleware.ContextUserID).(string)
	role, _ := c.Get(middleware.ContextRole).(string)
	if userID == "" || role == "" {
		return ports.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return ports.Actor{UserID: userID, Role: domain.Role(role)}, nil
}

// ctxSession returns the live session restored by the Session middleware.
func ctxSession(c echo.Context) (ports.UserSession, error) {
	sess, ok := c.Get(middleware.ContextSession).(ports.UserSession)
	if !ok || sess == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing session")
	}
	return sess, nil
}
