package middleware // middleware provides shared request processing for handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/thanhng/workchat/internal/auth"
)

// Context keys populated by JWTAuth for downstream handlers.
const (
	CtxUserID    = "user_id"
	CtxSessionID = "session_id"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and injects the authenticated user and session ids into the request
// context.  Only the access-class secret verifies here; refresh,
// confirmation and reset tokens are rejected because they are signed
// with different secrets.
func JWTAuth(issuer *auth.Issuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			claims, err := issuer.VerifyAccess(raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			c.Set(CtxUserID, claims.UserID)
			c.Set(CtxSessionID, claims.SessionID)
			return next(c)
		}
	}
}

// UserID extracts the authenticated user id stored by JWTAuth.  It
// returns 0 when the middleware did not run, which protected handlers
// treat as unauthorized.
func UserID(c echo.Context) uint64 {
	if v, ok := c.Get(CtxUserID).(uint64); ok {
		return v
	}
	return 0
}

// SessionID extracts the authenticated session id stored by JWTAuth.
func SessionID(c echo.Context) uint64 {
	if v, ok := c.Get(CtxSessionID).(uint64); ok {
		return v
	}
	return 0
}
