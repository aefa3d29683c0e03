package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pawnest/edge-gateway/internal/session"
)

// TokenKey is the echo context key holding the resolved bearer token.
const TokenKey = "bearer_token"

// RequireToken guards routes that must carry a bearer token. Resolution
// follows the cookie-then-header order; a request with no token is
// answered 401 here and never reaches the handler.
func RequireToken() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := session.BearerToken(c.Request())
			if token == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
			}
			c.Set(TokenKey, token)
			return next(c)
		}
	}
}

// TokenFromContext returns the bearer token resolved by RequireToken.
func TokenFromContext(c echo.Context) string {
	t, _ := c.Get(TokenKey).(string)
	return t
}
