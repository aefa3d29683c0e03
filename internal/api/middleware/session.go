package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/pawnest/edge-gateway/internal/core/domain"
	"github.com/pawnest/edge-gateway/internal/session"
)

// SessionKey is the echo context key holding the decoded *domain.Session.
const SessionKey = "session"

// Session decodes the session cookie exactly once per request and stashes
// the result in the echo context. Downstream code matches on the decoded
// Session instead of re-parsing cookie strings. A missing or malformed
// cookie leaves the key unset, which reads back as guest.
func Session(codec *session.Codec) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cookie, err := c.Cookie(session.SessionCookie); err == nil {
				if s := codec.Decode(cookie.Value); s != nil {
					c.Set(SessionKey, s)
				}
			}
			return next(c)
		}
	}
}

// SessionFromContext returns the decoded session, or nil for guests.
func SessionFromContext(c echo.Context) *domain.Session {
	s, _ := c.Get(SessionKey).(*domain.Session)
	return s
}
