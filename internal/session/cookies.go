package session

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pawnest/edge-gateway/internal/core/domain"
)

// Cookie names shared with the browser. The three auth cookies are
// HttpOnly; lang is readable by client scripts.
const (
	SessionCookie      = "session"
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
	LangCookie         = "lang"
)

const (
	defaultAccessTTL = time.Hour
	refreshTTL       = 30 * 24 * time.Hour
	langTTL          = 365 * 24 * time.Hour
)

// CookieOptions carries the deployment-dependent cookie attributes.
type CookieOptions struct {
	Domain string
	Secure bool
}

func (o CookieOptions) cookie(name, value string, httpOnly bool, maxAge time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   o.Domain,
		MaxAge:   int(maxAge / time.Second),
		HttpOnly: httpOnly,
		Secure:   o.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// WriteAuth sets the session cookie plus both token cookies on a successful
// login.
func (o CookieOptions) WriteAuth(w http.ResponseWriter, encodedSession string, sessionTTL time.Duration, creds *domain.Credentials) {
	http.SetCookie(w, o.cookie(SessionCookie, encodedSession, true, sessionTTL))
	o.WriteTokens(w, creds)
}

// WriteTokens sets the token cookies only, leaving the session cookie
// alone; a refresh re-issues tokens without touching the identity. Token
// max-ages follow the backend-supplied lifetimes, falling back to the
// documented defaults when the backend omits them.
func (o CookieOptions) WriteTokens(w http.ResponseWriter, creds *domain.Credentials) {
	accessTTL := creds.AccessTTL
	if accessTTL <= 0 {
		accessTTL = defaultAccessTTL
	}
	http.SetCookie(w, o.cookie(AccessTokenCookie, creds.AccessToken, true, accessTTL))

	if creds.RefreshToken != "" {
		ttl := creds.RefreshTTL
		if ttl <= 0 {
			ttl = refreshTTL
		}
		http.SetCookie(w, o.cookie(RefreshTokenCookie, creds.RefreshToken, true, ttl))
	}
}

// ClearAuth expires all three auth cookies. Safe to call for a request that
// carries none of them.
func (o CookieOptions) ClearAuth(w http.ResponseWriter) {
	for _, name := range []string{SessionCookie, AccessTokenCookie, RefreshTokenCookie} {
		c := o.cookie(name, "", true, 0)
		c.MaxAge = -1
		http.SetCookie(w, c)
	}
}

// WriteLang sets the language cookie. Unlike the auth cookies it is
// client-readable so the UI can pick the dictionary without a round trip.
func (o CookieOptions) WriteLang(w http.ResponseWriter, lang string) {
	http.SetCookie(w, o.cookie(LangCookie, lang, false, langTTL))
}

// BearerToken resolves the opaque access token for an incoming request.
// The HttpOnly cookie wins over the Authorization header: the cookie is
// server-controlled, while headers are whatever the client script supplied.
// Returns "" when neither source yields a token.
func BearerToken(r *http.Request) string {
	if c, err := r.Cookie(AccessTokenCookie); err == nil {
		if v := strings.TrimSpace(c.Value); v != "" {
			return v
		}
	}

	authz := r.Header.Get("Authorization")
	if authz == "" {
		return ""
	}
	parts := strings.SplitN(authz, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// TokenExpiry peeks at the exp claim of an access token without verifying
// its signature. The token is the backend's to validate; the edge only uses
// the expiry to decide when a refresh is worth attempting. The second return
// is false when the token is opaque to us or carries no expiry.
func TokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
