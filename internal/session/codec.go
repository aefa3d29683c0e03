// Package session owns the browser-facing session surface: the signed
// session cookie codec, the auth cookie names and attributes, and bearer
// token resolution for proxied calls.
package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pawnest/edge-gateway/internal/core/domain"
)

// DefaultTTL is the session cookie lifetime.
const DefaultTTL = 7 * 24 * time.Hour

type sessionClaims struct {
	Name       string `json:"name,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Role       string `json:"role"`
	AdminRole  string `json:"admin_role,omitempty"`
	IsProvider bool   `json:"is_provider,omitempty"`
	jwt.RegisteredClaims
}

// Codec serializes a Session into a signed, cookie-safe string and parses
// it back. The encoding is a compact HS256 JWS, which is URL-safe and needs
// no additional cookie escaping.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec returns a Codec signing with secret. A non-positive ttl falls
// back to DefaultTTL.
func NewCodec(secret string, ttl time.Duration) *Codec {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Codec{secret: []byte(secret), ttl: ttl}
}

// TTL reports the lifetime stamped into encoded sessions, which is also the
// max-age the session cookie should carry.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Encode signs s into a cookie value.
func (c *Codec) Encode(s *domain.Session) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		Name:       s.Name,
		Phone:      s.Phone,
		Role:       string(s.Role),
		IsProvider: s.IsProvider,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	// Write the canonical sub-role so Decode reads back exactly what was
	// encoded, whatever spelling the caller held.
	if s.Role == domain.RoleAdmin {
		claims.AdminRole = string(domain.ParseAdminRole(string(s.AdminRole)))
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.secret)
}

// Decode parses a raw cookie value back into a Session. It returns nil,
// never an error and never a panic, for anything that is not a well-formed,
// correctly signed, unexpired session: absent cookies, truncated or
// corrupted values, foreign signatures, and encodings from other versions
// all degrade to guest. A cookie whose role normalizes to guest is also
// nil; guests are represented by the absence of a session.
func (c *Codec) Decode(raw string) *domain.Session {
	if raw == "" {
		return nil
	}

	claims := &sessionClaims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.secret, nil
	})
	if err != nil || !tkn.Valid {
		return nil
	}

	role := domain.ParseRole(claims.Role)
	if role == domain.RoleGuest {
		return nil
	}

	s := &domain.Session{
		Role:       role,
		Name:       claims.Name,
		Phone:      claims.Phone,
		IsProvider: claims.IsProvider,
	}
	if role == domain.RoleAdmin {
		s.AdminRole = domain.ParseAdminRole(claims.AdminRole)
	}
	return s
}
