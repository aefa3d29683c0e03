package ports

import (
	"context"

	"github.com/pawnest/edge-gateway/internal/core/domain"
)

// AuthService drives the login flows exposed by the edge. Every successful
// login yields a normalized Session (for the session cookie) and the opaque
// Credentials (for the token cookies).
type AuthService interface {
	RequestOTP(ctx context.Context, phone string) error
	VerifyOTP(ctx context.Context, phone, code string) (*domain.Session, *domain.Credentials, error)
	LoginGoogle(ctx context.Context, idToken string) (*domain.Session, *domain.Credentials, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.Credentials, error)
}
