package ports

import (
	"context"

	"github.com/pawnest/edge-gateway/internal/core/domain"
)

// ProfileInput is the raw profile shape the backend returns alongside a
// token pair. Role fields arrive as free-form strings and are normalized
// by the auth service.
type ProfileInput struct {
	Name       string
	Phone      string
	Role       string
	AdminRole  string
	IsProvider bool
}

// LoginResult bundles the backend's login response: who the user is and
// the tokens the browser should hold.
type LoginResult struct {
	Profile     ProfileInput
	Credentials domain.Credentials
}

// AuthGateway is the upstream auth API surface consumed by the edge.
type AuthGateway interface {
	RequestOTP(ctx context.Context, phone string) error
	VerifyOTP(ctx context.Context, phone, code string) (*LoginResult, error)
	LoginGoogle(ctx context.Context, idToken string) (*LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.Credentials, error)
}
