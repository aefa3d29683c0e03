package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/pawnest/edge-gateway/internal/core/domain"
	"github.com/pawnest/edge-gateway/internal/core/ports"
)

// AuthService implements the edge login flows on top of the backend auth
// API. The backend decides whether credentials are good; this service
// throttles OTP traffic and normalizes the backend profile into a Session.
type AuthService struct {
	gateway  ports.AuthGateway
	throttle ports.LoginThrottle
	log      zerolog.Logger
}

func NewAuthService(gateway ports.AuthGateway, throttle ports.LoginThrottle, log zerolog.Logger) *AuthService {
	return &AuthService{gateway: gateway, throttle: throttle, log: log}
}

func (s *AuthService) RequestOTP(ctx context.Context, phone string) error {
	if phone == "" {
		return domain.ErrInvalidPhone
	}

	ok, err := s.throttle.Allow(ctx, phone)
	if err != nil {
		// A broken throttle store must not lock everyone out of login.
		s.log.Error().Err(err).Msg("otp throttle check failed, allowing request")
	} else if !ok {
		return domain.ErrOTPThrottled
	}

	return s.gateway.RequestOTP(ctx, phone)
}

func (s *AuthService) VerifyOTP(ctx context.Context, phone, code string) (*domain.Session, *domain.Credentials, error) {
	if phone == "" || code == "" {
		return nil, nil, domain.ErrInvalidOTP
	}

	result, err := s.gateway.VerifyOTP(ctx, phone, code)
	if err != nil {
		return nil, nil, err
	}

	sess := sessionFromProfile(result.Profile)
	if sess.Phone == "" {
		sess.Phone = phone
	}
	return sess, &result.Credentials, nil
}

func (s *AuthService) LoginGoogle(ctx context.Context, idToken string) (*domain.Session, *domain.Credentials, error) {
	if idToken == "" {
		return nil, nil, domain.ErrInvalidGoogleToken
	}

	result, err := s.gateway.LoginGoogle(ctx, idToken)
	if err != nil {
		return nil, nil, err
	}

	return sessionFromProfile(result.Profile), &result.Credentials, nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.Credentials, error) {
	if refreshToken == "" {
		return nil, domain.ErrUnauthorized
	}
	return s.gateway.Refresh(ctx, refreshToken)
}

// sessionFromProfile folds the backend's stringly-typed profile into the
// tagged Session shape. The backend has already authenticated the user, so
// an absent role means plain user, not guest.
func sessionFromProfile(p ports.ProfileInput) *domain.Session {
	sess := &domain.Session{
		Role:       domain.ParseRole(p.Role),
		Name:       p.Name,
		Phone:      p.Phone,
		IsProvider: p.IsProvider,
	}
	if sess.Role == domain.RoleGuest {
		sess.Role = domain.RoleUser
	}
	if sess.Role == domain.RoleAdmin {
		sess.AdminRole = domain.ParseAdminRole(p.AdminRole)
	}
	return sess
}
