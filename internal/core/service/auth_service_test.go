package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/pawnest/edge-gateway/internal/core/domain"
	"github.com/pawnest/edge-gateway/internal/core/ports"
)

type stubGateway struct {
	otpRequests []string
	verifyErr   error
	result      *ports.LoginResult
	refreshed   *domain.Credentials
	refreshErr  error
}

func (g *stubGateway) RequestOTP(_ context.Context, phone string) error {
	g.otpRequests = append(g.otpRequests, phone)
	return nil
}

func (g *stubGateway) VerifyOTP(_ context.Context, _, _ string) (*ports.LoginResult, error) {
	if g.verifyErr != nil {
		return nil, g.verifyErr
	}
	return g.result, nil
}

func (g *stubGateway) LoginGoogle(_ context.Context, _ string) (*ports.LoginResult, error) {
	if g.verifyErr != nil {
		return nil, g.verifyErr
	}
	return g.result, nil
}

func (g *stubGateway) Refresh(_ context.Context, _ string) (*domain.Credentials, error) {
	return g.refreshed, g.refreshErr
}

type stubThrottle struct {
	allow bool
	err   error
	calls int
}

func (t *stubThrottle) Allow(_ context.Context, _ string) (bool, error) {
	t.calls++
	return t.allow, t.err
}

func TestAuthService_RequestOTP_Throttled(t *testing.T) {
	gw := &stubGateway{}
	svc := NewAuthService(gw, &stubThrottle{allow: false}, zerolog.Nop())

	err := svc.RequestOTP(context.Background(), "+989121234567")
	if !errors.Is(err, domain.ErrOTPThrottled) {
		t.Fatalf("expected ErrOTPThrottled, got %v", err)
	}
	if len(gw.otpRequests) != 0 {
		t.Fatalf("throttled request must not reach the backend")
	}
}

func TestAuthService_RequestOTP_ThrottleStoreDown(t *testing.T) {
	gw := &stubGateway{}
	svc := NewAuthService(gw, &stubThrottle{err: errors.New("redis down")}, zerolog.Nop())

	if err := svc.RequestOTP(context.Background(), "+989121234567"); err != nil {
		t.Fatalf("throttle store failure must not block login: %v", err)
	}
	if len(gw.otpRequests) != 1 {
		t.Fatalf("expected request to reach the backend")
	}
}

func TestAuthService_RequestOTP_EmptyPhone(t *testing.T) {
	svc := NewAuthService(&stubGateway{}, &stubThrottle{allow: true}, zerolog.Nop())
	if err := svc.RequestOTP(context.Background(), ""); !errors.Is(err, domain.ErrInvalidPhone) {
		t.Fatalf("expected ErrInvalidPhone, got %v", err)
	}
}

func TestAuthService_VerifyOTP_NormalizesProfile(t *testing.T) {
	gw := &stubGateway{result: &ports.LoginResult{
		Profile: ports.ProfileInput{Name: "Root", Role: "admin", AdminRole: "superadmin"},
		Credentials: domain.Credentials{
			AccessToken:  "acc",
			RefreshToken: "ref",
			AccessTTL:    time.Hour,
		},
	}}
	svc := NewAuthService(gw, &stubThrottle{allow: true}, zerolog.Nop())

	sess, creds, err := svc.VerifyOTP(context.Background(), "+989121234567", "123456")
	if err != nil {
		t.Fatalf("VerifyOTP returned error: %v", err)
	}
	if sess.Role != domain.RoleAdmin || sess.AdminRole != domain.AdminRoleSuper {
		t.Fatalf("profile not normalized: %+v", sess)
	}
	if sess.Phone != "+989121234567" {
		t.Fatalf("expected login phone to backfill the session, got %q", sess.Phone)
	}
	if creds.AccessToken != "acc" || creds.RefreshToken != "ref" {
		t.Fatalf("credentials not relayed: %+v", creds)
	}
}

func TestAuthService_VerifyOTP_DefaultsRoleToUser(t *testing.T) {
	gw := &stubGateway{result: &ports.LoginResult{
		Profile:     ports.ProfileInput{Name: "Sara"},
		Credentials: domain.Credentials{AccessToken: "acc"},
	}}
	svc := NewAuthService(gw, &stubThrottle{allow: true}, zerolog.Nop())

	sess, _, err := svc.VerifyOTP(context.Background(), "+989121234567", "123456")
	if err != nil {
		t.Fatalf("VerifyOTP returned error: %v", err)
	}
	if sess.Role != domain.RoleUser {
		t.Fatalf("authenticated profile without a role must default to user, got %q", sess.Role)
	}
}

func TestAuthService_VerifyOTP_BadCode(t *testing.T) {
	gw := &stubGateway{verifyErr: domain.ErrInvalidOTP}
	svc := NewAuthService(gw, &stubThrottle{allow: true}, zerolog.Nop())

	if _, _, err := svc.VerifyOTP(context.Background(), "+989121234567", "000000"); !errors.Is(err, domain.ErrInvalidOTP) {
		t.Fatalf("expected ErrInvalidOTP, got %v", err)
	}
	if _, _, err := svc.VerifyOTP(context.Background(), "+989121234567", ""); !errors.Is(err, domain.ErrInvalidOTP) {
		t.Fatalf("expected ErrInvalidOTP for empty code, got %v", err)
	}
}

func TestAuthService_Refresh(t *testing.T) {
	gw := &stubGateway{refreshed: &domain.Credentials{AccessToken: "new-acc"}}
	svc := NewAuthService(gw, &stubThrottle{allow: true}, zerolog.Nop())

	creds, err := svc.Refresh(context.Background(), "ref")
	if err != nil || creds.AccessToken != "new-acc" {
		t.Fatalf("Refresh = %+v, %v", creds, err)
	}

	if _, err := svc.Refresh(context.Background(), ""); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for empty refresh token, got %v", err)
	}
}
