package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/pawnest/edge-gateway/internal/core/domain"
)

func TestClient_VerifyOTP_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/auth/otp/verify" {
			t.Fatalf("unexpected upstream call: %s %s", r.Method, r.URL.Path)
		}
		var req otpVerifyPayload
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Phone != "+989121234567" || req.Code != "123456" {
			t.Fatalf("unexpected payload: %+v", req)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token":  "acc",
			"refresh_token": "ref",
			"expires_in":    3600,
			"user": map[string]interface{}{
				"name":        "Sara",
				"role":        "user",
				"is_provider": true,
			},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, zerolog.Nop())
	result, err := client.VerifyOTP(context.Background(), "+989121234567", "123456")
	if err != nil {
		t.Fatalf("VerifyOTP returned error: %v", err)
	}
	if result.Credentials.AccessToken != "acc" || result.Credentials.AccessTTL != time.Hour {
		t.Fatalf("credentials wrong: %+v", result.Credentials)
	}
	if result.Profile.Name != "Sara" || !result.Profile.IsProvider {
		t.Fatalf("profile wrong: %+v", result.Profile)
	}
}

func TestClient_VerifyOTP_BadCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, zerolog.Nop())
	if _, err := client.VerifyOTP(context.Background(), "+989121234567", "000000"); !errors.Is(err, domain.ErrInvalidOTP) {
		t.Fatalf("expected ErrInvalidOTP, got %v", err)
	}
}

func TestClient_RequestOTP_Throttled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, zerolog.Nop())
	if err := client.RequestOTP(context.Background(), "+989121234567"); !errors.Is(err, domain.ErrOTPThrottled) {
		t.Fatalf("expected ErrOTPThrottled, got %v", err)
	}
}

func TestClient_Refresh_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, zerolog.Nop())
	if _, err := client.Refresh(context.Background(), "stale"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestClient_BackendDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := NewClient(srv.URL, zerolog.Nop())
	if err := client.RequestOTP(context.Background(), "+989121234567"); !errors.Is(err, domain.ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
}
