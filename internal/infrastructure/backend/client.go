// Package backend implements the HTTP client for the marketplace backend
// API. Only the auth endpoints are modelled here; everything else reaches
// the backend through the generic proxy layer.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pawnest/edge-gateway/internal/core/domain"
	"github.com/pawnest/edge-gateway/internal/core/ports"
)

// Client talks to the backend auth endpoints and maps its responses onto
// domain sentinels.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// NewClient returns a Client rooted at baseURL.
func NewClient(baseURL string, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		log:     log,
	}
}

var _ ports.AuthGateway = (*Client)(nil)

type otpRequestPayload struct {
	Phone string `json:"phone"`
}

type otpVerifyPayload struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

type googleLoginPayload struct {
	IDToken string `json:"id_token"`
}

type refreshPayload struct {
	RefreshToken string `json:"refresh_token"`
}

type profilePayload struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Role       string `json:"role"`
	AdminRole  string `json:"admin_role"`
	IsProvider bool   `json:"is_provider"`
}

type tokenPayload struct {
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token"`
	ExpiresIn        int64  `json:"expires_in"`
	RefreshExpiresIn int64  `json:"refresh_expires_in"`
}

type loginPayload struct {
	tokenPayload
	User profilePayload `json:"user"`
}

func (c *Client) RequestOTP(ctx context.Context, phone string) error {
	status, err := c.postJSON(ctx, "/api/v1/auth/otp/request", otpRequestPayload{Phone: phone}, nil)
	if err != nil {
		return err
	}
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusTooManyRequests:
		return domain.ErrOTPThrottled
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return domain.ErrInvalidPhone
	default:
		return domain.ErrBackendUnavailable
	}
}

func (c *Client) VerifyOTP(ctx context.Context, phone, code string) (*ports.LoginResult, error) {
	var payload loginPayload
	status, err := c.postJSON(ctx, "/api/v1/auth/otp/verify", otpVerifyPayload{Phone: phone, Code: code}, &payload)
	if err != nil {
		return nil, err
	}
	switch {
	case status >= 200 && status < 300:
		return loginResultFrom(payload), nil
	case status == http.StatusBadRequest, status == http.StatusUnauthorized, status == http.StatusUnprocessableEntity:
		return nil, domain.ErrInvalidOTP
	default:
		return nil, domain.ErrBackendUnavailable
	}
}

func (c *Client) LoginGoogle(ctx context.Context, idToken string) (*ports.LoginResult, error) {
	var payload loginPayload
	status, err := c.postJSON(ctx, "/api/v1/auth/google", googleLoginPayload{IDToken: idToken}, &payload)
	if err != nil {
		return nil, err
	}
	switch {
	case status >= 200 && status < 300:
		return loginResultFrom(payload), nil
	case status == http.StatusBadRequest, status == http.StatusUnauthorized:
		return nil, domain.ErrInvalidGoogleToken
	default:
		return nil, domain.ErrBackendUnavailable
	}
}

func (c *Client) Refresh(ctx context.Context, refreshToken string) (*domain.Credentials, error) {
	var payload tokenPayload
	status, err := c.postJSON(ctx, "/api/v1/auth/refresh", refreshPayload{RefreshToken: refreshToken}, &payload)
	if err != nil {
		return nil, err
	}
	switch {
	case status >= 200 && status < 300:
		creds := credentialsFrom(payload)
		return &creds, nil
	case status == http.StatusBadRequest, status == http.StatusUnauthorized:
		return nil, domain.ErrUnauthorized
	default:
		return nil, domain.ErrBackendUnavailable
	}
}

// postJSON issues a JSON POST and decodes a 2xx body into out when out is
// non-nil. Transport-level failures map to ErrBackendUnavailable; HTTP
// error statuses are returned for the caller to interpret per endpoint.
func (c *Client) postJSON(ctx context.Context, path string, in, out interface{}) (int, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return 0, fmt.Errorf("backend: encode %s: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("backend: build %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error().Err(err).Str("path", path).Msg("backend request failed")
		return 0, domain.ErrBackendUnavailable
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			c.log.Error().Err(err).Str("path", path).Msg("backend response undecodable")
			return resp.StatusCode, domain.ErrBackendUnavailable
		}
	}
	return resp.StatusCode, nil
}

func loginResultFrom(p loginPayload) *ports.LoginResult {
	return &ports.LoginResult{
		Profile: ports.ProfileInput{
			Name:       p.User.Name,
			Phone:      p.User.Phone,
			Role:       p.User.Role,
			AdminRole:  p.User.AdminRole,
			IsProvider: p.User.IsProvider,
		},
		Credentials: credentialsFrom(p.tokenPayload),
	}
}

func credentialsFrom(p tokenPayload) domain.Credentials {
	return domain.Credentials{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		AccessTTL:    time.Duration(p.ExpiresIn) * time.Second,
		RefreshTTL:   time.Duration(p.RefreshExpiresIn) * time.Second,
	}
}
