package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pawnest/edge-gateway/internal/api/metrics"
	"github.com/pawnest/edge-gateway/internal/api/middleware"
	"github.com/pawnest/edge-gateway/internal/core/domain"
	"github.com/pawnest/edge-gateway/internal/core/ports"
	"github.com/pawnest/edge-gateway/internal/session"
)

// AuthHandler owns the first-party auth endpoints: the login flows that
// issue cookies, logout, refresh, and session introspection.
type AuthHandler struct {
	service ports.AuthService
	codec   *session.Codec
	cookies session.CookieOptions
}

func NewAuthHandler(service ports.AuthService, codec *session.Codec, cookies session.CookieOptions) *AuthHandler {
	return &AuthHandler{service: service, codec: codec, cookies: cookies}
}

// RequestOTP asks the backend to send a login code.
//
// @Summary      Request a login OTP
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      requestOTPRequest  true  "Phone number in E.164 form"
// @Success      200   {object}  statusResponse
// @Failure      400   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /auth/otp/request [post]
func (h *AuthHandler) RequestOTP(c echo.Context) error {
	var req requestOTPRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	if err := h.service.RequestOTP(c.Request().Context(), req.Phone); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, statusResponse{Status: "otp_sent"})
}

// VerifyOTP exchanges a phone/code pair for the auth cookies.
//
// @Summary      Verify a login OTP
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      verifyOTPRequest  true  "Phone and 6-digit code"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/otp/verify [post]
func (h *AuthHandler) VerifyOTP(c echo.Context) error {
	var req verifyOTPRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	sess, creds, err := h.service.VerifyOTP(c.Request().Context(), req.Phone, req.Code)
	if err != nil {
		return err
	}

	if err := h.issueCookies(c, sess, creds); err != nil {
		return err
	}
	metrics.LoginsTotal.WithLabelValues("otp").Inc()
	return c.JSON(http.StatusOK, sessionBody(sess))
}

// LoginGoogle exchanges a Google ID token for the auth cookies.
//
// @Summary      Login with Google
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      googleLoginRequest  true  "Google ID token"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/google [post]
func (h *AuthHandler) LoginGoogle(c echo.Context) error {
	var req googleLoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	sess, creds, err := h.service.LoginGoogle(c.Request().Context(), req.IDToken)
	if err != nil {
		return err
	}

	if err := h.issueCookies(c, sess, creds); err != nil {
		return err
	}
	metrics.LoginsTotal.WithLabelValues("google").Inc()
	return c.JSON(http.StatusOK, sessionBody(sess))
}

// refreshLeeway is how much remaining access-token validity makes a refresh
// pointless. Tokens expiring within the leeway still go to the backend.
const refreshLeeway = time.Minute

// Refresh re-issues the access-token cookie from the refresh cookie. When
// the current access token is still comfortably valid the backend is not
// consulted at all.
//
// @Summary      Refresh the access token
// @Tags         auth
// @Produce      json
// @Success      200  {object}  statusResponse
// @Failure      401  {object}  errorResponse
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	if tok, err := c.Cookie(session.AccessTokenCookie); err == nil && tok.Value != "" {
		if exp, ok := session.TokenExpiry(tok.Value); ok && time.Until(exp) > refreshLeeway {
			return c.JSON(http.StatusOK, statusResponse{Status: "fresh"})
		}
	}

	cookie, err := c.Cookie(session.RefreshTokenCookie)
	if err != nil || cookie.Value == "" {
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: "Unauthorized"})
	}

	creds, err := h.service.Refresh(c.Request().Context(), cookie.Value)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			// A rejected refresh token is dead weight; drop the whole
			// cookie set so the next page load lands on the login flow.
			h.cookies.ClearAuth(c.Response())
		}
		return err
	}

	h.cookies.WriteTokens(c.Response(), creds)
	return c.JSON(http.StatusOK, statusResponse{Status: "refreshed"})
}

// Logout clears the auth cookies. Idempotent: logging out twice is fine.
//
// @Summary      Logout
// @Tags         auth
// @Success      204
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	h.cookies.ClearAuth(c.Response())
	return c.NoContent(http.StatusNoContent)
}

// Session returns the decoded session, or the guest shape.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	sess := middleware.SessionFromContext(c)
	if sess == nil {
		return c.JSON(http.StatusOK, sessionResponse{Role: string(domain.RoleGuest)})
	}
	return c.JSON(http.StatusOK, sessionBody(sess))
}

// SetLanguage persists the UI language choice in the lang cookie.
//
// @Summary      Set UI language
// @Tags         i18n
// @Accept       json
// @Param        body  body  setLanguageRequest  true  "Language code"
// @Success      204
// @Failure      400  {object}  errorResponse
// @Router       /lang [put]
func (h *AuthHandler) SetLanguage(c echo.Context) error {
	var req setLanguageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	h.cookies.WriteLang(c.Response(), req.Lang)
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) issueCookies(c echo.Context, sess *domain.Session, creds *domain.Credentials) error {
	encoded, err := h.codec.Encode(sess)
	if err != nil {
		return err
	}
	h.cookies.WriteAuth(c.Response(), encoded, h.codec.TTL(), creds)
	return nil
}

func sessionBody(sess *domain.Session) sessionResponse {
	return sessionResponse{
		Role:       string(sess.Role),
		Name:       sess.Name,
		Phone:      sess.Phone,
		IsProvider: sess.IsProvider,
		IsAdmin:    sess.IsAdmin(),
		AdminRole:  string(sess.AdminRole),
	}
}
