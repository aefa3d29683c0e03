// Package proxy relays browser requests to the backend REST API. A single
// Forwarder serves every proxied resource through a declarative rule table,
// so the forwarding contract (auth resolution, passthrough, error envelope)
// lives in exactly one place instead of one handler per endpoint.
package proxy

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/pawnest/edge-gateway/internal/api/metrics"
	"github.com/pawnest/edge-gateway/internal/api/middleware"
	"github.com/pawnest/edge-gateway/internal/session"
)

// Rule declares one proxied resource.
type Rule struct {
	// Prefix is the edge-facing path prefix, e.g. "/api/v1/addresses".
	Prefix string
	// Upstream is the backend path prefix the request maps onto. Trailing
	// path segments after Prefix are joined onto it unchanged.
	Upstream string
	// Methods is the allow-list registered for this prefix; anything else
	// gets the router's 405.
	Methods []string
	// RequireAuth mounts the bearer-token guard in front of the rule, so
	// tokenless requests are answered 401 before any upstream call. Public
	// rules forward without an Authorization header.
	RequireAuth bool
}

// Forwarder relays requests onto the backend API.
type Forwarder struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// NewForwarder returns a Forwarder targeting the backend at baseURL.
func NewForwarder(baseURL string, log zerolog.Logger) *Forwarder {
	return &Forwarder{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
		log:     log,
	}
}

// Register mounts every rule on e, once for the bare prefix and once as a
// catch-all for nested segments. Auth-required rules get the RequireToken
// guard in front of the handler.
func Register(e *echo.Echo, f *Forwarder, rules []Rule) {
	for _, rule := range rules {
		h := f.Handler(rule)
		var guards []echo.MiddlewareFunc
		if rule.RequireAuth {
			guards = append(guards, middleware.RequireToken())
		}
		e.Match(rule.Methods, rule.Prefix, h, guards...)
		e.Match(rule.Methods, rule.Prefix+"/*", h, guards...)
	}
}

// Handler returns the echo handler relaying requests under rule.
func (f *Forwarder) Handler(rule Rule) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()

		// Guarded rules have the token resolved by RequireToken already;
		// public rules attach one opportunistically when the browser holds it.
		token := middleware.TokenFromContext(c)
		if token == "" {
			token = session.BearerToken(req)
		}

		target := f.baseURL + rule.Upstream
		if rest := c.Param("*"); rest != "" {
			target += "/" + rest
		}
		if q := req.URL.RawQuery; q != "" {
			target += "?" + q
		}

		upstream, err := http.NewRequestWithContext(req.Context(), req.Method, target, req.Body)
		if err != nil {
			f.log.Error().Err(err).Str("target", target).Msg("building upstream request failed")
			return c.JSON(http.StatusInternalServerError, map[string]string{"detail": "Internal Server Error"})
		}
		upstream.ContentLength = req.ContentLength

		// The body streams through untouched; keeping the original
		// Content-Type preserves multipart boundaries.
		if ct := req.Header.Get(echo.HeaderContentType); ct != "" {
			upstream.Header.Set(echo.HeaderContentType, ct)
		}
		if accept := req.Header.Get("Accept"); accept != "" {
			upstream.Header.Set("Accept", accept)
		}
		if token != "" {
			upstream.Header.Set("Authorization", "Bearer "+token)
		}
		if rid := c.Response().Header().Get(echo.HeaderXRequestID); rid != "" {
			upstream.Header.Set(echo.HeaderXRequestID, rid)
		}

		start := time.Now()
		resp, err := f.client.Do(upstream)
		metrics.UpstreamDuration.WithLabelValues(req.Method).Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.UpstreamErrorsTotal.WithLabelValues("unreachable").Inc()
			f.log.Error().Err(err).Str("method", req.Method).Str("target", target).Msg("upstream request failed")
			return c.JSON(http.StatusInternalServerError, map[string]string{"detail": "Internal Server Error"})
		}
		defer resp.Body.Close()

		metrics.UpstreamRequestsTotal.WithLabelValues(req.Method, strconv.Itoa(resp.StatusCode)).Inc()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			contentType := resp.Header.Get(echo.HeaderContentType)
			if contentType == "" {
				contentType = echo.MIMEApplicationJSON
			}
			return c.Stream(resp.StatusCode, contentType, resp.Body)
		}

		// Error payloads relay verbatim when they are JSON objects, so the
		// client keeps the backend's own error codes to branch on. Anything
		// else collapses into the generic envelope.
		body, readErr := io.ReadAll(resp.Body)
		if readErr == nil && isJSONObject(body) {
			return c.JSONBlob(resp.StatusCode, body)
		}

		metrics.UpstreamErrorsTotal.WithLabelValues("bad_payload").Inc()
		f.log.Warn().
			Int("status", resp.StatusCode).
			Str("target", target).
			Msg("upstream error body not relayable")
		return c.JSON(http.StatusInternalServerError, map[string]string{"detail": "Internal Server Error"})
	}
}

func isJSONObject(body []byte) bool {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '{' && json.Valid(body)
}
