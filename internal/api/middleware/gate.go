package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/pawnest/edge-gateway/internal/api/metrics"
)

// GateConfig names the path prefixes and redirect targets enforced by the
// gate. Zero-value fields fall back to the defaults below.
type GateConfig struct {
	UserPrefix  string // user-area pages
	AdminPrefix string // admin-console pages
	LoginPath   string
	DeniedPath  string
	AdminHome   string // landing page for authenticated admins
	UserHome    string // landing page for everyone else
}

func (g GateConfig) withDefaults() GateConfig {
	if g.UserPrefix == "" {
		g.UserPrefix = "/app"
	}
	if g.AdminPrefix == "" {
		g.AdminPrefix = "/admin"
	}
	if g.LoginPath == "" {
		g.LoginPath = "/login"
	}
	if g.DeniedPath == "" {
		g.DeniedPath = "/access-denied"
	}
	if g.AdminHome == "" {
		g.AdminHome = "/admin/overview"
	}
	if g.UserHome == "" {
		g.UserHome = "/app/dashboard"
	}
	return g
}

// Gate enforces the page-level access policy before any handler runs. It is
// a pure function of the request path/query and the decoded session (set by
// the Session middleware); it performs no I/O. Rules, in order:
//
//  1. protected prefix without a session → login page, with the original
//     path+query carried in the next parameter
//  2. admin prefix with a non-admin session → access-denied page
//  3. login page with a live session → role-appropriate landing page
//  4. anything else passes through untouched
func Gate(cfg GateConfig) echo.MiddlewareFunc {
	cfg = cfg.withDefaults()
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			path := req.URL.Path
			sess := SessionFromContext(c)

			protected := underPrefix(path, cfg.UserPrefix) || underPrefix(path, cfg.AdminPrefix)
			if protected && sess == nil {
				metrics.GateRedirectsTotal.WithLabelValues("login").Inc()
				return c.Redirect(http.StatusFound, cfg.LoginPath+"?next="+url.QueryEscape(pathWithQuery(req)))
			}

			if underPrefix(path, cfg.AdminPrefix) && !sess.IsAdmin() {
				metrics.GateRedirectsTotal.WithLabelValues("denied").Inc()
				return c.Redirect(http.StatusFound, cfg.DeniedPath)
			}

			if path == cfg.LoginPath && sess != nil {
				metrics.GateRedirectsTotal.WithLabelValues("landing").Inc()
				if sess.IsAdmin() {
					return c.Redirect(http.StatusFound, cfg.AdminHome)
				}
				return c.Redirect(http.StatusFound, cfg.UserHome)
			}

			return next(c)
		}
	}
}

// underPrefix matches whole path segments: "/admin" covers "/admin" and
// "/admin/users" but not "/administration".
func underPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func pathWithQuery(r *http.Request) string {
	if r.URL.RawQuery == "" {
		return r.URL.Path
	}
	return r.URL.Path + "?" + r.URL.RawQuery
}
