package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/pawnest/edge-gateway/internal/core/domain"
)

func gateRequest(t *testing.T, target string, sess *domain.Session) (*httptest.ResponseRecorder, bool) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if sess != nil {
		c.Set(SessionKey, sess)
	}

	passed := false
	handler := Gate(GateConfig{})(func(c echo.Context) error {
		passed = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec, passed
}

func TestGate_ProtectedWithoutSession(t *testing.T) {
	rec, passed := gateRequest(t, "/admin/users?page=2", nil)
	if passed {
		t.Fatalf("request must not pass the gate")
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	want := "/login?next=" + "%2Fadmin%2Fusers%3Fpage%3D2"
	if got := rec.Header().Get("Location"); got != want {
		t.Fatalf("Location = %q, want %q", got, want)
	}
}

func TestGate_UserAreaWithoutSession(t *testing.T) {
	rec, passed := gateRequest(t, "/app/wallet", nil)
	if passed {
		t.Fatalf("request must not pass the gate")
	}
	if got := rec.Header().Get("Location"); got != "/login?next=%2Fapp%2Fwallet" {
		t.Fatalf("Location = %q", got)
	}
}

func TestGate_AdminAreaNonAdmin(t *testing.T) {
	rec, passed := gateRequest(t, "/admin/overview", &domain.Session{Role: domain.RoleUser, Name: "Sara"})
	if passed {
		t.Fatalf("non-admin must not pass the gate")
	}
	if got := rec.Header().Get("Location"); got != "/access-denied" {
		t.Fatalf("expected access-denied redirect, got %q", got)
	}
}

func TestGate_AdminAreaAdmin(t *testing.T) {
	_, passed := gateRequest(t, "/admin/overview", &domain.Session{Role: domain.RoleAdmin, AdminRole: domain.AdminRoleOperator})
	if !passed {
		t.Fatalf("admin must pass the gate")
	}
}

func TestGate_UserAreaUser(t *testing.T) {
	_, passed := gateRequest(t, "/app/dashboard", &domain.Session{Role: domain.RoleUser})
	if !passed {
		t.Fatalf("user must pass the gate")
	}
}

func TestGate_LoginPageAuthenticated(t *testing.T) {
	rec, _ := gateRequest(t, "/login", &domain.Session{Role: domain.RoleUser})
	if got := rec.Header().Get("Location"); got != "/app/dashboard" {
		t.Fatalf("user landing = %q, want /app/dashboard", got)
	}

	rec, _ = gateRequest(t, "/login", &domain.Session{Role: domain.RoleAdmin, AdminRole: domain.AdminRoleSuper})
	if got := rec.Header().Get("Location"); got != "/admin/overview" {
		t.Fatalf("admin landing = %q, want /admin/overview", got)
	}
}

func TestGate_LoginPageGuest(t *testing.T) {
	_, passed := gateRequest(t, "/login", nil)
	if !passed {
		t.Fatalf("guest must reach the login page")
	}
}

func TestGate_PublicPath(t *testing.T) {
	_, passed := gateRequest(t, "/sitters/tehran", nil)
	if !passed {
		t.Fatalf("public path must pass the gate")
	}
}

func TestGate_PrefixIsSegmentAware(t *testing.T) {
	_, passed := gateRequest(t, "/administration", nil)
	if !passed {
		t.Fatalf("/administration is not under /admin and must pass")
	}
}
