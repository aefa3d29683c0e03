package domain

import "testing"

func TestParseRole(t *testing.T) {
	cases := []struct {
		raw  string
		want Role
	}{
		{"user", RoleUser},
		{"  User ", RoleUser},
		{"admin", RoleAdmin},
		{"ADMIN", RoleAdmin},
		{"guest", RoleGuest},
		{"", RoleGuest},
		{"sitter", RoleGuest},
		{"root", RoleGuest},
	}
	for _, tc := range cases {
		if got := ParseRole(tc.raw); got != tc.want {
			t.Fatalf("ParseRole(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestParseAdminRole(t *testing.T) {
	cases := []struct {
		raw  string
		want AdminRole
	}{
		{"super_admin", AdminRoleSuper},
		{"superadmin", AdminRoleSuper},
		{"SUPER-ADMIN", AdminRoleSuper},
		{"admin", AdminRoleAdmin},
		{"operator", AdminRoleOperator},
		{"", AdminRoleOperator},
		{"owner", AdminRoleOperator},
	}
	for _, tc := range cases {
		if got := ParseAdminRole(tc.raw); got != tc.want {
			t.Fatalf("ParseAdminRole(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestSessionIsAdmin(t *testing.T) {
	var nilSession *Session
	if nilSession.IsAdmin() {
		t.Fatalf("nil session must not be admin")
	}
	if (&Session{Role: RoleUser}).IsAdmin() {
		t.Fatalf("user session must not be admin")
	}
	if !(&Session{Role: RoleAdmin, AdminRole: AdminRoleOperator}).IsAdmin() {
		t.Fatalf("admin session must be admin")
	}
}
