package domain

import (
	"errors"
	"strings"
	"time"
)

// Role is the top-level identity of a request. It is decoded once at the
// edge; everything downstream matches on the closed set instead of raw
// cookie strings.
type Role string

const (
	RoleGuest Role = "guest"
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// AdminRole is the sub-role carried by admin sessions.
type AdminRole string

const (
	AdminRoleSuper    AdminRole = "super_admin"
	AdminRoleAdmin    AdminRole = "admin"
	AdminRoleOperator AdminRole = "operator"
)

var ErrInvalidPhone = errors.New("invalid phone number")
var ErrInvalidOTP = errors.New("invalid or expired otp code")
var ErrOTPThrottled = errors.New("otp requests throttled")
var ErrInvalidGoogleToken = errors.New("invalid google id token")
var ErrUnauthorized = errors.New("not authenticated")
var ErrBackendUnavailable = errors.New("backend unavailable")

// ParseRole maps an incoming role string onto the closed Role set.
// Anything unrecognized degrades to guest rather than failing the request.
func ParseRole(raw string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleUser:
		return RoleUser
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleGuest
	}
}

// ParseAdminRole normalizes the admin sub-role. The backend has emitted
// several spellings over time ("superadmin", "SUPER-ADMIN"); all collapse
// onto the canonical constants. Unknown values map to operator, the least
// privileged sub-role.
func ParseAdminRole(raw string) AdminRole {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = strings.ReplaceAll(normalized, "-", "_")
	switch normalized {
	case "super_admin", "superadmin":
		return AdminRoleSuper
	case "admin":
		return AdminRoleAdmin
	default:
		return AdminRoleOperator
	}
}

// Session is the decoded identity carried by the session cookie. A nil
// *Session means guest; a non-nil Session carries exactly one Role.
type Session struct {
	Role       Role      `json:"role"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone,omitempty"`
	IsProvider bool      `json:"is_provider,omitempty"`
	AdminRole  AdminRole `json:"admin_role,omitempty"`
}

// IsAdmin is derived from Role; it is never stored separately.
func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}

// Credentials is the opaque token pair issued by the backend on login.
// The tokens are forwarded verbatim; the edge never inspects their claims
// beyond an expiry peek.
type Credentials struct {
	AccessToken  string
	RefreshToken string
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
}
