package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type requestOTPRequest struct {
	Phone string `json:"phone" validate:"required,e164"`
}

type verifyOTPRequest struct {
	Phone string `json:"phone" validate:"required,e164"`
	Code  string `json:"code"  validate:"required,numeric,len=6"`
}

type googleLoginRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

type setLanguageRequest struct {
	Lang string `json:"lang" validate:"required,oneof=en fa"`
}

type statusResponse struct {
	Status string `json:"status"`
}

// sessionResponse mirrors the session cookie payload. Guests get the zero
// shape with role "guest" so clients can branch on one field.
type sessionResponse struct {
	Role       string `json:"role"`
	Name       string `json:"name,omitempty"`
	Phone      string `json:"phone,omitempty"`
	IsProvider bool   `json:"is_provider,omitempty"`
	IsAdmin    bool   `json:"is_admin,omitempty"`
	AdminRole  string `json:"admin_role,omitempty"`
}
