package proxy

import "net/http"

// DefaultRules is the proxied resource surface of the marketplace. Edge
// paths map 1:1 onto backend resource paths. Charity browsing is public so
// the storefront renders for guests; everything else requires a token and
// is rejected locally when none resolves.
func DefaultRules() []Rule {
	authed := func(prefix string, methods ...string) Rule {
		return Rule{Prefix: prefix, Upstream: prefix, Methods: methods, RequireAuth: true}
	}
	public := func(prefix string, methods ...string) Rule {
		return Rule{Prefix: prefix, Upstream: prefix, Methods: methods}
	}

	return []Rule{
		// Pet-owner account resources.
		authed("/api/v1/addresses", http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete),
		authed("/api/v1/profile", http.MethodGet, http.MethodPut, http.MethodPatch),
		authed("/api/v1/notifications", http.MethodGet, http.MethodPatch, http.MethodDelete),
		authed("/api/v1/wallet", http.MethodGet, http.MethodPost),
		authed("/api/v1/payments", http.MethodGet, http.MethodPost),

		// Charity: cases and their progress updates are storefront content;
		// donating needs an account.
		public("/api/v1/charity/cases", http.MethodGet),
		public("/api/v1/charity/updates", http.MethodGet),
		authed("/api/v1/charity/donations", http.MethodGet, http.MethodPost),

		// Sitter onboarding wizard. Each step (phone, identity, address,
		// documents) is an independent sub-path; cross-step state lives on
		// the backend, not here.
		authed("/api/v1/provider/verification", http.MethodGet, http.MethodPost, http.MethodPut),
		authed("/api/v1/provider/services", http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete),

		// Document/media upload; multipart bodies stream through with their
		// boundary intact.
		authed("/api/v1/media", http.MethodPost, http.MethodDelete),
	}
}
