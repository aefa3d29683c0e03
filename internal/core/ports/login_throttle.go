package ports

import "context"

// LoginThrottle limits how often a single phone number may request an OTP.
// Allow reports whether this request fits within the current window.
type LoginThrottle interface {
	Allow(ctx context.Context, phone string) (bool, error)
}
