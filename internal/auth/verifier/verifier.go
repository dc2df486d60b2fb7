package verifier

import (
	"context"
	"errors"

	"github.com/owusuprince21/cheaprides.backend/internal/auth"
)

// ErrAuthenticationFailed is the single error surfaced for any token
// that does not verify. Malformed, expired, bad signature and provider
// outages all collapse into it so callers cannot probe the cause.
var ErrAuthenticationFailed = errors.New("authentication failed")

// Verifier validates an opaque bearer token and returns the verified
// identity. Implementations must be side-effect free.
type Verifier interface {
	Verify(ctx context.Context, token string) (*auth.Identity, error)
}

// Chain tries each verifier in order and returns the first identity.
// A token rejected by every verifier fails with ErrAuthenticationFailed.
type Chain []Verifier

func (c Chain) Verify(ctx context.Context, token string) (*auth.Identity, error) {
	for _, v := range c {
		identity, err := v.Verify(ctx, token)
		if err == nil {
			return identity, nil
		}
	}
	return nil, ErrAuthenticationFailed
}
