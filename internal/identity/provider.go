// Package identity adapts an external sign-in provider to the Identity
// handle the rest of the application reads.
package identity

import (
	"context"

	"mineaction/internal/common/models"
)

// Provider is the interactive sign-in flow.
type Provider interface {
	// AuthCodeURL is where the browser is sent to sign in.
	AuthCodeURL(ctx context.Context, state string) (string, error)
	// Exchange completes the sign-in. Every failure wraps models.ErrAuthFailure.
	Exchange(ctx context.Context, code string) (*models.Identity, error)
	// EndSessionURL ends the provider session in the browser; empty when the
	// provider does not advertise one.
	EndSessionURL() string
}
