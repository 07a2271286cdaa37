package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shelfwise/shelfwise/internal/users"
)

// PasswordVerifier checks a plaintext password against its stored hash.
type PasswordVerifier interface {
	Verify(plaintext, hash string) bool
}

// Authenticator turns a username and password into a verified Identity.
type Authenticator struct {
	users    UserLookup
	verifier PasswordVerifier
	logger   *slog.Logger
}

// NewAuthenticator builds an Authenticator over the given user store.
func NewAuthenticator(lookup UserLookup, verifier PasswordVerifier, logger *slog.Logger) *Authenticator {
	return &Authenticator{users: lookup, verifier: verifier, logger: logger}
}

// Authenticate returns the caller's Identity and true when the credentials
// match an enabled account. An unknown username returns early without hashing.
// Only store failures are reported as errors.
func (a *Authenticator) Authenticate(ctx context.Context, username, password string) (Identity, bool, error) {
	user, err := a.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			a.reject(ctx, username, "unknown user")
			return Identity{}, false, nil
		}
		return Identity{}, false, fmt.Errorf("lookup user by username: %w", err)
	}

	if !a.verifier.Verify(password, user.PasswordHash) {
		a.reject(ctx, username, "password mismatch")
		return Identity{}, false, nil
	}

	if user.IsDisabled {
		a.reject(ctx, username, "account disabled")
		return Identity{}, false, nil
	}

	return IdentityOf(user), true, nil
}

func (a *Authenticator) reject(ctx context.Context, username, reason string) {
	if a.logger == nil {
		return
	}
	a.logger.InfoContext(ctx, "authentication rejected",
		slog.String("username", username),
		slog.String("reason", reason),
	)
}
