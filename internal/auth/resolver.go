package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/shelfwise/shelfwise/internal/users"
)

// Resolver turns a bearer token into the caller's current Identity.
//
// The token only names the subject. Username and admin flag always come from
// the live user record, so a disabled or deleted account is rejected even
// while its token has not expired.
type Resolver struct {
	codec  *Codec
	users  UserLookup
	logger *slog.Logger
}

// NewResolver builds a Resolver.
func NewResolver(codec *Codec, lookup UserLookup, logger *slog.Logger) *Resolver {
	return &Resolver{codec: codec, users: lookup, logger: logger}
}

// Resolve returns ErrUnauthorized for any token or account problem. Other
// errors come from the user store.
func (r *Resolver) Resolve(ctx context.Context, token string) (Identity, error) {
	claims, err := r.codec.Decode(token)
	if err != nil {
		reason := "invalid token"
		var tokenErr *TokenError
		if errors.As(err, &tokenErr) {
			reason = tokenErr.Reason
		}
		return Identity{}, r.reject(ctx, reason)
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return Identity{}, r.reject(ctx, "missing sub")
	}
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return Identity{}, r.reject(ctx, "malformed sub")
	}

	user, err := r.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return Identity{}, r.reject(ctx, "user no longer exists")
		}
		return Identity{}, fmt.Errorf("lookup user by id: %w", err)
	}
	if user.IsDisabled {
		return Identity{}, r.reject(ctx, "account disabled")
	}

	return IdentityOf(user), nil
}

func (r *Resolver) reject(ctx context.Context, reason string) error {
	if r.logger != nil {
		r.logger.InfoContext(ctx, "token rejected", slog.String("reason", reason))
	}
	return ErrUnauthorized
}

// RequireAdmin guards mutating endpoints. Pass an Identity obtained from
// Resolve so the admin flag reflects the live record.
func RequireAdmin(identity Identity) error {
	if !identity.IsAdmin {
		return ErrForbidden
	}
	return nil
}
