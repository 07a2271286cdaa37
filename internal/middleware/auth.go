package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/shelfwise/shelfwise/internal/auth"
)

const identityLocal = "identity"

// RequireAuth resolves the bearer token into the caller's live identity and
// stores it in the request locals.
func RequireAuth(resolver *auth.Resolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return unauthorized(c)
		}
		identity, err := resolver.Resolve(c.UserContext(), token)
		if err != nil {
			if errors.Is(err, auth.ErrUnauthorized) {
				return unauthorized(c)
			}
			return err
		}
		c.Locals(identityLocal, identity)
		return c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFrom(c)
		if !ok {
			return unauthorized(c)
		}
		if err := auth.RequireAdmin(identity); err != nil {
			return fiber.NewError(http.StatusForbidden, "Not enough permissions")
		}
		return c.Next()
	}
}

// IdentityFrom returns the identity stored by RequireAuth.
func IdentityFrom(c *fiber.Ctx) (auth.Identity, bool) {
	identity, ok := c.Locals(identityLocal).(auth.Identity)
	return identity, ok
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(c *fiber.Ctx) error {
	c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
	return fiber.NewError(http.StatusUnauthorized, "Could not validate credentials")
}
