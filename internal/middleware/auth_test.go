package middleware

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/shelfwise/shelfwise/internal/auth"
	"github.com/shelfwise/shelfwise/internal/logging"
	"github.com/shelfwise/shelfwise/internal/users"
)

type authFixture struct {
	app    *fiber.App
	repo   users.Repository
	issuer *auth.Issuer
}

func newAuthFixture(t *testing.T) authFixture {
	t.Helper()
	repo := users.NewMemoryRepository()
	codec, err := auth.NewCodec(auth.TokenConfig{Secret: []byte("middleware-secret"), Algorithm: "HS256"})
	require.NoError(t, err)
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)
	logger := logging.Discard()

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(logger)})
	requireAuth := RequireAuth(auth.NewResolver(codec, repo, logger))
	app.Get("/me", requireAuth, func(c *fiber.Ctx) error {
		identity, _ := IdentityFrom(c)
		return c.JSON(identity)
	})
	app.Delete("/books/:id", requireAuth, RequireAdmin(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	return authFixture{
		app:    app,
		repo:   repo,
		issuer: auth.NewIssuer(auth.NewAuthenticator(repo, hasher, logger), codec),
	}
}

func (f authFixture) token(t *testing.T, username string, admin bool) string {
	t.Helper()
	u := users.User{Username: username, Email: username + "@example.com", PasswordHash: "unused", IsAdmin: admin}
	require.NoError(t, f.repo.Create(context.Background(), &u))
	tok, err := f.issuer.Issue(auth.IdentityOf(u))
	require.NoError(t, err)
	return tok.AccessToken
}

func (f authFixture) do(t *testing.T, method, path, authorization string) (int, string, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if authorization != "" {
		req.Header.Set(fiber.HeaderAuthorization, authorization)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]any
	_ = json.Unmarshal(raw, &body)
	return resp.StatusCode, resp.Header.Get(fiber.HeaderWWWAuthenticate), body
}

func TestRequireAuthRejectsMissingOrInvalidTokens(t *testing.T) {
	f := newAuthFixture(t)

	for name, header := range map[string]string{
		"missing":      "",
		"wrong scheme": "Basic YWxpY2U6cHc=",
		"empty bearer": "Bearer ",
		"garbage":      "Bearer garbage",
	} {
		t.Run(name, func(t *testing.T) {
			status, challenge, body := f.do(t, fiber.MethodGet, "/me", header)
			assert.Equal(t, fiber.StatusUnauthorized, status)
			assert.Equal(t, "Bearer", challenge)
			assert.Equal(t, "Could not validate credentials", body["detail"])
		})
	}
}

func TestRequireAuthStoresIdentity(t *testing.T) {
	f := newAuthFixture(t)
	token := f.token(t, "alice", false)

	status, _, body := f.do(t, fiber.MethodGet, "/me", "bearer "+token)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "alice", body["username"])
	assert.Equal(t, false, body["is_admin"])
}

func TestRequireAdmin(t *testing.T) {
	f := newAuthFixture(t)
	alice := f.token(t, "alice", false)
	root := f.token(t, "root", true)

	status, _, body := f.do(t, fiber.MethodDelete, "/books/1", "Bearer "+alice)
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "Not enough permissions", body["detail"])

	status, _, _ = f.do(t, fiber.MethodDelete, "/books/1", "Bearer "+root)
	assert.Equal(t, fiber.StatusOK, status)
}
