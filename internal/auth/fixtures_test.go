package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/shelfwise/shelfwise/internal/logging"
	"github.com/shelfwise/shelfwise/internal/users"
)

var (
	testSecret = []byte("test-signing-secret")
	testEpoch  = time.Unix(1_700_000_000, 0)
)

func newTestCodec(t *testing.T, opts ...CodecOption) *Codec {
	t.Helper()
	codec, err := NewCodec(TokenConfig{Secret: testSecret, Algorithm: "HS256"}, opts...)
	require.NoError(t, err)
	return codec
}

func newTestHasher() *BcryptHasher {
	return NewBcryptHasher(bcrypt.MinCost)
}

// seedUser stores a user whose password is password.
func seedUser(t *testing.T, repo users.Repository, username, password string, admin, disabled bool) users.User {
	t.Helper()
	hash, err := newTestHasher().Hash(password)
	require.NoError(t, err)
	u := users.User{
		Username:     username,
		Email:        username + "@example.com",
		Name:         username,
		Surname:      "Test",
		PasswordHash: hash,
		IsAdmin:      admin,
		IsDisabled:   disabled,
	}
	require.NoError(t, repo.Create(context.Background(), &u))
	return u
}

type failingLookup struct{}

var errStoreDown = errors.New("store down")

func (failingLookup) FindByUsername(context.Context, string) (users.User, error) {
	return users.User{}, errStoreDown
}

func (failingLookup) FindByID(context.Context, int64) (users.User, error) {
	return users.User{}, errStoreDown
}

type testStack struct {
	repo     users.Repository
	codec    *Codec
	authn    *Authenticator
	issuer   *Issuer
	resolver *Resolver
}

func newTestStack(t *testing.T) testStack {
	t.Helper()
	repo := users.NewMemoryRepository()
	codec := newTestCodec(t)
	logger := logging.Discard()
	authn := NewAuthenticator(repo, newTestHasher(), logger)
	return testStack{
		repo:     repo,
		codec:    codec,
		authn:    authn,
		issuer:   NewIssuer(authn, codec),
		resolver: NewResolver(codec, repo, logger),
	}
}
