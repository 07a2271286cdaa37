package auth

import (
	"context"
	"strconv"
)

// TokenTypeBearer is the only token type issued.
const TokenTypeBearer = "bearer"

// AccessToken is the login response payload.
type AccessToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Issuer runs the login flow: authenticate, then mint an access token.
type Issuer struct {
	authn *Authenticator
	codec *Codec
}

// NewIssuer builds an Issuer. Tokens live for the codec's configured TTL.
func NewIssuer(authn *Authenticator, codec *Codec) *Issuer {
	return &Issuer{authn: authn, codec: codec}
}

// IssueOnLogin authenticates the credentials and returns a bearer token, or
// ErrInvalidCredentials without saying which part was wrong.
func (i *Issuer) IssueOnLogin(ctx context.Context, username, password string) (AccessToken, error) {
	identity, ok, err := i.authn.Authenticate(ctx, username, password)
	if err != nil {
		return AccessToken{}, err
	}
	if !ok {
		return AccessToken{}, ErrInvalidCredentials
	}
	return i.Issue(identity)
}

// Issue mints a token for an identity that is already trusted, e.g. a user
// that has just registered.
func (i *Issuer) Issue(identity Identity) (AccessToken, error) {
	claims := map[string]any{
		"sub":      strconv.FormatInt(identity.ID, 10),
		"username": identity.Username,
		"is_admin": identity.IsAdmin,
	}
	token, err := i.codec.Encode(claims, i.codec.TTL())
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{AccessToken: token, TokenType: TokenTypeBearer}, nil
}
