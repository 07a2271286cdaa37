package auth

import "errors"

var (
	// ErrInvalidCredentials is returned by the login flow for an unknown user,
	// a wrong password or a disabled account alike.
	ErrInvalidCredentials = errors.New("incorrect username or password")

	// ErrInvalidToken covers malformed, badly signed and expired tokens.
	ErrInvalidToken = errors.New("invalid token")

	// ErrUnauthorized means the request carries no usable identity.
	ErrUnauthorized = errors.New("could not validate credentials")

	// ErrForbidden means the identity is valid but lacks the required privilege.
	ErrForbidden = errors.New("not enough permissions")
)

// TokenError carries the diagnostic reason a token was rejected. It matches
// ErrInvalidToken with errors.Is so callers only ever see one kind.
type TokenError struct {
	Reason string
	Err    error
}

func (e *TokenError) Error() string {
	if e.Err == nil {
		return ErrInvalidToken.Error() + ": " + e.Reason
	}
	return ErrInvalidToken.Error() + ": " + e.Reason + ": " + e.Err.Error()
}

func (e *TokenError) Unwrap() error { return e.Err }

func (e *TokenError) Is(target error) bool { return target == ErrInvalidToken }
