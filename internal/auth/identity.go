package auth

import (
	"context"

	"github.com/shelfwise/shelfwise/internal/users"
)

// Identity is the minimal set of facts authorization decisions need. It is
// projected from a live user record and never carries the password hash.
type Identity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
}

// UserLookup is the read side of the user store the auth flows depend on.
// Implementations return users.ErrNotFound for a miss.
type UserLookup interface {
	FindByUsername(ctx context.Context, username string) (users.User, error)
	FindByID(ctx context.Context, id int64) (users.User, error)
}

// IdentityOf projects a user record onto an Identity.
func IdentityOf(u users.User) Identity {
	return Identity{ID: u.ID, Username: u.Username, IsAdmin: u.IsAdmin}
}
