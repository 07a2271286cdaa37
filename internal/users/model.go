package users

import "time"

// User is a registered library member or librarian.
type User struct {
	ID           int64
	Username     string
	Email        string
	Name         string
	Surname      string
	PasswordHash string
	IsAdmin      bool
	IsDisabled   bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RegisterInput is the payload accepted for self-service registration.
type RegisterInput struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
	Name     string `json:"name" form:"name"`
	Surname  string `json:"surname" form:"surname"`
	Password string `json:"password" form:"password"`
}
