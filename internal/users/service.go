package users

import (
	"context"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// PasswordHasher produces the stored form of a plaintext password.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
}

// Service manages the user lifecycle.
type Service struct {
	repo   Repository
	hasher PasswordHasher
}

// NewService creates a new user service.
func NewService(repo Repository, hasher PasswordHasher) *Service {
	return &Service{repo: repo, hasher: hasher}
}

// Validate checks the registration payload.
func (in RegisterInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Username, validation.Required, validation.Length(3, 100)),
		validation.Field(&in.Email, validation.Required, validation.Length(3, 100), is.Email),
		validation.Field(&in.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&in.Surname, validation.Required, validation.Length(1, 100)),
		// bcrypt ignores anything past 72 bytes.
		validation.Field(&in.Password, validation.Required, validation.Length(8, 72)),
	)
}

// Register validates the input, hashes the password and stores a regular
// (non-admin) user.
func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if err := in.Validate(); err != nil {
		return User{}, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	user := User{
		Username:     in.Username,
		Email:        in.Email,
		Name:         in.Name,
		Surname:      in.Surname,
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, &user); err != nil {
		return User{}, err
	}
	return user, nil
}

// Get returns the user with the given identifier.
func (s *Service) Get(ctx context.Context, id int64) (User, error) {
	return s.repo.FindByID(ctx, id)
}
