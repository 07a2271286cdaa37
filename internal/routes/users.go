package routes

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/shelfwise/shelfwise/internal/catalog"
	"github.com/shelfwise/shelfwise/internal/middleware"
	"github.com/shelfwise/shelfwise/internal/users"
)

type profileResponse struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Surname    string    `json:"surname"`
	IsAdmin    bool      `json:"is_admin"`
	IsDisabled bool      `json:"is_disabled"`
	CreatedAt  time.Time `json:"date_created"`
	UpdatedAt  time.Time `json:"date_updated"`
}

// RegisterUserRoutes exposes the caller's own profile and loans.
func RegisterUserRoutes(r fiber.Router, userSvc *users.Service, catalogSvc *catalog.Service, g Guards) {
	r.Get("/users/me", g.Auth, func(c *fiber.Ctx) error {
		identity, _ := middleware.IdentityFrom(c)
		user, err := userSvc.Get(c.UserContext(), identity.ID)
		if err != nil {
			if errors.Is(err, users.ErrNotFound) {
				return fiber.NewError(http.StatusNotFound, "user not found")
			}
			return err
		}
		return c.Status(http.StatusOK).JSON(profileResponse{
			ID:         user.ID,
			Username:   user.Username,
			Email:      user.Email,
			Name:       user.Name,
			Surname:    user.Surname,
			IsAdmin:    user.IsAdmin,
			IsDisabled: user.IsDisabled,
			CreatedAt:  user.CreatedAt,
			UpdatedAt:  user.UpdatedAt,
		})
	})

	r.Get("/users/me/books", g.Auth, func(c *fiber.Ctx) error {
		identity, _ := middleware.IdentityFrom(c)
		books, err := catalogSvc.BooksBorrowedBy(c.UserContext(), identity.ID)
		if err != nil {
			return err
		}
		return c.Status(http.StatusOK).JSON(books)
	})
}
