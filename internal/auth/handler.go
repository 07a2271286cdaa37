package auth

import (
	"errors"
	"log/slog"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"

	"github.com/shelfwise/shelfwise/internal/users"
)

// Handler exposes the login and registration endpoints.
type Handler struct {
	issuer *Issuer
	users  *users.Service
	logger *slog.Logger
}

func NewHandler(issuer *Issuer, userSvc *users.Service, logger *slog.Logger) *Handler {
	return &Handler{issuer: issuer, users: userSvc, logger: logger}
}

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// Login accepts form or JSON credentials and returns a bearer token.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid login payload")
	}
	token, err := h.issuer.IssueOnLogin(c.UserContext(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
			return fiber.NewError(http.StatusBadRequest, "Incorrect username or password")
		}
		return err
	}
	return c.Status(http.StatusOK).JSON(token)
}

// Register creates a regular user and logs them in.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req users.RegisterInput
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid registration payload")
	}
	user, err := h.users.Register(c.UserContext(), req)
	if err != nil {
		var verrs validation.Errors
		switch {
		case errors.As(err, &verrs):
			return fiber.NewError(http.StatusBadRequest, verrs.Error())
		case errors.Is(err, users.ErrDuplicate):
			return fiber.NewError(http.StatusBadRequest, "Username or email already registered")
		}
		return err
	}
	token, err := h.issuer.Issue(IdentityOf(user))
	if err != nil {
		return err
	}
	if h.logger != nil {
		h.logger.Info("user registered",
			slog.Int64("user_id", user.ID),
			slog.String("username", user.Username),
		)
	}
	return c.Status(http.StatusCreated).JSON(token)
}
