package catalog

import (
	"errors"
	"net/http"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"

	"github.com/shelfwise/shelfwise/internal/middleware"
)

// Handler exposes catalog HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a catalog HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ListBooks supports ?branch=<id> and ?q=<text>.
func (h *Handler) ListBooks(c *fiber.Ctx) error {
	var filter BookFilter
	if raw := c.Query("branch"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return fiber.NewError(http.StatusBadRequest, "branch must be a positive integer")
		}
		filter.BranchID = id
	}
	filter.Query = c.Query("q")

	books, err := h.service.ListBooks(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(books)
}

func (h *Handler) GetBook(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	book, err := h.service.GetBook(c.UserContext(), id)
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(book)
}

func (h *Handler) AddBook(c *fiber.Ctx) error {
	var req BookInput
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid book payload")
	}
	book, err := h.service.AddBook(c.UserContext(), req)
	if err != nil {
		if errors.Is(err, ErrBranchNotFound) {
			return fiber.NewError(http.StatusBadRequest, "branch does not exist")
		}
		return mapError(err)
	}
	return c.Status(http.StatusCreated).JSON(book)
}

func (h *Handler) DeleteBook(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteBook(c.UserContext(), id); err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"deleted": true})
}

// Borrow lends the book to the authenticated caller.
func (h *Handler) Borrow(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "Could not validate credentials")
	}
	book, err := h.service.Borrow(c.UserContext(), id, Borrower{ID: identity.ID, Username: identity.Username})
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(book)
}

// Return gives the book back. Admins may return on behalf of any member.
func (h *Handler) Return(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "Could not validate credentials")
	}
	book, err := h.service.Return(c.UserContext(), id, Borrower{ID: identity.ID, Username: identity.Username}, identity.IsAdmin)
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(book)
}

func (h *Handler) ListBranches(c *fiber.Ctx) error {
	branches, err := h.service.ListBranches(c.UserContext())
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(branches)
}

func (h *Handler) GetBranch(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	branch, err := h.service.GetBranch(c.UserContext(), id)
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(branch)
}

func (h *Handler) AddBranch(c *fiber.Ctx) error {
	var req BranchInput
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid branch payload")
	}
	branch, err := h.service.AddBranch(c.UserContext(), req)
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusCreated).JSON(branch)
}

func (h *Handler) DeleteBranch(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteBranch(c.UserContext(), id); err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"deleted": true})
}

func pathID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(http.StatusBadRequest, "id must be a positive integer")
	}
	return id, nil
}

func mapError(err error) error {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		return fiber.NewError(http.StatusBadRequest, verrs.Error())
	case errors.Is(err, ErrBookNotFound), errors.Is(err, ErrBranchNotFound):
		return fiber.NewError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrAlreadyBorrowed), errors.Is(err, ErrNotBorrowed), errors.Is(err, ErrBranchInUse):
		return fiber.NewError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrNotBorrower):
		return fiber.NewError(http.StatusForbidden, err.Error())
	}
	return err
}
