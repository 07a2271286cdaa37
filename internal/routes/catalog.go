package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/shelfwise/shelfwise/internal/catalog"
)

// RegisterCatalogRoutes wires book and branch endpoints. Reads are public,
// lending needs a member and catalog changes need an admin.
func RegisterCatalogRoutes(r fiber.Router, h *catalog.Handler, g Guards) {
	r.Get("/books", h.ListBooks)
	r.Get("/books/:id", h.GetBook)
	r.Post("/books", g.Auth, g.Admin, g.Idempotency, h.AddBook)
	r.Delete("/books/:id", g.Auth, g.Admin, h.DeleteBook)
	r.Put("/books/:id/borrow", g.Auth, g.Idempotency, h.Borrow)
	r.Put("/books/:id/return", g.Auth, g.Idempotency, h.Return)

	r.Get("/branches", h.ListBranches)
	r.Get("/branches/:id", h.GetBranch)
	r.Post("/branches", g.Auth, g.Admin, g.Idempotency, h.AddBranch)
	r.Delete("/branches/:id", g.Auth, g.Admin, h.DeleteBranch)
}
