package store

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler serves the activity trail.
type Handler struct {
	repo Repository
}

// NewHandler constructs an activity handler.
func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// Recent lists the newest activity; ?limit=n caps the result.
func (h *Handler) Recent(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultRecentLimit)
	if limit <= 0 {
		return fiber.NewError(http.StatusBadRequest, "limit must be positive")
	}
	items, err := h.repo.Recent(c.UserContext(), limit)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	if items == nil {
		items = []Activity{}
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"activity": items})
}
