package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/repository"
)

// ReferenceHandler serves the static lookup tables the forms are built from.
type ReferenceHandler struct {
	reference repository.ReferenceRepository
}

// NewReferenceHandler constructs handler.
func NewReferenceHandler(reference repository.ReferenceRepository) *ReferenceHandler {
	return &ReferenceHandler{reference: reference}
}

// Categories handles GET /reference/categories.
func (h *ReferenceHandler) Categories(c *fiber.Ctx) error {
	categories, err := h.reference.Categories(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": categories})
}

// AssignmentGroups handles GET /reference/assignment-groups, used by the
// support dashboard's vendor picker.
func (h *ReferenceHandler) AssignmentGroups(c *fiber.Ctx) error {
	groups, err := h.reference.AssignmentGroups(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": groups})
}
