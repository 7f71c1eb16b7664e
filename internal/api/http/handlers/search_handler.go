package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/service"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// SearchHandler exposes the ticket and knowledge-base scans.
type SearchHandler struct {
	search *service.SearchService
}

// NewSearchHandler constructs handler.
func NewSearchHandler(searchService *service.SearchService) *SearchHandler {
	return &SearchHandler{search: searchService}
}

// Tickets handles GET /search/tickets?q=.
func (h *SearchHandler) Tickets(c *fiber.Ctx) error {
	if _, ok := auth.CurrentUser(c); !ok {
		return apperrors.NewAuthError("authentication required")
	}
	query := c.Query("q")
	if query == "" {
		return apperrors.NewValidationError("query parameter q required", nil)
	}

	tickets, err := h.search.SearchTickets(c.UserContext(), query)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": tickets})
}

// KB handles GET /search/kb?q=.
func (h *SearchHandler) KB(c *fiber.Ctx) error {
	if _, ok := auth.CurrentUser(c); !ok {
		return apperrors.NewAuthError("authentication required")
	}
	query := c.Query("q")
	if query == "" {
		return apperrors.NewValidationError("query parameter q required", nil)
	}

	entries, err := h.search.KBSuggestions(c.UserContext(), query)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": entries})
}
