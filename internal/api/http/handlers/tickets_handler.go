package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/service"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// TicketsHandler manages ticket lifecycle endpoints.
type TicketsHandler struct {
	tickets *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{tickets: ticketService}
}

// Create handles POST /tickets.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	actor, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewAuthError("authentication required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	attachments := make([]domain.AttachmentMeta, 0, len(req.Attachments))
	for _, att := range req.Attachments {
		attachments = append(attachments, domain.AttachmentMeta{
			Name: att.Name,
			Size: att.Size,
			Type: att.Type,
		})
	}

	ticket, err := h.tickets.Create(c.UserContext(), actor, service.CreateInput{
		Category:            req.Category,
		SubCategory:         req.SubCategory,
		ShortDescription:    req.ShortDescription,
		DetailedDescription: req.DetailedDescription,
		Priority:            req.Priority,
		Impact:              req.Impact,
		Urgency:             req.Urgency,
		Attachments:         attachments,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticket})
}

// List handles GET /tickets, scoped by the caller's role the way each
// dashboard scopes its views: end users see tickets they raised, support
// sees the Support Team queue (or ?assigned=me), vendors see their own
// queue.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	actor, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewAuthError("authentication required")
	}

	var (
		tickets []domain.Ticket
		err     error
	)
	switch actor.Role {
	case domain.RoleEndUser:
		tickets, err = h.tickets.ListByCreator(c.UserContext(), actor.UserID)
	case domain.RoleSupport:
		if c.Query("assigned") == "me" {
			tickets, err = h.tickets.ListByAssignee(c.UserContext(), actor.UserID)
		} else {
			tickets, err = h.tickets.ListByGroup(c.UserContext(), domain.GroupSupportTeam)
		}
	case domain.RoleVendor:
		tickets, err = h.tickets.ListByAssignee(c.UserContext(), actor.UserID)
	default:
		return apperrors.NewForbidden("unknown role")
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": tickets})
}

// Get handles GET /tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	if _, ok := auth.CurrentUser(c); !ok {
		return apperrors.NewAuthError("authentication required")
	}
	ticket, err := h.tickets.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// UpdateStatus handles PATCH /tickets/:id/status.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	actor, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewAuthError("authentication required")
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.tickets.UpdateStatus(c.UserContext(), actor, c.Params("id"), req.Status, req.Notes)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// Reassign handles POST /tickets/:id/reassign.
func (h *TicketsHandler) Reassign(c *fiber.Ctx) error {
	actor, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewAuthError("authentication required")
	}
	var req dto.ReassignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.VendorID == "" {
		return apperrors.NewValidationError("vendorId required", nil)
	}

	ticket, err := h.tickets.ReassignToVendor(c.UserContext(), actor, c.Params("id"), req.VendorID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// AddComment handles POST /tickets/:id/comments.
func (h *TicketsHandler) AddComment(c *fiber.Ctx) error {
	actor, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewAuthError("authentication required")
	}
	var req dto.AddCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.tickets.AddComment(c.UserContext(), actor, c.Params("id"), req.Text)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticket})
}

// UpdateResolutionNotes handles PUT /tickets/:id/resolution-notes.
func (h *TicketsHandler) UpdateResolutionNotes(c *fiber.Ctx) error {
	actor, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewAuthError("authentication required")
	}
	var req dto.ResolutionNotesRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.tickets.UpdateResolutionNotes(c.UserContext(), actor, c.Params("id"), req.Notes)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// SLA handles GET /tickets/:id/sla, the live countdown view.
func (h *TicketsHandler) SLA(c *fiber.Ctx) error {
	if _, ok := auth.CurrentUser(c); !ok {
		return apperrors.NewAuthError("authentication required")
	}
	report, err := h.tickets.EvaluateSLA(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": report})
}
