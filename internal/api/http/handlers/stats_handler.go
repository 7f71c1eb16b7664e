package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/service"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// StatsHandler exposes the dashboard aggregates.
type StatsHandler struct {
	stats *service.StatsService
}

// NewStatsHandler constructs handler.
func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{stats: statsService}
}

// Overview handles GET /stats: the caller's own dashboard numbers, or the
// whole collection with ?scope=all for support.
func (h *StatsHandler) Overview(c *fiber.Ctx) error {
	actor, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewAuthError("authentication required")
	}

	scope := service.StatsScope{UserID: actor.UserID, Role: actor.Role}
	if c.Query("scope") == "all" {
		if actor.Role != domain.RoleSupport {
			return apperrors.NewForbidden("support role required for global stats")
		}
		scope = service.StatsScope{}
	}

	stats, err := h.stats.TicketStats(c.UserContext(), scope)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}

// Team handles GET /stats/team: per-member support workload.
func (h *StatsHandler) Team(c *fiber.Ctx) error {
	if _, ok := auth.CurrentUser(c); !ok {
		return apperrors.NewAuthError("authentication required")
	}
	workloads, err := h.stats.TeamWorkload(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": workloads})
}
