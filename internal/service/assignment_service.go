package service

import (
	"context"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// AssignmentService selects a support-team member for new tickets by least
// current open load. It recomputes from scratch on every call and keeps no
// memory of prior assignment order.
type AssignmentService struct {
	tickets   repository.TicketRepository
	reference repository.ReferenceRepository
}

// NewAssignmentService creates the service.
func NewAssignmentService(tickets repository.TicketRepository, reference repository.ReferenceRepository) *AssignmentService {
	return &AssignmentService{tickets: tickets, reference: reference}
}

// AssignToSupport returns the roster member with the fewest non-Closed
// tickets currently assigned. Ties break by roster order: scanning in order,
// only a strictly smaller count displaces the current pick.
func (s *AssignmentService) AssignToSupport(ctx context.Context) (string, error) {
	groups, err := s.reference.AssignmentGroups(ctx)
	if err != nil {
		return "", apperrors.MapError(err)
	}
	roster := groups.Members(domain.GroupSupportTeam)
	if len(roster) == 0 {
		return "", apperrors.NewConflict("support team roster is empty", nil)
	}

	tickets, err := s.tickets.List(ctx)
	if err != nil {
		return "", apperrors.MapError(err)
	}

	counts := make(map[string]int, len(roster))
	for _, member := range roster {
		counts[member] = 0
	}
	for i := range tickets {
		if tickets[i].Status == domain.TicketStatusClosed {
			continue
		}
		if _, ok := counts[tickets[i].AssignedTo]; ok {
			counts[tickets[i].AssignedTo]++
		}
	}

	selected := roster[0]
	minCount := counts[selected]
	for _, member := range roster[1:] {
		if counts[member] < minCount {
			minCount = counts[member]
			selected = member
		}
	}
	return selected, nil
}
