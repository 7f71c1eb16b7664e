package service

import (
	"context"
	"math"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/internal/sla"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// TicketStats is the derived per-scope aggregate, recomputed on every call.
type TicketStats struct {
	Total            int `json:"total"`
	New              int `json:"new"`
	InProgress       int `json:"inProgress"`
	AssignedToVendor int `json:"assignedToVendor"`
	Resolved         int `json:"resolved"`
	Closed           int `json:"closed"`
	High             int `json:"high"`
	Medium           int `json:"medium"`
	Low              int `json:"low"`
	// SLAPerformance is the rounded percentage of finalized tickets that met
	// their budget; 100 when nothing has been finalized yet.
	SLAPerformance int `json:"slaPerformance"`
}

// MemberWorkload summarizes one support roster member's queue.
type MemberWorkload struct {
	Member string `json:"member"`
	Total  int    `json:"total"`
	Open   int    `json:"open"`
	High   int    `json:"high"`
}

// StatsScope narrows the aggregate to one user's view. With a zero scope the
// whole collection is counted.
type StatsScope struct {
	UserID string
	Role   domain.Role
}

// StatsService computes dashboard aggregates. No caching and no incremental
// maintenance: every call rescans the collection.
type StatsService struct {
	tickets    repository.TicketRepository
	reference  repository.ReferenceRepository
	calculator *sla.Calculator
}

// NewStatsService creates the service.
func NewStatsService(tickets repository.TicketRepository, reference repository.ReferenceRepository, calculator *sla.Calculator) *StatsService {
	if calculator == nil {
		calculator = sla.NewCalculator()
	}
	return &StatsService{tickets: tickets, reference: reference, calculator: calculator}
}

// TicketStats counts per status and per priority within the scope: end users
// see tickets they created, support and vendors see tickets assigned to them.
func (s *StatsService) TicketStats(ctx context.Context, scope StatsScope) (TicketStats, error) {
	tickets, err := s.tickets.List(ctx)
	if err != nil {
		return TicketStats{}, apperrors.MapError(err)
	}

	scoped := tickets[:0:0]
	for i := range tickets {
		if s.inScope(&tickets[i], scope) {
			scoped = append(scoped, tickets[i])
		}
	}

	stats := TicketStats{Total: len(scoped)}
	for i := range scoped {
		switch scoped[i].Status {
		case domain.TicketStatusNew:
			stats.New++
		case domain.TicketStatusInProgress:
			stats.InProgress++
		case domain.TicketStatusAssignedToVendor:
			stats.AssignedToVendor++
		case domain.TicketStatusResolved:
			stats.Resolved++
		case domain.TicketStatusClosed:
			stats.Closed++
		}
		switch scoped[i].Priority {
		case domain.TicketPriorityHigh:
			stats.High++
		case domain.TicketPriorityMedium:
			stats.Medium++
		case domain.TicketPriorityLow:
			stats.Low++
		}
	}

	finalized := 0
	onTarget := 0
	for i := range scoped {
		if scoped[i].ResolutionTime == nil {
			continue
		}
		finalized++
		if s.calculator.Evaluate(scoped[i]).OnTarget {
			onTarget++
		}
	}
	if finalized > 0 {
		stats.SLAPerformance = int(math.Round(float64(onTarget) / float64(finalized) * 100))
	} else {
		stats.SLAPerformance = 100
	}

	return stats, nil
}

// TeamWorkload reports total, open, and open-high counts per support roster
// member, in roster order.
func (s *StatsService) TeamWorkload(ctx context.Context) ([]MemberWorkload, error) {
	groups, err := s.reference.AssignmentGroups(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	tickets, err := s.tickets.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	roster := groups.Members(domain.GroupSupportTeam)
	workloads := make([]MemberWorkload, 0, len(roster))
	for _, member := range roster {
		workload := MemberWorkload{Member: member}
		for i := range tickets {
			if tickets[i].AssignedTo != member {
				continue
			}
			workload.Total++
			if !tickets[i].Status.Final() {
				workload.Open++
			}
			if tickets[i].Priority == domain.TicketPriorityHigh && tickets[i].Status != domain.TicketStatusClosed {
				workload.High++
			}
		}
		workloads = append(workloads, workload)
	}
	return workloads, nil
}

func (s *StatsService) inScope(ticket *domain.Ticket, scope StatsScope) bool {
	if scope.UserID == "" || !scope.Role.Valid() {
		return true
	}
	if scope.Role == domain.RoleEndUser {
		return ticket.CreatedBy == scope.UserID
	}
	return ticket.AssignedTo == scope.UserID
}
