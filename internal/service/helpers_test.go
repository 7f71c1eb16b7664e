package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/internal/seed"
	"github.com/spec-kit/helpdesk/internal/service"
	"github.com/spec-kit/helpdesk/internal/sla"
	"github.com/spec-kit/helpdesk/internal/store"
)

var testTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	tickets   repository.TicketRepository
	reference repository.ReferenceRepository
	service   *service.TicketService
	assigner  *service.AssignmentService
	search    *service.SearchService
	stats     *service.StatsService
}

// newFixture wires the services over a fresh in-memory store with the
// standard reference tables and a clock pinned to testTime.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	kv := store.NewMemory()
	tickets := repository.NewTicketRepository(kv)
	reference := repository.NewReferenceRepository(kv)

	if err := reference.Reseed(context.Background(), repository.ReferenceData{
		SLARules:         seed.SLARules(),
		Categories:       seed.Categories(),
		KnowledgeBase:    seed.KnowledgeBase(),
		AssignmentGroups: seed.AssignmentGroupRosters(),
	}); err != nil {
		t.Fatalf("reseed reference: %v", err)
	}

	calculator := &sla.Calculator{Now: func() time.Time { return testTime }}
	assigner := service.NewAssignmentService(tickets, reference)
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:    tickets,
		ReferenceRepo: reference,
		Assigner:      assigner,
		Calculator:    calculator,
		Now:           func() time.Time { return testTime },
	})

	return &fixture{
		tickets:   tickets,
		reference: reference,
		service:   ticketService,
		assigner:  assigner,
		search:    service.NewSearchService(tickets, reference),
		stats:     service.NewStatsService(tickets, reference, calculator),
	}
}

func endUser(id string) *domain.User {
	return &domain.User{UserID: id, Role: domain.RoleEndUser, FullName: "Test Customer"}
}

func supportAgent(id string) *domain.User {
	return &domain.User{UserID: id, Role: domain.RoleSupport, FullName: "Test Agent"}
}

func vendor(id string) *domain.User {
	return &domain.User{UserID: id, Role: domain.RoleVendor, FullName: "Test Vendor"}
}

func mustCreate(t *testing.T, f *fixture, actor *domain.User, input service.CreateInput) *domain.Ticket {
	t.Helper()
	ticket, err := f.service.Create(context.Background(), actor, input)
	if err != nil {
		t.Fatalf("create ticket: %v", err)
	}
	return ticket
}

func basicInput(priority domain.TicketPriority) service.CreateInput {
	return service.CreateInput{
		Category:            "Cards",
		SubCategory:         "Debit Card Blocked",
		ShortDescription:    "Card not working",
		DetailedDescription: "Card declined at every terminal",
		Priority:            priority,
		Impact:              priority,
		Urgency:             priority,
	}
}

func reseedRosters(t *testing.T, f *fixture, rosters domain.AssignmentGroups) {
	t.Helper()
	if err := f.reference.Reseed(context.Background(), repository.ReferenceData{
		SLARules:         seed.SLARules(),
		Categories:       seed.Categories(),
		KnowledgeBase:    seed.KnowledgeBase(),
		AssignmentGroups: rosters,
	}); err != nil {
		t.Fatalf("reseed rosters: %v", err)
	}
}

func saveTicket(t *testing.T, f *fixture, ticket domain.Ticket) {
	t.Helper()
	if err := f.tickets.Save(context.Background(), ticket); err != nil {
		t.Fatalf("save ticket: %v", err)
	}
}
