package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/spec-kit/helpdesk/internal/domain"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

func TestCreateAssignsSequentialIDAndSLABudget(t *testing.T) {
	f := newFixture(t)
	actor := endUser("Cust1001")

	cases := []struct {
		priority domain.TicketPriority
		budget   int
	}{
		{domain.TicketPriorityHigh, 240},
		{domain.TicketPriorityMedium, 1440},
		{domain.TicketPriorityLow, 4320},
	}
	for i, tc := range cases {
		ticket := mustCreate(t, f, actor, basicInput(tc.priority))
		wantID := []string{"TKT-00000001", "TKT-00000002", "TKT-00000003"}[i]
		if ticket.TicketID != wantID {
			t.Fatalf("ticket ID = %q, want %q", ticket.TicketID, wantID)
		}
		if ticket.SLAMinutes != tc.budget {
			t.Fatalf("%s budget = %d, want %d", tc.priority, ticket.SLAMinutes, tc.budget)
		}
		if ticket.Status != domain.TicketStatusNew {
			t.Fatalf("status = %q, want New", ticket.Status)
		}
		if ticket.AssignmentGroup != domain.GroupSupportTeam {
			t.Fatalf("group = %q, want Support Team", ticket.AssignmentGroup)
		}
	}
}

func TestCreateContinuesFromHighestSuffix(t *testing.T) {
	f := newFixture(t)
	saveTicket(t, f, workloadTicket("TKT-007", "Emp101", domain.TicketStatusNew))

	ticket := mustCreate(t, f, endUser("Cust1001"), basicInput(domain.TicketPriorityLow))
	if ticket.TicketID != "TKT-00000008" {
		t.Fatalf("ticket ID = %q, want TKT-00000008", ticket.TicketID)
	}
}

func TestCreateRejectsNonEndUsers(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Create(context.Background(), supportAgent("Emp101"), basicInput(domain.TicketPriorityHigh))
	if !apperrors.IsCode(err, "FORBIDDEN") {
		t.Fatalf("err = %v, want FORBIDDEN", err)
	}
}

func TestCreateRequiresShortDescription(t *testing.T) {
	f := newFixture(t)

	input := basicInput(domain.TicketPriorityHigh)
	input.ShortDescription = "   "
	_, err := f.service.Create(context.Background(), endUser("Cust1001"), input)
	if !apperrors.IsCode(err, "VALIDATION_FAILED") {
		t.Fatalf("err = %v, want VALIDATION_FAILED", err)
	}
}

func TestUpdateStatusAppendsAuditComment(t *testing.T) {
	f := newFixture(t)
	created := mustCreate(t, f, endUser("Cust1001"), basicInput(domain.TicketPriorityHigh))
	agent := supportAgent("Emp101")

	updated, err := f.service.UpdateStatus(context.Background(), agent, created.TicketID, domain.TicketStatusInProgress, "")
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != domain.TicketStatusInProgress {
		t.Fatalf("status = %q, want In Progress", updated.Status)
	}
	if len(updated.Comments) != 1 {
		t.Fatalf("comments = %d, want 1", len(updated.Comments))
	}
	if got := updated.Comments[0].Text; got != "Status changed to: In Progress" {
		t.Fatalf("audit comment = %q", got)
	}
	if updated.ResolutionTime != nil {
		t.Fatalf("resolution time set for non-terminal status")
	}
}

func TestUpdateStatusResolvedStampsResolution(t *testing.T) {
	f := newFixture(t)
	created := mustCreate(t, f, endUser("Cust1001"), basicInput(domain.TicketPriorityHigh))

	updated, err := f.service.UpdateStatus(context.Background(), supportAgent("Emp101"), created.TicketID, domain.TicketStatusResolved, "card unblocked")
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.ResolutionTime == nil || !updated.ResolutionTime.Equal(testTime) {
		t.Fatalf("resolution time = %v, want %v", updated.ResolutionTime, testTime)
	}
	if updated.ResolutionNotes != "card unblocked" {
		t.Fatalf("resolution notes = %q", updated.ResolutionNotes)
	}
	if got := updated.Comments[0].Text; got != "Status changed to: Resolved - card unblocked" {
		t.Fatalf("audit comment = %q", got)
	}
}

func TestUpdateStatusTerminalTwiceAppendsTwoComments(t *testing.T) {
	f := newFixture(t)
	created := mustCreate(t, f, endUser("Cust1001"), basicInput(domain.TicketPriorityHigh))
	agent := supportAgent("Emp101")
	ctx := context.Background()

	if _, err := f.service.UpdateStatus(ctx, agent, created.TicketID, domain.TicketStatusResolved, "first pass"); err != nil {
		t.Fatalf("first update: %v", err)
	}
	updated, err := f.service.UpdateStatus(ctx, agent, created.TicketID, domain.TicketStatusClosed, "")
	if err != nil {
		t.Fatalf("second update: %v", err)
	}
	if len(updated.Comments) != 2 {
		t.Fatalf("comments = %d, want 2", len(updated.Comments))
	}
	// Empty notes on close must not wipe the earlier resolution notes.
	if updated.ResolutionNotes != "first pass" {
		t.Fatalf("resolution notes = %q, want preserved", updated.ResolutionNotes)
	}
}

func TestUpdateStatusForbidsEndUsersAndForeignVendors(t *testing.T) {
	f := newFixture(t)
	created := mustCreate(t, f, endUser("Cust1001"), basicInput(domain.TicketPriorityHigh))
	ctx := context.Background()

	if _, err := f.service.UpdateStatus(ctx, endUser("Cust1001"), created.TicketID, domain.TicketStatusClosed, ""); !apperrors.IsCode(err, "FORBIDDEN") {
		t.Fatalf("end user err = %v, want FORBIDDEN", err)
	}
	if _, err := f.service.UpdateStatus(ctx, vendor("Ven2002"), created.TicketID, domain.TicketStatusResolved, ""); !apperrors.IsCode(err, "FORBIDDEN") {
		t.Fatalf("foreign vendor err = %v, want FORBIDDEN", err)
	}
}

func TestUpdateStatusUnknownTicket(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.UpdateStatus(context.Background(), supportAgent("Emp101"), "TKT-99999999", domain.TicketStatusClosed, "")
	if !apperrors.IsCode(err, "NOT_FOUND") {
		t.Fatalf("err = %v, want NOT_FOUND", err)
	}
}

func TestReassignToVendor(t *testing.T) {
	f := newFixture(t)
	created := mustCreate(t, f, endUser("Cust1001"), basicInput(domain.TicketPriorityMedium))

	updated, err := f.service.ReassignToVendor(context.Background(), supportAgent("Emp101"), created.TicketID, "Ven2001")
	if err != nil {
		t.Fatalf("reassign: %v", err)
	}
	if updated.AssignmentGroup != domain.GroupVendorTeam {
		t.Fatalf("group = %q, want Vendor Team", updated.AssignmentGroup)
	}
	if updated.AssignedTo != "Ven2001" {
		t.Fatalf("assignee = %q, want Ven2001", updated.AssignedTo)
	}
	if updated.Status != domain.TicketStatusAssignedToVendor {
		t.Fatalf("status = %q, want Assigned to Vendor", updated.Status)
	}
	if got := updated.Comments[len(updated.Comments)-1].Text; got != "Reassigned to vendor: Ven2001" {
		t.Fatalf("audit comment = %q", got)
	}
}

func TestReassignToVendorValidatesRoster(t *testing.T) {
	f := newFixture(t)
	created := mustCreate(t, f, endUser("Cust1001"), basicInput(domain.TicketPriorityMedium))

	_, err := f.service.ReassignToVendor(context.Background(), supportAgent("Emp101"), created.TicketID, "Ven9999")
	if !apperrors.IsCode(err, "VALIDATION_FAILED") {
		t.Fatalf("err = %v, want VALIDATION_FAILED", err)
	}
}

func TestReassignToVendorSupportOnly(t *testing.T) {
	f := newFixture(t)
	created := mustCreate(t, f, endUser("Cust1001"), basicInput(domain.TicketPriorityMedium))

	_, err := f.service.ReassignToVendor(context.Background(), vendor("Ven2001"), created.TicketID, "Ven2002")
	if !apperrors.IsCode(err, "FORBIDDEN") {
		t.Fatalf("err = %v, want FORBIDDEN", err)
	}
}

func TestAddCommentAppendsInOrder(t *testing.T) {
	f := newFixture(t)
	created := mustCreate(t, f, endUser("Cust1001"), basicInput(domain.TicketPriorityLow))
	ctx := context.Background()

	if _, err := f.service.AddComment(ctx, endUser("Cust1001"), created.TicketID, "any update?"); err != nil {
		t.Fatalf("first comment: %v", err)
	}
	updated, err := f.service.AddComment(ctx, supportAgent("Emp101"), created.TicketID, "working on it")
	if err != nil {
		t.Fatalf("second comment: %v", err)
	}
	if len(updated.Comments) != 2 {
		t.Fatalf("comments = %d, want 2", len(updated.Comments))
	}
	if updated.Comments[0].Author != "Cust1001" || updated.Comments[1].Author != "Emp101" {
		t.Fatalf("authors out of order: %+v", updated.Comments)
	}
}

func TestAddCommentRejectsBlankText(t *testing.T) {
	f := newFixture(t)
	created := mustCreate(t, f, endUser("Cust1001"), basicInput(domain.TicketPriorityLow))

	_, err := f.service.AddComment(context.Background(), endUser("Cust1001"), created.TicketID, "  \t ")
	if !apperrors.IsCode(err, "VALIDATION_FAILED") {
		t.Fatalf("err = %v, want VALIDATION_FAILED", err)
	}
}

func TestUpdateResolutionNotesOverwrites(t *testing.T) {
	f := newFixture(t)
	created := mustCreate(t, f, endUser("Cust1001"), basicInput(domain.TicketPriorityHigh))
	agent := supportAgent("Emp101")
	ctx := context.Background()

	if _, err := f.service.UpdateResolutionNotes(ctx, agent, created.TicketID, "draft notes"); err != nil {
		t.Fatalf("first write: %v", err)
	}
	updated, err := f.service.UpdateResolutionNotes(ctx, agent, created.TicketID, "final notes")
	if err != nil {
		t.Fatalf("second write: %v", err)
	}
	if updated.ResolutionNotes != "final notes" {
		t.Fatalf("resolution notes = %q, want overwrite", updated.ResolutionNotes)
	}
	if len(updated.Comments) != 0 {
		t.Fatalf("notes update must not touch comments, got %d", len(updated.Comments))
	}
}

func TestListScopes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := mustCreate(t, f, endUser("Cust1001"), basicInput(domain.TicketPriorityHigh))
	mustCreate(t, f, endUser("Cust1002"), basicInput(domain.TicketPriorityLow))
	if _, err := f.service.ReassignToVendor(ctx, supportAgent("Emp101"), first.TicketID, "Ven2001"); err != nil {
		t.Fatalf("reassign: %v", err)
	}

	mine, err := f.service.ListByCreator(ctx, "Cust1001")
	if err != nil {
		t.Fatalf("list by creator: %v", err)
	}
	if len(mine) != 1 || mine[0].TicketID != first.TicketID {
		t.Fatalf("creator scope = %+v", mine)
	}

	vendorQueue, err := f.service.ListByAssignee(ctx, "Ven2001")
	if err != nil {
		t.Fatalf("list by assignee: %v", err)
	}
	if len(vendorQueue) != 1 {
		t.Fatalf("vendor queue = %d, want 1", len(vendorQueue))
	}

	supportQueue, err := f.service.ListByGroup(ctx, domain.GroupSupportTeam)
	if err != nil {
		t.Fatalf("list by group: %v", err)
	}
	if len(supportQueue) != 1 {
		t.Fatalf("support queue = %d, want 1 after reassignment", len(supportQueue))
	}
}

func TestListReturnsClones(t *testing.T) {
	f := newFixture(t)
	created := mustCreate(t, f, endUser("Cust1001"), basicInput(domain.TicketPriorityHigh))

	listed, err := f.service.ListAll(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	listed[0].ShortDescription = "mutated"

	reloaded, err := f.service.GetByID(context.Background(), created.TicketID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if reloaded.ShortDescription == "mutated" {
		t.Fatalf("mutating a listed ticket leaked into the store")
	}
}

func TestEvaluateSLAUsesStoredBudget(t *testing.T) {
	f := newFixture(t)
	created := mustCreate(t, f, endUser("Cust1001"), basicInput(domain.TicketPriorityHigh))

	report, err := f.service.EvaluateSLA(context.Background(), created.TicketID)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if report.BudgetMinutes != 240 {
		t.Fatalf("budget = %d, want 240", report.BudgetMinutes)
	}
	if !report.OnTarget {
		t.Fatalf("fresh ticket must be on target")
	}
}

func TestCommentPreviewTruncation(t *testing.T) {
	f := newFixture(t)
	created := mustCreate(t, f, endUser("Cust1001"), basicInput(domain.TicketPriorityLow))

	long := strings.Repeat("x", 500)
	updated, err := f.service.AddComment(context.Background(), endUser("Cust1001"), created.TicketID, long)
	if err != nil {
		t.Fatalf("comment: %v", err)
	}
	// The stored comment keeps the full text; only the event preview trims.
	if got := updated.Comments[0].Text; got != long {
		t.Fatalf("stored comment truncated to %d chars", len(got))
	}
}
