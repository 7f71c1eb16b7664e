package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/internal/sla"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// TicketService coordinates the ticket lifecycle. The acting user is passed
// explicitly into every mutation; there is no hidden session state.
type TicketService struct {
	tickets    repository.TicketRepository
	reference  repository.ReferenceRepository
	assigner   *AssignmentService
	calculator *sla.Calculator
	dispatcher events.Dispatcher
	now        func() time.Time
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo    repository.TicketRepository
	ReferenceRepo repository.ReferenceRepository
	Assigner      *AssignmentService
	Calculator    *sla.Calculator
	Dispatcher    events.Dispatcher
	Now           func() time.Time
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	calculator := deps.Calculator
	if calculator == nil {
		calculator = sla.NewCalculator()
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		reference:  deps.ReferenceRepo,
		assigner:   deps.Assigner,
		calculator: calculator,
		dispatcher: deps.Dispatcher,
		now:        now,
	}
}

// CreateInput describes the ticket creation payload.
type CreateInput struct {
	Category            string
	SubCategory         string
	ShortDescription    string
	DetailedDescription string
	Priority            domain.TicketPriority
	Impact              domain.TicketPriority
	Urgency             domain.TicketPriority
	Attachments         []domain.AttachmentMeta
}

// Create opens a new ticket for the acting end user: sequential ID, Support
// Team group, least-loaded assignee, New status, and the SLA budget fixed
// from the submitted priority.
func (s *TicketService) Create(ctx context.Context, actor *domain.User, input CreateInput) (*domain.Ticket, error) {
	if actor == nil {
		return nil, apperrors.NewAuthError("authentication required")
	}
	if actor.Role != domain.RoleEndUser {
		return nil, apperrors.NewForbidden("only end users can create tickets")
	}
	if !input.Priority.Valid() {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": input.Priority})
	}
	if strings.TrimSpace(input.ShortDescription) == "" {
		return nil, apperrors.NewValidationError("short description required", nil)
	}

	rules, err := s.reference.SLARules(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	budget, ok := rules.Budget(input.Priority)
	if !ok {
		return nil, apperrors.NewValidationError("no SLA rule for priority", map[string]any{"priority": input.Priority})
	}

	ticketID, err := s.tickets.NextTicketID(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	assignee, err := s.assigner.AssignToSupport(ctx)
	if err != nil {
		return nil, err
	}

	attachments := input.Attachments
	if attachments == nil {
		attachments = []domain.AttachmentMeta{}
	}

	ticket := domain.Ticket{
		TicketID:            ticketID,
		CreatedBy:           actor.UserID,
		CreatedAt:           s.now(),
		Category:            input.Category,
		SubCategory:         input.SubCategory,
		ShortDescription:    strings.TrimSpace(input.ShortDescription),
		DetailedDescription: strings.TrimSpace(input.DetailedDescription),
		Priority:            input.Priority,
		Impact:              input.Impact,
		Urgency:             input.Urgency,
		AssignmentGroup:     domain.GroupSupportTeam,
		AssignedTo:          assignee,
		Attachments:         attachments,
		Status:              domain.TicketStatusNew,
		SLAMinutes:          budget,
		Comments:            []domain.Comment{},
	}

	if err := s.tickets.Save(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.TicketID,
		ActorID:  actor.UserID,
		Payload: events.TicketCreatedPayload{
			Category:         ticket.Category,
			SubCategory:      ticket.SubCategory,
			Priority:         ticket.Priority,
			AssignedTo:       ticket.AssignedTo,
			ShortDescription: ticket.ShortDescription,
		},
	})
	return &ticket, nil
}

// UpdateStatus moves a ticket to newStatus, appending an audit comment on
// every call: two identical updates leave two comments. Resolved and Closed
// stamp the resolution time and, when notes are given, the resolution notes.
func (s *TicketService) UpdateStatus(ctx context.Context, actor *domain.User, ticketID string, newStatus domain.TicketStatus, notes string) (*domain.Ticket, error) {
	if actor == nil {
		return nil, apperrors.NewAuthError("authentication required")
	}
	if !newStatus.Valid() {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": newStatus})
	}

	ticket, err := s.getForWrite(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := s.requireOperator(actor, ticket); err != nil {
		return nil, err
	}

	oldStatus := ticket.Status
	ticket.Status = newStatus

	text := "Status changed to: " + string(newStatus)
	if notes != "" {
		text += " - " + notes
	}
	s.appendComment(ticket, actor.UserID, text)

	if newStatus.Final() {
		resolvedAt := s.now()
		ticket.ResolutionTime = &resolvedAt
		if notes != "" {
			ticket.ResolutionNotes = notes
		}
	}

	if err := s.tickets.Save(ctx, *ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publish(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.TicketID,
		ActorID:  actor.UserID,
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
			Notes:     notes,
		},
	})
	return ticket, nil
}

// ReassignToVendor hands a ticket to a vendor-team member. The target must be
// on the Vendor Team roster.
func (s *TicketService) ReassignToVendor(ctx context.Context, actor *domain.User, ticketID, vendorID string) (*domain.Ticket, error) {
	if actor == nil {
		return nil, apperrors.NewAuthError("authentication required")
	}
	if actor.Role != domain.RoleSupport {
		return nil, apperrors.NewForbidden("only support can reassign to vendor")
	}

	groups, err := s.reference.AssignmentGroups(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !groups.Contains(domain.GroupVendorTeam, vendorID) {
		return nil, apperrors.NewValidationError("not a vendor team member", map[string]any{"vendorId": vendorID})
	}

	ticket, err := s.getForWrite(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	ticket.AssignmentGroup = domain.GroupVendorTeam
	ticket.AssignedTo = vendorID
	ticket.Status = domain.TicketStatusAssignedToVendor
	s.appendComment(ticket, actor.UserID, "Reassigned to vendor: "+vendorID)

	if err := s.tickets.Save(ctx, *ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publish(ctx, events.Event{
		Type:     events.EventTicketReassigned,
		TicketID: ticket.TicketID,
		ActorID:  actor.UserID,
		Payload: events.TicketReassignedPayload{
			Group:      domain.GroupVendorTeam,
			AssignedTo: vendorID,
		},
	})
	return ticket, nil
}

// AddComment appends to the ticket's chronological thread.
func (s *TicketService) AddComment(ctx context.Context, actor *domain.User, ticketID, text string) (*domain.Ticket, error) {
	if actor == nil {
		return nil, apperrors.NewAuthError("authentication required")
	}
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.NewValidationError("comment text required", nil)
	}

	ticket, err := s.getForWrite(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	s.appendComment(ticket, actor.UserID, text)

	if err := s.tickets.Save(ctx, *ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publish(ctx, events.Event{
		Type:     events.EventTicketCommentAdded,
		TicketID: ticket.TicketID,
		ActorID:  actor.UserID,
		Payload: events.TicketCommentAddedPayload{
			Author:      actor.UserID,
			TextPreview: preview(text, 120),
		},
	})
	return ticket, nil
}

// UpdateResolutionNotes overwrites the notes without touching status or
// comments.
func (s *TicketService) UpdateResolutionNotes(ctx context.Context, actor *domain.User, ticketID, notes string) (*domain.Ticket, error) {
	if actor == nil {
		return nil, apperrors.NewAuthError("authentication required")
	}

	ticket, err := s.getForWrite(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := s.requireOperator(actor, ticket); err != nil {
		return nil, err
	}

	ticket.ResolutionNotes = notes
	if err := s.tickets.Save(ctx, *ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// GetByID returns a defensive copy of the ticket.
func (s *TicketService) GetByID(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	return s.getForWrite(ctx, ticketID)
}

// ListAll returns every ticket.
func (s *TicketService) ListAll(ctx context.Context) ([]domain.Ticket, error) {
	tickets, err := s.tickets.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return cloneAll(tickets), nil
}

// ListByCreator returns the tickets raised by userID.
func (s *TicketService) ListByCreator(ctx context.Context, userID string) ([]domain.Ticket, error) {
	return s.listWhere(ctx, func(t *domain.Ticket) bool { return t.CreatedBy == userID })
}

// ListByAssignee returns the tickets currently assigned to userID.
func (s *TicketService) ListByAssignee(ctx context.Context, userID string) ([]domain.Ticket, error) {
	return s.listWhere(ctx, func(t *domain.Ticket) bool { return t.AssignedTo == userID })
}

// ListByGroup returns the queue for an assignment group.
func (s *TicketService) ListByGroup(ctx context.Context, group domain.AssignmentGroup) ([]domain.Ticket, error) {
	return s.listWhere(ctx, func(t *domain.Ticket) bool { return t.AssignmentGroup == group })
}

// EvaluateSLA computes the live SLA report for one ticket.
func (s *TicketService) EvaluateSLA(ctx context.Context, ticketID string) (sla.Report, error) {
	ticket, err := s.getForWrite(ctx, ticketID)
	if err != nil {
		return sla.Report{}, err
	}
	return s.calculator.Evaluate(*ticket), nil
}

func (s *TicketService) listWhere(ctx context.Context, keep func(*domain.Ticket) bool) ([]domain.Ticket, error) {
	tickets, err := s.tickets.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	matched := make([]domain.Ticket, 0, len(tickets))
	for i := range tickets {
		if keep(&tickets[i]) {
			matched = append(matched, tickets[i].Clone())
		}
	}
	return matched, nil
}

func (s *TicketService) getForWrite(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if ticket == nil {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"ticketId": ticketID})
	}
	return ticket, nil
}

// requireOperator gates lifecycle mutations: support operates on any ticket,
// vendors only on tickets assigned to them, end users on neither.
func (s *TicketService) requireOperator(actor *domain.User, ticket *domain.Ticket) error {
	switch actor.Role {
	case domain.RoleSupport:
		return nil
	case domain.RoleVendor:
		if ticket.AssignedTo != actor.UserID {
			return apperrors.NewForbidden("ticket not assigned to you")
		}
		return nil
	default:
		return apperrors.NewForbidden("insufficient role")
	}
}

func (s *TicketService) appendComment(ticket *domain.Ticket, author, text string) {
	ticket.Comments = append(ticket.Comments, domain.Comment{
		Author:    author,
		Timestamp: s.now(),
		Text:      text,
	})
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func cloneAll(tickets []domain.Ticket) []domain.Ticket {
	out := make([]domain.Ticket, 0, len(tickets))
	for i := range tickets {
		out = append(out, tickets[i].Clone())
	}
	return out
}

func preview(text string, max int) string {
	text = strings.TrimSpace(text)
	if len(text) <= max {
		return text
	}
	if max <= 3 {
		return text[:max]
	}
	return text[:max-3] + "..."
}
