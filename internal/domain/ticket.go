package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets. Closed is terminal.
type TicketStatus string

const (
	TicketStatusNew              TicketStatus = "New"
	TicketStatusInProgress       TicketStatus = "In Progress"
	TicketStatusAssignedToVendor TicketStatus = "Assigned to Vendor"
	TicketStatusResolved         TicketStatus = "Resolved"
	TicketStatusClosed           TicketStatus = "Closed"
)

// Valid reports whether the status is a known lifecycle state.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusNew, TicketStatusInProgress, TicketStatusAssignedToVendor,
		TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// Final reports whether the status carries a resolution time.
func (s TicketStatus) Final() bool {
	return s == TicketStatusResolved || s == TicketStatusClosed
}

// TicketPriority drives the SLA budget picked at creation time.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "Low"
	TicketPriorityMedium TicketPriority = "Medium"
	TicketPriorityHigh   TicketPriority = "High"
)

// Valid reports whether the priority is one of the known levels.
func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh:
		return true
	}
	return false
}

// AssignmentGroup names the team a ticket currently sits with.
type AssignmentGroup string

const (
	GroupSupportTeam AssignmentGroup = "Support Team"
	GroupVendorTeam  AssignmentGroup = "Vendor Team"
)

// Comment is one entry in a ticket's append-only, chronological thread.
type Comment struct {
	Author    string    `json:"author"`
	Timestamp time.Time `json:"timestamp"`
	Text      string    `json:"text"`
}

// AttachmentMeta carries attachment metadata only; no binary content is
// stored anywhere in the system.
type AttachmentMeta struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	Type string `json:"type"`
}

// Ticket is the aggregate for helpdesk requests.
//
// SLAMinutes is derived from the priority once at creation and never
// recalculated. ResolutionTime is set exactly when the status is Resolved or
// Closed.
type Ticket struct {
	TicketID            string           `json:"ticketId"`
	CreatedBy           string           `json:"createdBy"`
	CreatedAt           time.Time        `json:"createdAt"`
	Category            string           `json:"category"`
	SubCategory         string           `json:"subCategory"`
	ShortDescription    string           `json:"shortDescription"`
	DetailedDescription string           `json:"detailedDescription"`
	Priority            TicketPriority   `json:"priority"`
	Impact              TicketPriority   `json:"impact"`
	Urgency             TicketPriority   `json:"urgency"`
	AssignmentGroup     AssignmentGroup  `json:"assignmentGroup"`
	AssignedTo          string           `json:"assignedTo"`
	Attachments         []AttachmentMeta `json:"attachments"`
	Status              TicketStatus     `json:"status"`
	SLAMinutes          int              `json:"slaMinutes"`
	ResolutionNotes     string           `json:"resolutionNotes"`
	ResolutionTime      *time.Time       `json:"resolutionTime"`
	Comments            []Comment        `json:"comments"`
}

// Clone returns a deep copy so read paths can hand out records without
// exposing the stored slices to mutation.
func (t Ticket) Clone() Ticket {
	out := t
	if t.Attachments != nil {
		out.Attachments = append([]AttachmentMeta(nil), t.Attachments...)
	}
	if t.Comments != nil {
		out.Comments = append([]Comment(nil), t.Comments...)
	}
	if t.ResolutionTime != nil {
		rt := *t.ResolutionTime
		out.ResolutionTime = &rt
	}
	return out
}
