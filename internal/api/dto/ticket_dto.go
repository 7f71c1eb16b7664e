package dto

import (
	"github.com/spec-kit/helpdesk/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Category            string                  `json:"category"`
	SubCategory         string                  `json:"subCategory"`
	ShortDescription    string                  `json:"shortDescription"`
	DetailedDescription string                  `json:"detailedDescription"`
	Priority            domain.TicketPriority   `json:"priority"`
	Impact              domain.TicketPriority   `json:"impact"`
	Urgency             domain.TicketPriority   `json:"urgency"`
	Attachments         []AttachmentMetaRequest `json:"attachments"`
}

// AttachmentMetaRequest carries attachment metadata only.
type AttachmentMetaRequest struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	Type string `json:"type"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status domain.TicketStatus `json:"status"`
	Notes  string              `json:"notes"`
}

// ReassignRequest payload.
type ReassignRequest struct {
	VendorID string `json:"vendorId"`
}

// AddCommentRequest payload.
type AddCommentRequest struct {
	Text string `json:"text"`
}

// ResolutionNotesRequest payload.
type ResolutionNotesRequest struct {
	Notes string `json:"notes"`
}
