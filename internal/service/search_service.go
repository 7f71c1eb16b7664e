package service

import (
	"context"
	"strings"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// SearchService runs case-insensitive substring scans over tickets and the
// static knowledge base. Both scans are pure and stateless; there is no
// index.
type SearchService struct {
	tickets   repository.TicketRepository
	reference repository.ReferenceRepository
}

// NewSearchService creates the service.
func NewSearchService(tickets repository.TicketRepository, reference repository.ReferenceRepository) *SearchService {
	return &SearchService{tickets: tickets, reference: reference}
}

// SearchTickets matches the query against short and detailed descriptions,
// category, subcategory, and ticket ID across all tickets. The scan is not
// scoped by requester role.
func (s *SearchService) SearchTickets(ctx context.Context, query string) ([]domain.Ticket, error) {
	tickets, err := s.tickets.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	needle := strings.ToLower(query)
	matched := make([]domain.Ticket, 0)
	for i := range tickets {
		t := &tickets[i]
		if containsFold(t.ShortDescription, needle) ||
			containsFold(t.DetailedDescription, needle) ||
			containsFold(t.Category, needle) ||
			containsFold(t.SubCategory, needle) ||
			containsFold(t.TicketID, needle) {
			matched = append(matched, t.Clone())
		}
	}
	return matched, nil
}

// KBSuggestions matches the query against each knowledge-base entry's title
// or any of its keywords.
func (s *SearchService) KBSuggestions(ctx context.Context, query string) ([]domain.KBEntry, error) {
	entries, err := s.reference.KnowledgeBase(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	needle := strings.ToLower(query)
	matched := make([]domain.KBEntry, 0)
	for _, entry := range entries {
		if containsFold(entry.Title, needle) || anyKeywordMatches(entry.Keywords, needle) {
			matched = append(matched, entry)
		}
	}
	return matched, nil
}

func anyKeywordMatches(keywords []string, needle string) bool {
	for _, keyword := range keywords {
		if containsFold(keyword, needle) {
			return true
		}
	}
	return false
}

// containsFold expects needle already lowercased.
func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}
