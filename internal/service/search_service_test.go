package service_test

import (
	"context"
	"testing"

	"github.com/spec-kit/helpdesk/internal/domain"
)

func TestSearchTicketsMatchesAnyField(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	card := mustCreate(t, f, endUser("Cust1001"), basicInput(domain.TicketPriorityHigh))
	loanInput := basicInput(domain.TicketPriorityLow)
	loanInput.Category = "Loans"
	loanInput.SubCategory = "EMI Issue"
	loanInput.ShortDescription = "EMI debited twice"
	loanInput.DetailedDescription = "This month's installment was charged two times."
	loan := mustCreate(t, f, endUser("Cust1002"), loanInput)

	cases := []struct {
		query string
		want  string
	}{
		{"DEBIT", card.TicketID},       // subcategory, case folded
		{"declined", card.TicketID},    // detailed description
		{"loans", loan.TicketID},       // category
		{loan.TicketID, loan.TicketID}, // ticket ID itself
	}
	for _, tc := range cases {
		got, err := f.search.SearchTickets(ctx, tc.query)
		if err != nil {
			t.Fatalf("search %q: %v", tc.query, err)
		}
		found := false
		for i := range got {
			if got[i].TicketID == tc.want {
				found = true
			}
		}
		if !found {
			t.Fatalf("search %q: %s not in results %+v", tc.query, tc.want, got)
		}
	}
}

func TestSearchTicketsNoMatchReturnsEmptySlice(t *testing.T) {
	f := newFixture(t)
	mustCreate(t, f, endUser("Cust1001"), basicInput(domain.TicketPriorityHigh))

	got, err := f.search.SearchTickets(context.Background(), "zzzzzz")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("results = %#v, want empty non-nil slice", got)
	}
}

func TestKBSuggestionsMatchTitleAndKeywords(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	byTitle, err := f.search.KBSuggestions(ctx, "unblock")
	if err != nil {
		t.Fatalf("kb search: %v", err)
	}
	if len(byTitle) != 1 || byTitle[0].Title != "How to unblock debit card" {
		t.Fatalf("title match = %+v", byTitle)
	}

	byKeyword, err := f.search.KBSuggestions(ctx, "UPI")
	if err != nil {
		t.Fatalf("kb search: %v", err)
	}
	if len(byKeyword) != 1 || byKeyword[0].Category != "Digital Banking" {
		t.Fatalf("keyword match = %+v", byKeyword)
	}
}

func TestKBSuggestionsMultipleMatches(t *testing.T) {
	f := newFixture(t)

	got, err := f.search.KBSuggestions(context.Background(), "card")
	if err != nil {
		t.Fatalf("kb search: %v", err)
	}
	// "How to unblock debit card" and "Report lost or stolen card".
	if len(got) != 2 {
		t.Fatalf("matches = %d, want 2: %+v", len(got), got)
	}
}
