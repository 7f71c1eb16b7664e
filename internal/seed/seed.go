// Package seed carries the demo fixtures and the startup initialization
// policy: users and tickets are written only when absent, while the four
// reference tables are overwritten on every start.
package seed

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
)

// SLARules is the static priority-to-minutes budget table.
func SLARules() domain.SLARules {
	return domain.SLARules{
		domain.TicketPriorityHigh:   4 * 60,
		domain.TicketPriorityMedium: 24 * 60,
		domain.TicketPriorityLow:    72 * 60,
	}
}

// Categories returns the static category-to-subcategory table.
func Categories() domain.Categories {
	return domain.Categories{
		"Cards": {
			"Debit Card Blocked",
			"Credit Card Issue",
			"Card Activation",
			"Lost/Stolen Card",
		},
		"Account": {
			"Balance Inquiry",
			"Account Locked",
			"Transaction Dispute",
			"Statement Request",
		},
		"Loans": {
			"Loan Application",
			"EMI Issue",
			"Loan Closure",
			"Interest Rate Query",
		},
		"Digital Banking": {
			"Mobile App Issue",
			"Internet Banking",
			"UPI Problem",
			"Password Reset",
		},
		"General": {"Branch Services", "Feedback", "Complaint", "Other"},
	}
}

// KnowledgeBase returns the static self-help articles used for suggestions.
func KnowledgeBase() []domain.KBEntry {
	return []domain.KBEntry{
		{Title: "How to unblock debit card", Category: "Cards", Keywords: []string{"debit", "block", "card", "atm"}},
		{Title: "Reset internet banking password", Category: "Digital Banking", Keywords: []string{"password", "reset", "internet", "banking", "login"}},
		{Title: "Check account balance", Category: "Account", Keywords: []string{"balance", "account", "check", "inquiry"}},
		{Title: "Report lost or stolen card", Category: "Cards", Keywords: []string{"lost", "stolen", "card", "report"}},
		{Title: "UPI transaction failed", Category: "Digital Banking", Keywords: []string{"upi", "transaction", "failed", "payment"}},
		{Title: "Loan EMI payment issue", Category: "Loans", Keywords: []string{"loan", "emi", "payment", "issue"}},
		{Title: "Mobile app not working", Category: "Digital Banking", Keywords: []string{"mobile", "app", "not working", "crash"}},
		{Title: "Transaction dispute resolution", Category: "Account", Keywords: []string{"transaction", "dispute", "wrong", "charge"}},
	}
}

// AssignmentGroupRosters returns the fixed team membership table.
func AssignmentGroupRosters() domain.AssignmentGroups {
	return domain.AssignmentGroups{
		domain.GroupSupportTeam: {"Emp101", "Emp102", "Emp103"},
		domain.GroupVendorTeam:  {"Ven2001", "Ven2002"},
	}
}

// demoAccounts are the one-per-role demo credentials of the original app.
var demoAccounts = []struct {
	userID   string
	password string
	role     domain.Role
	fullName string
	email    string
}{
	{"Cust1001", "Cust@123", domain.RoleEndUser, "John", "john.customer@bank.com"},
	{"Emp101", "Emp@123", domain.RoleSupport, "Sarah", "sarah.support@bank.com"},
	{"Ven2001", "Ven@123", domain.RoleVendor, "Mike", "mike.vendor@bank.com"},
}

// Users builds the demo accounts, hashing the demo passwords.
func Users(bcryptCost int) ([]domain.User, error) {
	users := make([]domain.User, 0, len(demoAccounts))
	for _, account := range demoAccounts {
		hash, err := auth.HashPassword(account.password, bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash seed password for %s: %w", account.userID, err)
		}
		users = append(users, domain.User{
			UserID:       account.userID,
			PasswordHash: hash,
			Role:         account.role,
			FullName:     account.fullName,
			Email:        account.email,
		})
	}
	return users, nil
}

// Tickets builds the two sample tickets with timestamps relative to now.
func Tickets(now time.Time) []domain.Ticket {
	rules := SLARules()
	return []domain.Ticket{
		{
			TicketID:            "TKT-001",
			CreatedBy:           "Cust1001",
			CreatedAt:           now.Add(-2 * time.Hour),
			Category:            "Cards",
			SubCategory:         "Debit Card Blocked",
			ShortDescription:    "Unable to withdraw cash from ATM",
			DetailedDescription: "My debit card is blocked after 3 wrong PIN attempts. Need urgent help to unblock.",
			Priority:            domain.TicketPriorityHigh,
			Impact:              domain.TicketPriorityHigh,
			Urgency:             domain.TicketPriorityHigh,
			AssignmentGroup:     domain.GroupSupportTeam,
			AssignedTo:          "Emp101",
			Attachments:         []domain.AttachmentMeta{},
			Status:              domain.TicketStatusInProgress,
			SLAMinutes:          rules[domain.TicketPriorityHigh],
			ResolutionNotes:     "Verifying customer details",
			Comments: []domain.Comment{
				{
					Author:    "Emp101",
					Timestamp: now.Add(-90 * time.Minute),
					Text:      "Ticket assigned. Checking card status.",
				},
			},
		},
		{
			TicketID:            "TKT-002",
			CreatedBy:           "Cust1001",
			CreatedAt:           now.Add(-10 * time.Hour),
			Category:            "Digital Banking",
			SubCategory:         "Internet Banking",
			ShortDescription:    "Cannot login to internet banking",
			DetailedDescription: "Getting error message when trying to login to internet banking portal.",
			Priority:            domain.TicketPriorityMedium,
			Impact:              domain.TicketPriorityMedium,
			Urgency:             domain.TicketPriorityMedium,
			AssignmentGroup:     domain.GroupVendorTeam,
			AssignedTo:          "Ven2001",
			Attachments:         []domain.AttachmentMeta{},
			Status:              domain.TicketStatusAssignedToVendor,
			SLAMinutes:          rules[domain.TicketPriorityMedium],
			ResolutionNotes:     "Password reset link sent",
			Comments: []domain.Comment{
				{
					Author:    "Emp101",
					Timestamp: now.Add(-9 * time.Hour),
					Text:      "Reassigned to vendor team for technical investigation.",
				},
			},
		},
	}
}

// Initialize applies the startup policy against the repositories.
func Initialize(ctx context.Context, users repository.UserRepository, tickets repository.TicketRepository, reference repository.ReferenceRepository, bcryptCost int, logger *zap.Logger) error {
	seedUsers, err := Users(bcryptCost)
	if err != nil {
		return err
	}
	if err := users.SeedIfAbsent(ctx, seedUsers); err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	if err := tickets.SeedIfAbsent(ctx, Tickets(time.Now())); err != nil {
		return fmt.Errorf("seed tickets: %w", err)
	}
	if err := reference.Reseed(ctx, repository.ReferenceData{
		SLARules:         SLARules(),
		Categories:       Categories(),
		KnowledgeBase:    KnowledgeBase(),
		AssignmentGroups: AssignmentGroupRosters(),
	}); err != nil {
		return fmt.Errorf("reseed reference tables: %w", err)
	}
	logger.Info("store initialized")
	return nil
}
