package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/store"
)

const ticketsKey = "tickets"

// TicketRepository encapsulates the persisted ticket collection. Save is
// read-modify-write over the whole collection: the affected record is
// replaced in its slot (looked up by ticket ID, not position) or appended.
type TicketRepository interface {
	List(ctx context.Context) ([]domain.Ticket, error)
	GetByID(ctx context.Context, ticketID string) (*domain.Ticket, error)
	Save(ctx context.Context, ticket domain.Ticket) error
	NextTicketID(ctx context.Context) (string, error)
	SeedIfAbsent(ctx context.Context, tickets []domain.Ticket) error
}

type ticketRepository struct {
	kv store.KV
}

// NewTicketRepository instantiates the repository.
func NewTicketRepository(kv store.KV) TicketRepository {
	return &ticketRepository{kv: kv}
}

func (r *ticketRepository) List(ctx context.Context) ([]domain.Ticket, error) {
	raw, ok, err := r.kv.Get(ctx, ticketsKey)
	if err != nil {
		return nil, fmt.Errorf("load tickets: %w", err)
	}
	if !ok {
		return []domain.Ticket{}, nil
	}
	var tickets []domain.Ticket
	if err := json.Unmarshal(raw, &tickets); err != nil {
		return nil, fmt.Errorf("decode tickets: %w", err)
	}
	return tickets, nil
}

func (r *ticketRepository) GetByID(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	tickets, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range tickets {
		if tickets[i].TicketID == ticketID {
			ticket := tickets[i].Clone()
			return &ticket, nil
		}
	}
	return nil, nil
}

func (r *ticketRepository) Save(ctx context.Context, ticket domain.Ticket) error {
	tickets, err := r.List(ctx)
	if err != nil {
		return err
	}
	replaced := false
	for i := range tickets {
		if tickets[i].TicketID == ticket.TicketID {
			tickets[i] = ticket
			replaced = true
			break
		}
	}
	if !replaced {
		tickets = append(tickets, ticket)
	}
	return r.write(ctx, tickets)
}

// NextTicketID scans existing IDs for the maximum numeric suffix and returns
// "TKT-" + zero-padded max+1; the first ticket of an empty collection is
// TKT-00000001.
func (r *ticketRepository) NextTicketID(ctx context.Context) (string, error) {
	tickets, err := r.List(ctx)
	if err != nil {
		return "", err
	}
	maxSuffix := 0
	for i := range tickets {
		_, suffix, found := strings.Cut(tickets[i].TicketID, "-")
		if !found {
			continue
		}
		n, err := strconv.Atoi(suffix)
		if err != nil {
			continue
		}
		if n > maxSuffix {
			maxSuffix = n
		}
	}
	return fmt.Sprintf("TKT-%08d", maxSuffix+1), nil
}

// SeedIfAbsent writes the fixtures only when no ticket collection exists.
func (r *ticketRepository) SeedIfAbsent(ctx context.Context, tickets []domain.Ticket) error {
	_, ok, err := r.kv.Get(ctx, ticketsKey)
	if err != nil {
		return fmt.Errorf("check tickets: %w", err)
	}
	if ok {
		return nil
	}
	return r.write(ctx, tickets)
}

func (r *ticketRepository) write(ctx context.Context, tickets []domain.Ticket) error {
	raw, err := json.Marshal(tickets)
	if err != nil {
		return fmt.Errorf("encode tickets: %w", err)
	}
	if err := r.kv.Set(ctx, ticketsKey, raw); err != nil {
		return fmt.Errorf("store tickets: %w", err)
	}
	return nil
}
