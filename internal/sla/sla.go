// Package sla derives elapsed time, percent-of-budget, and breach state from
// a ticket's creation time, its fixed minute budget, and (when finalized) its
// resolution time.
package sla

import (
	"math"
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// Report is the outcome of evaluating one ticket against its budget.
type Report struct {
	ElapsedMinutes int  `json:"elapsedMinutes"`
	BudgetMinutes  int  `json:"slaMinutes"`
	Percent        int  `json:"slaPercent"`
	OnTarget       bool `json:"onTarget"`
}

// Calculator evaluates tickets. Now is injectable so open-ticket evaluations
// are deterministic under test; resolved and closed tickets never consult the
// clock.
type Calculator struct {
	Now func() time.Time
}

// NewCalculator builds a wall-clock calculator.
func NewCalculator() *Calculator {
	return &Calculator{Now: time.Now}
}

// Evaluate computes the SLA report for a ticket. Elapsed minutes are floored;
// the percent is rounded; on-target is judged on the unrounded ratio, so a
// ticket resolved exactly at its budget still counts as on target.
func (c *Calculator) Evaluate(ticket domain.Ticket) Report {
	end := c.now()
	if ticket.ResolutionTime != nil {
		end = *ticket.ResolutionTime
	}

	elapsed := int(math.Floor(end.Sub(ticket.CreatedAt).Minutes()))
	budget := ticket.SLAMinutes

	percent := 0
	onTarget := true
	if budget > 0 {
		percent = int(math.Round(float64(elapsed) / float64(budget) * 100))
		onTarget = elapsed <= budget
	}

	return Report{
		ElapsedMinutes: elapsed,
		BudgetMinutes:  budget,
		Percent:        percent,
		OnTarget:       onTarget,
	}
}

func (c *Calculator) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}
