package domain

// SLARules maps a priority to its resolution budget in minutes. Read-only
// after initialization; reseeded on every startup.
type SLARules map[TicketPriority]int

// Budget returns the minute budget for the priority, with ok=false for
// priorities outside the table.
func (r SLARules) Budget(priority TicketPriority) (int, bool) {
	minutes, ok := r[priority]
	return minutes, ok
}

// Categories maps a category name to its ordered subcategory names.
type Categories map[string][]string

// KBEntry is one static knowledge-base article used for search suggestions.
type KBEntry struct {
	Title    string   `json:"title"`
	Category string   `json:"category"`
	Keywords []string `json:"keywords"`
}

// AssignmentGroups maps a group name to its ordered member roster.
type AssignmentGroups map[AssignmentGroup][]string

// Members returns the roster for the group, preserving roster order.
func (g AssignmentGroups) Members(group AssignmentGroup) []string {
	return g[group]
}

// Contains reports whether userID is on the group's roster.
func (g AssignmentGroups) Contains(group AssignmentGroup, userID string) bool {
	for _, member := range g[group] {
		if member == userID {
			return true
		}
	}
	return false
}
