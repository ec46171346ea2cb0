package domain

import "strings"

// SortOrder names an ordering for task listings.
type SortOrder string

const (
	SortPriority SortOrder = "priority"
	SortDue      SortOrder = "due"
	SortTitle    SortOrder = "title"
	SortCreated  SortOrder = "created"
)

// ParseSortOrder converts user input into a SortOrder. An empty string
// yields SortPriority.
func ParseSortOrder(s string) (SortOrder, bool) {
	switch SortOrder(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortPriority:
		return SortPriority, true
	case SortDue:
		return SortDue, true
	case SortTitle:
		return SortTitle, true
	case SortCreated:
		return SortCreated, true
	}
	return "", false
}

// SearchOptions represents search criteria for tasks.
// Empty fields do not filter.
type SearchOptions struct {
	Text             string
	CategoryID       string
	View             View
	IncludeCompleted bool
	Sort             SortOrder
}

// MatchesText reports whether the title or description contains the
// search text, case-insensitively.
func (o SearchOptions) MatchesText(t Task) bool {
	q := strings.ToLower(strings.TrimSpace(o.Text))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.Title), q) ||
		strings.Contains(strings.ToLower(t.Description), q)
}
