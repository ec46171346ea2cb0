package services

import (
	"context"
	"sort"
	"time"

	"taskflow/internal/domain"
	"taskflow/internal/store"
	"taskflow/internal/timer"
)

// uncategorizedName labels tasks without a category in summaries
const uncategorizedName = "Uncategorized"

// reportingServiceImpl implements the ReportingService interface
type reportingServiceImpl struct {
	store store.Store
	now   Clock
}

// NewReportingService creates a new ReportingService instance
func NewReportingService(s store.Store, now Clock) ReportingService {
	if now == nil {
		now = time.Now
	}
	return &reportingServiceImpl{
		store: s,
		now:   now,
	}
}

// GetSummary counts tasks and tracked time, overall and per category.
// Running timers contribute their live elapsed time.
func (r *reportingServiceImpl) GetSummary(ctx context.Context) (*Summary, error) {
	tasks, err := r.store.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := r.store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	now := r.now()
	today := domain.StartOfDay(now, now.Location())
	tomorrow := today.AddDate(0, 0, 1)

	summary := &Summary{GeneratedAt: now}
	byCategory := make(map[string]*CategorySummary)
	for _, c := range categories {
		byCategory[c.ID] = &CategorySummary{CategoryID: c.ID, Name: c.Name}
	}

	for _, t := range tasks {
		summary.Total++
		tracked := timer.Elapsed(t, now)
		summary.TrackedSeconds += tracked
		if t.IsTimerActive {
			summary.ActiveTimers++
		}

		if t.Completed {
			summary.Completed++
		} else {
			summary.Open++
			if t.DueDate != nil {
				due := domain.StartOfDay(*t.DueDate, now.Location())
				if due.Before(today) {
					summary.Overdue++
				} else if due.Before(tomorrow) {
					summary.DueToday++
				}
			}
		}

		cs, ok := byCategory[t.CategoryID]
		if !ok {
			// dangling or empty category ids are reported together
			cs = byCategory[""]
			if cs == nil {
				cs = &CategorySummary{Name: uncategorizedName}
				byCategory[""] = cs
			}
		}
		cs.Tasks++
		cs.TrackedSeconds += tracked
		if t.Completed {
			cs.Completed++
		}
	}

	positions := make(map[string]int, len(categories))
	for _, c := range categories {
		positions[c.ID] = c.Position
	}
	for _, cs := range byCategory {
		summary.ByCategory = append(summary.ByCategory, *cs)
	}
	sort.Slice(summary.ByCategory, func(i, j int) bool {
		a, b := summary.ByCategory[i], summary.ByCategory[j]
		// uncategorized sorts last
		if (a.CategoryID == "") != (b.CategoryID == "") {
			return b.CategoryID == ""
		}
		return positions[a.CategoryID] < positions[b.CategoryID]
	})

	return summary, nil
}
