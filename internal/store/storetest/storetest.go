// Package storetest holds the behavior every store backing must share.
package storetest

import (
	"context"
	"testing"
	"time"

	"taskflow/internal/domain"
	"taskflow/internal/errors"
	"taskflow/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory opens a fresh, empty store for one test.
type Factory func(t *testing.T) store.Store

// Run exercises the store contract against the backing built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("create assigns id and defaults", func(t *testing.T) { testCreate(t, newStore(t)) })
	t.Run("get by id returns nil for unknown", func(t *testing.T) { testGetMissing(t, newStore(t)) })
	t.Run("update applies only set fields", func(t *testing.T) { testUpdate(t, newStore(t)) })
	t.Run("update missing is not found", func(t *testing.T) { testUpdateMissing(t, newStore(t)) })
	t.Run("timer fields round trip", func(t *testing.T) { testTimerFields(t, newStore(t)) })
	t.Run("delete", func(t *testing.T) { testDelete(t, newStore(t)) })
	t.Run("get all is ordered by creation", func(t *testing.T) { testGetAll(t, newStore(t)) })
	t.Run("get by view", func(t *testing.T) { testGetByView(t, newStore(t)) })
	t.Run("categories", func(t *testing.T) { testCategories(t, newStore(t)) })
	t.Run("category positions stay unique after delete", func(t *testing.T) { testCategoryPositions(t, newStore(t)) })
	t.Run("resolve id prefix", func(t *testing.T) { testResolveID(t, newStore(t)) })
}

func testCreate(t *testing.T, s store.Store) {
	ctx := context.Background()

	created, err := s.Create(ctx, &domain.Task{Title: "Write report"})
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, domain.PriorityMedium, created.Priority)
	assert.False(t, created.CreatedAt.IsZero())
	assert.False(t, created.IsTimerActive)
	assert.Zero(t, created.TimerTotalTime)

	got, err := s.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Write report", got.Title)
}

func testGetMissing(t *testing.T, s store.Store) {
	got, err := s.GetByID(context.Background(), "0190a7b2-0000-7000-8000-000000000000")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func testUpdate(t *testing.T, s store.Store) {
	ctx := context.Background()
	due := time.Date(2026, 5, 1, 0, 0, 0, 0, time.Local)

	created, err := s.Create(ctx, &domain.Task{Title: "Old", Description: "keep", DueDate: &due})
	require.NoError(t, err)

	title := "New"
	done := true
	updated, err := s.Update(ctx, created.ID, domain.TaskPatch{Title: &title, Completed: &done})
	require.NoError(t, err)

	assert.Equal(t, "New", updated.Title)
	assert.Equal(t, "keep", updated.Description)
	require.NotNil(t, updated.DueDate)
	assert.True(t, due.Equal(*updated.DueDate))
	assert.True(t, updated.Completed)
	assert.NotNil(t, updated.CompletedAt)

	updated, err = s.Update(ctx, created.ID, domain.TaskPatch{DueDate: domain.ClearTime()})
	require.NoError(t, err)
	assert.Nil(t, updated.DueDate)

	got, err := s.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", got.Title)
	assert.Nil(t, got.DueDate)
}

func testUpdateMissing(t *testing.T, s store.Store) {
	title := "x"
	_, err := s.Update(context.Background(), "0190a7b2-0000-7000-8000-000000000000", domain.TaskPatch{Title: &title})
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
}

func testTimerFields(t *testing.T, s store.Store) {
	ctx := context.Background()
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	last := start.Add(20 * time.Minute)

	created, err := s.Create(ctx, &domain.Task{Title: "Focus"})
	require.NoError(t, err)

	active := true
	total := int64(125)
	updated, err := s.Update(ctx, created.ID, domain.TaskPatch{
		IsTimerActive:      &active,
		TimerStartTime:     domain.SetTime(start),
		TimerLastStartTime: domain.SetTime(last),
		TimerTotalTime:     &total,
	})
	require.NoError(t, err)
	assert.True(t, updated.IsTimerActive)

	got, err := s.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, got.IsTimerActive)
	require.NotNil(t, got.TimerStartTime)
	require.NotNil(t, got.TimerLastStartTime)
	assert.True(t, start.Equal(*got.TimerStartTime))
	assert.True(t, last.Equal(*got.TimerLastStartTime))
	assert.Equal(t, int64(125), got.TimerTotalTime)
	assert.Nil(t, got.TimerCompletedAt)

	inactive := false
	stopped := last.Add(time.Minute)
	got, err = s.Update(ctx, created.ID, domain.TaskPatch{
		IsTimerActive:      &inactive,
		TimerStartTime:     domain.ClearTime(),
		TimerLastStartTime: domain.ClearTime(),
		TimerCompletedAt:   domain.SetTime(stopped),
	})
	require.NoError(t, err)
	assert.False(t, got.IsTimerActive)
	assert.Nil(t, got.TimerStartTime)
	assert.Nil(t, got.TimerLastStartTime)
	require.NotNil(t, got.TimerCompletedAt)
	assert.True(t, stopped.Equal(*got.TimerCompletedAt))
}

func testDelete(t *testing.T, s store.Store) {
	ctx := context.Background()

	created, err := s.Create(ctx, &domain.Task{Title: "Temp"})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, created.ID))

	got, err := s.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	err = s.Delete(ctx, created.ID)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
}

func testGetAll(t *testing.T, s store.Store) {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	for i, title := range []string{"first", "second", "third"} {
		_, err := s.Create(ctx, &domain.Task{Title: title, CreatedAt: base.Add(time.Duration(i) * time.Minute)})
		require.NoError(t, err)
	}

	tasks, err := s.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "first", tasks[0].Title)
	assert.Equal(t, "third", tasks[2].Title)
}

func testGetByView(t *testing.T, s store.Store) {
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.Local)
	today := time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local)
	tomorrow := today.AddDate(0, 0, 1)

	mustCreate := func(task domain.Task) {
		_, err := s.Create(ctx, &task)
		require.NoError(t, err)
	}
	mustCreate(domain.Task{Title: "due today", DueDate: &today})
	mustCreate(domain.Task{Title: "undated"})
	mustCreate(domain.Task{Title: "undated done", Completed: true})
	mustCreate(domain.Task{Title: "tomorrow", DueDate: &tomorrow})

	todayTasks, err := s.GetByView(ctx, domain.ViewToday, now)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"due today", "undated"}, titles(todayTasks))

	upcoming, err := s.GetByView(ctx, domain.ViewUpcoming, now)
	require.NoError(t, err)
	assert.Equal(t, []string{"tomorrow"}, titles(upcoming))

	all, err := s.GetByView(ctx, domain.ViewAll, now)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func testCategories(t *testing.T, s store.Store) {
	ctx := context.Background()

	work, err := s.CreateCategory(ctx, &domain.Category{Name: "Work"})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCategoryColor, work.Color)
	assert.Equal(t, domain.DefaultCategoryIcon, work.Icon)
	assert.Equal(t, 1, work.Position)

	home, err := s.CreateCategory(ctx, &domain.Category{Name: "Home", Color: "#10B981", Icon: "Home"})
	require.NoError(t, err)
	assert.Equal(t, 2, home.Position)

	_, err = s.Create(ctx, &domain.Task{Title: "Report", CategoryID: work.ID})
	require.NoError(t, err)

	list, err := s.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Work", list[0].Name)
	assert.Equal(t, 1, list[0].TaskCount)
	assert.Equal(t, 0, list[1].TaskCount)

	name := "Household"
	renamed, err := s.UpdateCategory(ctx, home.ID, domain.CategoryPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Household", renamed.Name)
	assert.Equal(t, "#10B981", renamed.Color)

	got, err := s.GetCategory(ctx, home.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Household", got.Name)

	require.NoError(t, s.DeleteCategory(ctx, home.ID))
	got, err = s.GetCategory(ctx, home.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	err = s.DeleteCategory(ctx, home.ID)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))

	_, err = s.UpdateCategory(ctx, home.ID, domain.CategoryPatch{Name: &name})
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
}

func testCategoryPositions(t *testing.T, s store.Store) {
	ctx := context.Background()

	var created []*domain.Category
	for _, name := range []string{"Work", "Home", "Errands"} {
		c, err := s.CreateCategory(ctx, &domain.Category{Name: name})
		require.NoError(t, err)
		created = append(created, c)
	}
	require.NoError(t, s.DeleteCategory(ctx, created[0].ID))

	hobby, err := s.CreateCategory(ctx, &domain.Category{Name: "Hobby"})
	require.NoError(t, err)
	assert.Equal(t, 4, hobby.Position)

	list, err := s.ListCategories(ctx)
	require.NoError(t, err)
	names := make([]string, 0, len(list))
	for _, c := range list {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Home", "Errands", "Hobby"}, names)
}

func testResolveID(t *testing.T, s store.Store) {
	ctx := context.Background()

	a, err := s.Create(ctx, &domain.Task{ID: "aaaa1111-0000-7000-8000-000000000001", Title: "a"})
	require.NoError(t, err)
	_, err = s.Create(ctx, &domain.Task{ID: "aaaa2222-0000-7000-8000-000000000002", Title: "b"})
	require.NoError(t, err)

	id, err := store.ResolveID(ctx, s, "aaaa1")
	require.NoError(t, err)
	assert.Equal(t, a.ID, id)

	id, err = store.ResolveID(ctx, s, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, id)

	_, err = store.ResolveID(ctx, s, "aaaa")
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidInput), "ambiguous prefix")

	_, err = store.ResolveID(ctx, s, "abc")
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidInput), "short prefix")

	_, err = store.ResolveID(ctx, s, "ffff")
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
}

func titles(tasks []domain.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Title
	}
	return out
}
