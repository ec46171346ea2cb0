package services

import (
	"context"
	"testing"

	"taskflow/internal/domain"
	"taskflow/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryService_CreateCategory(t *testing.T) {
	tests := []struct {
		name           string
		catName        string
		color          string
		icon           string
		errorAssertion func(t *testing.T, err error)
	}{
		{name: "should create with defaults", catName: "Work"},
		{name: "should create with color and icon", catName: "Home", color: "#10B981", icon: "Home"},
		{
			name:    "should reject empty name",
			catName: "  ",
			errorAssertion: func(t *testing.T, err error) {
				assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
				assert.Contains(t, err.Error(), "name")
			},
		},
		{
			name:    "should reject bad color",
			catName: "Work",
			color:   "blue",
			errorAssertion: func(t *testing.T, err error) {
				assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
				assert.Contains(t, err.Error(), "color")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewCategoryService(setupStore(t))

			result, err := service.CreateCategory(context.Background(), tt.catName, tt.color, tt.icon)

			if tt.errorAssertion != nil {
				require.Error(t, err)
				tt.errorAssertion(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.catName, result.Name)
			if tt.color == "" {
				assert.Equal(t, domain.DefaultCategoryColor, result.Color)
			} else {
				assert.Equal(t, tt.color, result.Color)
			}
			if tt.icon == "" {
				assert.Equal(t, domain.DefaultCategoryIcon, result.Icon)
			}
			assert.Equal(t, 1, result.Position)
		})
	}
}

func TestCategoryService_ListAndFind(t *testing.T) {
	s := setupStore(t)
	service := NewCategoryService(s)
	ctx := context.Background()

	work, err := service.CreateCategory(ctx, "Work", "", "")
	require.NoError(t, err)
	home, err := service.CreateCategory(ctx, "Home", "", "")
	require.NoError(t, err)

	_, err = s.Create(ctx, &domain.Task{Title: "a", CategoryID: work.ID})
	require.NoError(t, err)

	list, err := service.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Work", list[0].Name)
	assert.Equal(t, 1, list[0].TaskCount)
	assert.Equal(t, 2, list[1].Position)

	found, err := service.FindCategory(ctx, "home")
	require.NoError(t, err)
	assert.Equal(t, home.ID, found.ID)

	found, err = service.FindCategory(ctx, work.ID)
	require.NoError(t, err)
	assert.Equal(t, work.ID, found.ID)

	_, err = service.FindCategory(ctx, "garden")
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
}

func TestCategoryService_UpdateCategory(t *testing.T) {
	service := NewCategoryService(setupStore(t))
	ctx := context.Background()

	c, err := service.CreateCategory(ctx, "Work", "", "")
	require.NoError(t, err)

	updated, err := service.UpdateCategory(ctx, c.ID, domain.CategoryPatch{Name: strPtr(" Office ")})
	require.NoError(t, err)
	assert.Equal(t, "Office", updated.Name)

	_, err = service.UpdateCategory(ctx, c.ID, domain.CategoryPatch{Color: strPtr("red")})
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
}

func TestCategoryService_DeleteCategory(t *testing.T) {
	s := setupStore(t)
	service := NewCategoryService(s)
	ctx := context.Background()

	c, err := service.CreateCategory(ctx, "Work", "", "")
	require.NoError(t, err)
	task, err := s.Create(ctx, &domain.Task{Title: "a", CategoryID: c.ID})
	require.NoError(t, err)

	err = service.DeleteCategory(ctx, c.ID)
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
	assert.Contains(t, err.Error(), "still has 1 task")

	require.NoError(t, s.Delete(ctx, task.ID))
	require.NoError(t, service.DeleteCategory(ctx, c.ID))

	_, err = service.GetCategory(ctx, c.ID)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
}
