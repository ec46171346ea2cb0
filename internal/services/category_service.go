package services

import (
	"context"
	"fmt"
	"strings"

	"taskflow/internal/domain"
	"taskflow/internal/errors"
	"taskflow/internal/store"
	"taskflow/internal/validation"
)

// categoryServiceImpl implements the CategoryService interface
type categoryServiceImpl struct {
	store             store.Store
	categoryValidator *validation.CategoryValidator
}

// NewCategoryService creates a new CategoryService instance
func NewCategoryService(s store.Store) CategoryService {
	return &categoryServiceImpl{
		store:             s,
		categoryValidator: validation.NewCategoryValidator(),
	}
}

// CreateCategory validates and stores a category. Empty color and icon take
// the defaults.
func (c *categoryServiceImpl) CreateCategory(ctx context.Context, name, color, icon string) (*domain.Category, error) {
	category := domain.NewCategory(strings.TrimSpace(name))
	if color != "" {
		category.Color = color
	}
	if icon != "" {
		category.Icon = icon
	}

	if err := c.categoryValidator.ValidateCategory(category); err != nil {
		return nil, errors.NewValidationError("invalid category", err)
	}
	return c.store.CreateCategory(ctx, &category)
}

// ListCategories returns categories in position order with task counts
func (c *categoryServiceImpl) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return c.store.ListCategories(ctx)
}

// GetCategory retrieves a category by ID
func (c *categoryServiceImpl) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	category, err := c.store.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, errors.NewNotFoundError("category", id)
	}
	return category, nil
}

// FindCategory looks a category up by exact id, then by case-insensitive
// name.
func (c *categoryServiceImpl) FindCategory(ctx context.Context, idOrName string) (*domain.Category, error) {
	idOrName = strings.TrimSpace(idOrName)
	if idOrName == "" {
		return nil, errors.NewInvalidInputError("category", idOrName, "category cannot be empty")
	}

	category, err := c.store.GetCategory(ctx, idOrName)
	if err != nil {
		return nil, err
	}
	if category != nil {
		return category, nil
	}

	categories, err := c.store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	var found *domain.Category
	for i := range categories {
		if !strings.EqualFold(categories[i].Name, idOrName) {
			continue
		}
		if found != nil {
			return nil, errors.NewInvalidInputError("category", idOrName, "more than one category has this name")
		}
		found = &categories[i]
	}
	if found == nil {
		return nil, errors.NewNotFoundError("category", idOrName)
	}
	return found, nil
}

// UpdateCategory applies a validated patch
func (c *categoryServiceImpl) UpdateCategory(ctx context.Context, id string, patch domain.CategoryPatch) (*domain.Category, error) {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		patch.Name = &name
	}
	if err := c.categoryValidator.ValidatePatch(patch); err != nil {
		return nil, errors.NewValidationError("invalid category update", err)
	}
	return c.store.UpdateCategory(ctx, id, patch)
}

// DeleteCategory removes a category that no task references
func (c *categoryServiceImpl) DeleteCategory(ctx context.Context, id string) error {
	category, err := c.GetCategory(ctx, id)
	if err != nil {
		return err
	}

	tasks, err := c.store.GetAll(ctx)
	if err != nil {
		return err
	}
	inUse := 0
	for _, t := range tasks {
		if t.CategoryID == id {
			inUse++
		}
	}
	if inUse > 0 {
		return errors.NewValidationError(fmt.Sprintf("category %q still has %d task(s)", category.Name, inUse), nil)
	}

	return c.store.DeleteCategory(ctx, id)
}
