package validation

import "taskflow/internal/domain"

const (
	categoryNameMinLength = 1
	categoryNameMaxLength = 50
)

// CategoryValidator provides validation for Category-related operations
type CategoryValidator struct {
	validator *Validator
}

// NewCategoryValidator creates a new category validator
func NewCategoryValidator() *CategoryValidator {
	return &CategoryValidator{
		validator: NewValidator(),
	}
}

// ValidateName validates a category name
func (cv *CategoryValidator) ValidateName(name string) error {
	validationError := NewValidationError()

	trimmed := cv.validator.TrimAndValidateString(name)
	if !cv.validator.IsNonEmptyString(trimmed) {
		validationError.AddRequiredError("name")
		return validationError
	}
	if !cv.validator.IsValidStringLength(trimmed, categoryNameMinLength, categoryNameMaxLength) {
		validationError.AddInvalidLengthError("name", trimmed, categoryNameMinLength, categoryNameMaxLength)
	}
	if cv.validator.HasControlCharacters(trimmed) {
		validationError.AddInvalidCharacterError("name", trimmed)
	}

	return validationError.OrNil()
}

// ValidateColor validates a #RRGGBB color
func (cv *CategoryValidator) ValidateColor(color string) error {
	if !cv.validator.IsValidHexColor(color) {
		validationError := NewValidationError()
		validationError.AddInvalidFormatError("color", color, "#RRGGBB")
		return validationError
	}
	return nil
}

// ValidateCategory validates a category before it is created
func (cv *CategoryValidator) ValidateCategory(c domain.Category) error {
	validationError := NewValidationError()

	validationError.Merge(cv.ValidateName(c.Name))
	validationError.Merge(cv.ValidateColor(c.Color))
	if !cv.validator.IsNonEmptyString(c.Icon) {
		validationError.AddRequiredError("icon")
	}

	return validationError.OrNil()
}

// ValidatePatch validates the fields a category patch sets
func (cv *CategoryValidator) ValidatePatch(p domain.CategoryPatch) error {
	validationError := NewValidationError()

	if p.Name != nil {
		validationError.Merge(cv.ValidateName(*p.Name))
	}
	if p.Color != nil {
		validationError.Merge(cv.ValidateColor(*p.Color))
	}
	if p.Icon != nil && !cv.validator.IsNonEmptyString(*p.Icon) {
		validationError.AddRequiredError("icon")
	}
	if p.Position != nil && *p.Position < 1 {
		validationError.AddOutOfRangeError("position", *p.Position, "must be at least 1")
	}

	return validationError.OrNil()
}
