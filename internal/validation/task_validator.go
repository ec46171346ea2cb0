package validation

import (
	"taskflow/internal/config"
	"taskflow/internal/domain"
)

const maxDescriptionLength = 2000

// TaskValidator provides validation for Task-related operations
type TaskValidator struct {
	validator *Validator
}

// NewTaskValidator creates a new task validator
func NewTaskValidator() *TaskValidator {
	return &TaskValidator{
		validator: NewValidator(),
	}
}

// NewTaskValidatorWithConfig creates a task validator using configured limits
func NewTaskValidatorWithConfig(cfg *config.Config) *TaskValidator {
	return &TaskValidator{
		validator: NewValidatorWithConfig(cfg),
	}
}

// ValidateTitle validates a task title for creation or update
func (tv *TaskValidator) ValidateTitle(title string) error {
	validationError := NewValidationError()

	trimmed := tv.validator.TrimAndValidateString(title)

	if !tv.validator.IsNonEmptyString(trimmed) {
		validationError.AddRequiredError("title")
		return validationError
	}

	if !tv.validator.IsValidTitleLength(trimmed) {
		validationError.AddInvalidLengthError("title", trimmed,
			tv.validator.getTitleMinLength(), tv.validator.getTitleMaxLength())
	}

	if tv.validator.HasControlCharacters(trimmed) {
		validationError.AddInvalidCharacterError("title", trimmed)
	}

	return validationError.OrNil()
}

// ValidateDescription validates the free-form description
func (tv *TaskValidator) ValidateDescription(description string) error {
	if !tv.validator.IsValidStringLength(description, 0, maxDescriptionLength) {
		validationError := NewValidationError()
		validationError.AddInvalidLengthError("description", description, 0, maxDescriptionLength)
		return validationError
	}
	return nil
}

// ValidatePriority validates a task priority
func (tv *TaskValidator) ValidatePriority(p domain.Priority) error {
	if !tv.validator.IsValidPriority(p) {
		validationError := NewValidationError()
		validationError.AddInvalidValueError("priority", p, "must be low, medium, high or urgent")
		return validationError
	}
	return nil
}

// ValidateTask validates a domain.Task before it is created
func (tv *TaskValidator) ValidateTask(task domain.Task) error {
	validationError := NewValidationError()

	validationError.Merge(tv.ValidateTitle(task.Title))
	validationError.Merge(tv.ValidateDescription(task.Description))
	validationError.Merge(tv.ValidatePriority(task.Priority))

	if task.DueDate != nil && !tv.validator.IsReasonableDate(*task.DueDate) {
		validationError.AddOutOfRangeError("due_date", *task.DueDate, "must be within ten years of today")
	}

	if task.IsTimerActive || task.TimerTotalTime != 0 || task.TimerStartTime != nil {
		validationError.AddInvalidValueError("timer", task.TimerTotalTime, "timer fields are managed by timer commands")
	}

	return validationError.OrNil()
}

// ValidatePatch validates the user-editable fields a patch sets. Timer
// fields may not be edited directly.
func (tv *TaskValidator) ValidatePatch(patch domain.TaskPatch) error {
	validationError := NewValidationError()

	if patch.IsEmpty() {
		validationError.AddInvalidValueError("patch", nil, "nothing to update")
		return validationError
	}
	if patch.Title != nil {
		validationError.Merge(tv.ValidateTitle(*patch.Title))
	}
	if patch.Description != nil {
		validationError.Merge(tv.ValidateDescription(*patch.Description))
	}
	if patch.Priority != nil {
		validationError.Merge(tv.ValidatePriority(*patch.Priority))
	}
	if patch.DueDate.Set && patch.DueDate.Time != nil && !tv.validator.IsReasonableDate(*patch.DueDate.Time) {
		validationError.AddOutOfRangeError("due_date", *patch.DueDate.Time, "must be within ten years of today")
	}
	if patch.TouchesTimer() {
		validationError.AddInvalidValueError("timer", nil, "timer fields are managed by timer commands")
	}

	return validationError.OrNil()
}

// ValidateTaskID validates a task ID
func (tv *TaskValidator) ValidateTaskID(id string) error {
	if !tv.validator.IsValidID(id) {
		validationError := NewValidationError()
		validationError.AddInvalidValueError("task_id", id, "must be a non-empty identifier")
		return validationError
	}
	return nil
}

// GetValidTitle returns a cleaned task title if valid
func (tv *TaskValidator) GetValidTitle(title string) (string, error) {
	if err := tv.ValidateTitle(title); err != nil {
		return "", err
	}
	return tv.validator.TrimAndValidateString(title), nil
}
