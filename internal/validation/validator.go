package validation

import (
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"taskflow/internal/config"
	"taskflow/internal/domain"
)

var hexColorRegex = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Validator provides common validation utilities
type Validator struct {
	config *config.Config
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{
		config: nil, // Use defaults
	}
}

// NewValidatorWithConfig creates a new validator instance with configuration
func NewValidatorWithConfig(cfg *config.Config) *Validator {
	return &Validator{
		config: cfg,
	}
}

// IsNonEmptyString checks if a string is not empty after trimming whitespace
func (v *Validator) IsNonEmptyString(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsValidStringLength checks if the trimmed string has between min and max
// characters, counted in runes.
func (v *Validator) IsValidStringLength(s string, min, max int) bool {
	length := utf8.RuneCountInString(strings.TrimSpace(s))
	return length >= min && length <= max
}

// IsValidTitleLength checks if a task title length is within configured limits
func (v *Validator) IsValidTitleLength(title string) bool {
	return v.IsValidStringLength(title, v.getTitleMinLength(), v.getTitleMaxLength())
}

// HasControlCharacters reports whether s contains newlines, tabs or other
// control characters.
func (v *Validator) HasControlCharacters(s string) bool {
	for _, r := range s {
		if unicode.IsControl(r) {
			return true
		}
	}
	return false
}

// IsValidPriority checks the priority against the known set
func (v *Validator) IsValidPriority(p domain.Priority) bool {
	for _, known := range domain.Priorities {
		if p == known {
			return true
		}
	}
	return false
}

// IsValidHexColor checks for a #RRGGBB color
func (v *Validator) IsValidHexColor(color string) bool {
	return hexColorRegex.MatchString(color)
}

// IsValidID checks that an identifier is present and has no whitespace
func (v *Validator) IsValidID(id string) bool {
	return id != "" && strings.TrimSpace(id) == id && !strings.ContainsAny(id, " \t\n")
}

// IsReasonableDate checks if a date is within reasonable bounds
func (v *Validator) IsReasonableDate(t time.Time) bool {
	now := time.Now()
	// Allow due dates from 10 years ago to 10 years ahead
	tenYearsAgo := now.AddDate(-10, 0, 0)
	tenYearsAhead := now.AddDate(10, 0, 0)

	return t.After(tenYearsAgo) && t.Before(tenYearsAhead)
}

// TrimAndValidateString trims whitespace and returns the cleaned string
func (v *Validator) TrimAndValidateString(s string) string {
	return strings.TrimSpace(s)
}

// getTitleMinLength returns configured minimum title length or default
func (v *Validator) getTitleMinLength() int {
	if v.config != nil {
		return v.config.Validation.TitleMinLength
	}
	return 1 // Default minimum
}

// getTitleMaxLength returns configured maximum title length or default
func (v *Validator) getTitleMaxLength() int {
	if v.config != nil {
		return v.config.Validation.TitleMaxLength
	}
	return 255 // Default maximum
}
