package validation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/graham-fleming/lifehub/internal/models"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()

	// Custom validators for domain enums. Registration only fails for an
	// empty tag name, so a panic here means a programming error.
	for tag, fn := range map[string]validator.Func{
		"contact_status":  validateContactStatus,
		"meal_type":       validateMealType,
		"habit_frequency": validateHabitFrequency,
		"trip_status":     validateTripStatus,
		"task_status":     validateTaskStatus,
		"project_status":  validateProjectStatus,
		"saver_category":  validateSaverCategory,
	} {
		if err := Validate.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("failed to register %s validator: %v", tag, err))
		}
	}
}

func validateContactStatus(fl validator.FieldLevel) bool {
	return ValidateContactStatus(fl.Field().String()) == nil
}

func validateMealType(fl validator.FieldLevel) bool {
	return ValidateMealType(fl.Field().String()) == nil
}

func validateHabitFrequency(fl validator.FieldLevel) bool {
	return ValidateHabitFrequency(fl.Field().String()) == nil
}

func validateTripStatus(fl validator.FieldLevel) bool {
	return ValidateTripStatus(fl.Field().String()) == nil
}

func validateTaskStatus(fl validator.FieldLevel) bool {
	return ValidateTaskStatus(fl.Field().String()) == nil
}

func validateProjectStatus(fl validator.FieldLevel) bool {
	return ValidateProjectStatus(fl.Field().String()) == nil
}

func validateSaverCategory(fl validator.FieldLevel) bool {
	return models.ValidSaverCategory(models.SaverCategory(fl.Field().String()))
}

// SanitizeText trims whitespace and removes control characters except newline and tab
func SanitizeText(text string) string {
	text = strings.TrimSpace(text)

	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}

// ValidateContactStatus validates a ContactStatus string value
func ValidateContactStatus(value string) error {
	switch models.ContactStatus(value) {
	case models.ContactStatusLead, models.ContactStatusClient, models.ContactStatusPartner, models.ContactStatusArchived:
		return nil
	default:
		return fmt.Errorf("invalid status: %s (must be 'lead', 'client', 'partner', or 'archived')", value)
	}
}

// ValidateMealType validates a MealType string value
func ValidateMealType(value string) error {
	switch models.MealType(value) {
	case models.MealTypeBreakfast, models.MealTypeLunch, models.MealTypeDinner, models.MealTypeSnack:
		return nil
	default:
		return fmt.Errorf("invalid meal_type: %s (must be 'breakfast', 'lunch', 'dinner', or 'snack')", value)
	}
}

// ValidateHabitFrequency validates a HabitFrequency string value
func ValidateHabitFrequency(value string) error {
	switch models.HabitFrequency(value) {
	case models.HabitFrequencyDaily, models.HabitFrequencyWeekly:
		return nil
	default:
		return fmt.Errorf("invalid frequency: %s (must be 'daily' or 'weekly')", value)
	}
}

// ValidateTripStatus validates a TripStatus string value
func ValidateTripStatus(value string) error {
	switch models.TripStatus(value) {
	case models.TripStatusPlanning, models.TripStatusBooked, models.TripStatusCompleted:
		return nil
	default:
		return fmt.Errorf("invalid status: %s (must be 'planning', 'booked', or 'completed')", value)
	}
}

// ValidateTaskStatus validates a TaskStatus string value
func ValidateTaskStatus(value string) error {
	switch models.TaskStatus(value) {
	case models.TaskStatusOpen, models.TaskStatusDone:
		return nil
	default:
		return fmt.Errorf("invalid status: %s (must be 'open' or 'done')", value)
	}
}

// ValidateProjectStatus validates a ProjectStatus string value
func ValidateProjectStatus(value string) error {
	switch models.ProjectStatus(value) {
	case models.ProjectStatusActive, models.ProjectStatusOnHold, models.ProjectStatusComplete:
		return nil
	default:
		return fmt.Errorf("invalid status: %s (must be 'active', 'on_hold', or 'complete')", value)
	}
}

// ValidateSaverCategory validates a saver category, allowing the special "all" filter value when allowAll is set
func ValidateSaverCategory(value string, allowAll bool) error {
	if allowAll && value == "all" {
		return nil
	}
	if models.ValidSaverCategory(models.SaverCategory(value)) {
		return nil
	}
	return fmt.Errorf("invalid category: %s", value)
}
