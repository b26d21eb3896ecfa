package validation

import (
	"testing"
)

func TestSanitizeText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "trims whitespace", input: "  hello  ", want: "hello"},
		{name: "keeps newlines and tabs", input: "line one\n\tindented", want: "line one\n\tindented"},
		{name: "strips control characters", input: "ab\x00c\x1bd", want: "abcd"},
		{name: "empty after trim", input: "   ", want: ""},
		{name: "unicode preserved", input: "café ☕", want: "café ☕"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := SanitizeText(tt.input); got != tt.want {
				t.Errorf("SanitizeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestEnumValidators(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		validate func(string) error
		valid    []string
		invalid  []string
	}{
		{
			name:     "contact status",
			validate: ValidateContactStatus,
			valid:    []string{"lead", "client", "partner", "archived"},
			invalid:  []string{"", "prospect", "LEAD"},
		},
		{
			name:     "meal type",
			validate: ValidateMealType,
			valid:    []string{"breakfast", "lunch", "dinner", "snack"},
			invalid:  []string{"", "brunch"},
		},
		{
			name:     "habit frequency",
			validate: ValidateHabitFrequency,
			valid:    []string{"daily", "weekly"},
			invalid:  []string{"", "monthly"},
		},
		{
			name:     "trip status",
			validate: ValidateTripStatus,
			valid:    []string{"planning", "booked", "completed"},
			invalid:  []string{"", "cancelled"},
		},
		{
			name:     "task status",
			validate: ValidateTaskStatus,
			valid:    []string{"open", "done"},
			invalid:  []string{"", "pending"},
		},
		{
			name:     "project status",
			validate: ValidateProjectStatus,
			valid:    []string{"active", "on_hold", "complete"},
			invalid:  []string{"", "paused"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			for _, v := range tt.valid {
				if err := tt.validate(v); err != nil {
					t.Errorf("Expected %q to be valid, got %v", v, err)
				}
			}
			for _, v := range tt.invalid {
				if err := tt.validate(v); err == nil {
					t.Errorf("Expected %q to be invalid", v)
				}
			}
		})
	}
}

func TestValidateSaverCategory(t *testing.T) {
	t.Parallel()

	for _, v := range []string{"person", "task", "note", "link", "idea", "meeting", "project", "reference", "general"} {
		if err := ValidateSaverCategory(v, false); err != nil {
			t.Errorf("Expected %q to be valid, got %v", v, err)
		}
	}

	if err := ValidateSaverCategory("all", false); err == nil {
		t.Error("Expected 'all' to be invalid when allowAll is false")
	}
	if err := ValidateSaverCategory("all", true); err != nil {
		t.Errorf("Expected 'all' to be valid when allowAll is true, got %v", err)
	}
	if err := ValidateSaverCategory("spaceship", true); err == nil {
		t.Error("Expected unknown category to be invalid")
	}
}

func TestStructValidationTags(t *testing.T) {
	t.Parallel()

	type form struct {
		Status string `validate:"omitempty,contact_status"`
	}

	if err := Validate.Struct(&form{Status: "client"}); err != nil {
		t.Errorf("Expected 'client' to pass, got %v", err)
	}
	if err := Validate.Struct(&form{Status: ""}); err != nil {
		t.Errorf("Expected empty optional status to pass, got %v", err)
	}
	if err := Validate.Struct(&form{Status: "bogus"}); err == nil {
		t.Error("Expected 'bogus' to fail validation")
	}
}
