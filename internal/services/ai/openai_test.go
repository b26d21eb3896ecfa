package ai

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/graham-fleming/lifehub/internal/models"
)

func TestParseAndValidateClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		wantErr  bool
		validate func(*testing.T, *Classification)
	}{
		{
			name:    "valid classification",
			content: `{"title":"Buy groceries","summary":"Shopping list for the week","category":"task","tags":["shopping","errands","food"]}`,
			validate: func(t *testing.T, c *Classification) {
				if c.Title != "Buy groceries" {
					t.Errorf("Expected title 'Buy groceries', got %q", c.Title)
				}
				if c.Category != models.SaverCategoryTask {
					t.Errorf("Expected category task, got %s", c.Category)
				}
				if len(c.Tags) != 3 {
					t.Errorf("Expected 3 tags, got %d", len(c.Tags))
				}
			},
		},
		{
			name:    "json wrapped in prose",
			content: "Here is the classification:\n```json\n{\"title\":\"Note\",\"category\":\"note\",\"tags\":[\"a\",\"b\",\"c\"]}\n```\nDone.",
			validate: func(t *testing.T, c *Classification) {
				if c.Title != "Note" {
					t.Errorf("Expected title 'Note', got %q", c.Title)
				}
				if c.Category != models.SaverCategoryNote {
					t.Errorf("Expected category note, got %s", c.Category)
				}
			},
		},
		{
			name:    "unknown category rejected",
			content: `{"title":"Mystery","category":"spaceship","tags":["a","b","c"]}`,
			wantErr: true,
		},
		{
			name:    "missing category rejected",
			content: `{"title":"No category","tags":["a","b","c"]}`,
			wantErr: true,
		},
		{
			name:    "empty title becomes Untitled",
			content: `{"title":"   ","category":"idea","tags":["a","b","c"]}`,
			validate: func(t *testing.T, c *Classification) {
				if c.Title != "Untitled" {
					t.Errorf("Expected 'Untitled', got %q", c.Title)
				}
			},
		},
		{
			name:    "overlong title rejected",
			content: `{"title":"` + strings.Repeat("a", MaxTitleLength+1) + `","category":"note","tags":["a","b","c"]}`,
			wantErr: true,
		},
		{
			name:    "multibyte title counted in runes",
			content: `{"title":"` + strings.Repeat("é", MaxTitleLength) + `","category":"note","tags":["a","b","c"]}`,
			validate: func(t *testing.T, c *Classification) {
				if utf8.RuneCountInString(c.Title) != MaxTitleLength {
					t.Errorf("Expected %d-rune title, got %d runes", MaxTitleLength, utf8.RuneCountInString(c.Title))
				}
				if !utf8.ValidString(c.Title) {
					t.Error("Expected valid UTF-8 title")
				}
			},
		},
		{
			name:    "too many tags rejected",
			content: `{"title":"Tagged","category":"note","tags":["a","b","c","d","e","f","g"]}`,
			wantErr: true,
		},
		{
			name:    "too few tags rejected",
			content: `{"title":"Sparse","category":"note","tags":["a","b"]}`,
			wantErr: true,
		},
		{
			name:    "missing tags rejected",
			content: `{"title":"No tags","category":"note"}`,
			wantErr: true,
		},
		{
			name:    "metadata parsed",
			content: `{"title":"Call Sam","category":"person","tags":["call","sam","phone"],"metadata":{"content_type":"phone note","sentiment":"positive","urgency":"high","entities":["Sam"]}}`,
			validate: func(t *testing.T, c *Classification) {
				if c.Metadata.Urgency != "high" {
					t.Errorf("Expected urgency high, got %q", c.Metadata.Urgency)
				}
				if len(c.Metadata.Entities) != 1 || c.Metadata.Entities[0] != "Sam" {
					t.Errorf("Expected entities [Sam], got %v", c.Metadata.Entities)
				}
			},
		},
		{
			name:    "not json at all",
			content: "I could not classify that text.",
			wantErr: true,
		},
		{
			name:    "truncated json",
			content: `{"title":"Broken","category":`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, err := parseAndValidateClassification(tt.content)

			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error")
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			tt.validate(t, c)
		})
	}
}

func TestClassificationSchemaBounds(t *testing.T) {
	t.Parallel()

	props := classificationSchema["properties"].(map[string]any)

	title := props["title"].(map[string]any)
	if title["maxLength"] != MaxTitleLength {
		t.Errorf("Expected title maxLength %d, got %v", MaxTitleLength, title["maxLength"])
	}

	tags := props["tags"].(map[string]any)
	if tags["minItems"] != MinTags {
		t.Errorf("Expected tags minItems %d, got %v", MinTags, tags["minItems"])
	}
	if tags["maxItems"] != MaxTags {
		t.Errorf("Expected tags maxItems %d, got %v", MaxTags, tags["maxItems"])
	}
}
