package models

import (
	"time"

	"github.com/google/uuid"
)

// SaverCategory is the fixed taxonomy the classifier must choose from
type SaverCategory string

const (
	SaverCategoryPerson    SaverCategory = "person"
	SaverCategoryTask      SaverCategory = "task"
	SaverCategoryNote      SaverCategory = "note"
	SaverCategoryLink      SaverCategory = "link"
	SaverCategoryIdea      SaverCategory = "idea"
	SaverCategoryMeeting   SaverCategory = "meeting"
	SaverCategoryProject   SaverCategory = "project"
	SaverCategoryReference SaverCategory = "reference"
	SaverCategoryGeneral   SaverCategory = "general"
)

// SaverCategories lists every valid category, in taxonomy order
var SaverCategories = []SaverCategory{
	SaverCategoryPerson,
	SaverCategoryTask,
	SaverCategoryNote,
	SaverCategoryLink,
	SaverCategoryIdea,
	SaverCategoryMeeting,
	SaverCategoryProject,
	SaverCategoryReference,
	SaverCategoryGeneral,
}

// ValidSaverCategory reports whether c is one of the fixed categories
func ValidSaverCategory(c SaverCategory) bool {
	for _, v := range SaverCategories {
		if c == v {
			return true
		}
	}
	return false
}

// SavedItemMetadata is the structured metadata the classifier produces
type SavedItemMetadata struct {
	ContentType string   `json:"content_type,omitempty"`
	Sentiment   string   `json:"sentiment,omitempty"` // positive, neutral, negative
	Urgency     string   `json:"urgency,omitempty"`   // high, medium, low
	Entities    []string `json:"entities,omitempty"`
}

// SavedItem is a classified, embedded piece of free-form text.
// Immutable after creation; there is no update path, only delete.
type SavedItem struct {
	ID         uuid.UUID         `json:"id"`
	UserID     uuid.UUID         `json:"user_id"`
	RawText    string            `json:"raw_text"`
	Title      string            `json:"title"`
	Summary    string            `json:"summary"`
	Category   SaverCategory     `json:"category"`
	Tags       []string          `json:"tags"`
	Metadata   SavedItemMetadata `json:"metadata"`
	Similarity float64           `json:"similarity,omitempty"` // populated by similarity search only
	CreatedAt  time.Time         `json:"created_at"`
}
