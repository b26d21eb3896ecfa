package models

import (
	"testing"
)

func TestValidSaverCategory(t *testing.T) {
	t.Parallel()

	for _, c := range SaverCategories {
		if !ValidSaverCategory(c) {
			t.Errorf("Expected %s to be a valid category", c)
		}
	}

	invalid := []SaverCategory{"", "all", "spaceship", "Note", "TASK"}
	for _, c := range invalid {
		if ValidSaverCategory(c) {
			t.Errorf("Expected %q to be invalid", c)
		}
	}
}

func TestSaverCategoriesCoverTaxonomy(t *testing.T) {
	t.Parallel()

	if len(SaverCategories) != 9 {
		t.Errorf("Expected 9 categories in the taxonomy, got %d", len(SaverCategories))
	}

	seen := make(map[SaverCategory]bool)
	for _, c := range SaverCategories {
		if seen[c] {
			t.Errorf("Duplicate category %s", c)
		}
		seen[c] = true
	}
	if !seen[SaverCategoryGeneral] {
		t.Error("Expected the general fallback category to be part of the taxonomy")
	}
}
