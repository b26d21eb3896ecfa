package demo

import (
	"testing"

	"github.com/google/uuid"

	"github.com/graham-fleming/lifehub/internal/models"
)

func TestFixturesOwnedByGuestUser(t *testing.T) {
	t.Parallel()

	for _, c := range Contacts() {
		if c.UserID != GuestUserID {
			t.Errorf("Contact %s owned by %s, want guest user", c.Name, c.UserID)
		}
	}
	for _, tx := range Transactions() {
		if tx.UserID != GuestUserID {
			t.Errorf("Transaction %q owned by %s, want guest user", tx.Description, tx.UserID)
		}
	}
	for _, b := range Budgets() {
		if b.UserID != GuestUserID {
			t.Errorf("Budget %s owned by %s, want guest user", b.Category, b.UserID)
		}
	}
	for _, w := range Workouts() {
		if w.UserID != GuestUserID {
			t.Errorf("Workout %q owned by %s, want guest user", w.Name, w.UserID)
		}
	}
	for _, m := range Meals() {
		if m.UserID != GuestUserID {
			t.Errorf("Meal %q owned by %s, want guest user", m.Name, m.UserID)
		}
	}
	for _, h := range Habits() {
		if h.UserID != GuestUserID {
			t.Errorf("Habit %q owned by %s, want guest user", h.Name, h.UserID)
		}
	}
	for _, m := range Moods() {
		if m.UserID != GuestUserID {
			t.Errorf("Mood entry %s owned by %s, want guest user", m.EntryDate, m.UserID)
		}
	}
	for _, tr := range Trips() {
		if tr.UserID != GuestUserID {
			t.Errorf("Trip %q owned by %s, want guest user", tr.Destination, tr.UserID)
		}
	}
	for _, task := range Tasks() {
		if task.UserID != GuestUserID {
			t.Errorf("Task %q owned by %s, want guest user", task.Title, task.UserID)
		}
	}
	for _, p := range Projects() {
		if p.UserID != GuestUserID {
			t.Errorf("Project %q owned by %s, want guest user", p.Name, p.UserID)
		}
	}
	for _, s := range SavedItems() {
		if s.UserID != GuestUserID {
			t.Errorf("Saved item %q owned by %s, want guest user", s.Title, s.UserID)
		}
	}
}

func TestFixtureIDsAreStableAndDistinct(t *testing.T) {
	t.Parallel()

	first := Contacts()
	second := Contacts()
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("Contact fixture IDs not stable across calls: %s vs %s", first[i].ID, second[i].ID)
		}
	}

	seen := make(map[uuid.UUID]bool)
	collect := func(id uuid.UUID) {
		if seen[id] {
			t.Errorf("Duplicate fixture ID %s", id)
		}
		seen[id] = true
	}
	for _, c := range Contacts() {
		collect(c.ID)
	}
	for _, tx := range Transactions() {
		collect(tx.ID)
	}
	for _, w := range Workouts() {
		collect(w.ID)
	}
	for _, m := range Meals() {
		collect(m.ID)
	}
	for _, h := range Habits() {
		collect(h.ID)
	}
	for _, tr := range Trips() {
		collect(tr.ID)
	}
	for _, task := range Tasks() {
		collect(task.ID)
	}
	for _, p := range Projects() {
		collect(p.ID)
	}
	for _, s := range SavedItems() {
		collect(s.ID)
	}
}

func TestTaskContactLinksResolve(t *testing.T) {
	t.Parallel()

	contactIDs := make(map[uuid.UUID]bool)
	for _, c := range Contacts() {
		contactIDs[c.ID] = true
	}

	for _, task := range Tasks() {
		if task.ContactID == nil {
			continue
		}
		if !contactIDs[*task.ContactID] {
			t.Errorf("Task %q links to unknown contact %s", task.Title, *task.ContactID)
		}
	}
}

func TestSavedItemFixturesHaveValidCategories(t *testing.T) {
	t.Parallel()

	for _, s := range SavedItems() {
		if !models.ValidSaverCategory(s.Category) {
			t.Errorf("Saved item %q has invalid category %s", s.Title, s.Category)
		}
		if s.Title == "" {
			t.Errorf("Saved item %s has empty title", s.ID)
		}
		if s.Summary == "" {
			t.Errorf("Saved item %s has empty summary", s.ID)
		}
	}
}

func TestBudgetsUseCurrentMonth(t *testing.T) {
	t.Parallel()

	for _, b := range Budgets() {
		if len(b.Month) != 7 || b.Month[4] != '-' {
			t.Errorf("Budget month %q is not in YYYY-MM form", b.Month)
		}
		if b.Amount <= 0 {
			t.Errorf("Budget %s has non-positive amount %f", b.Category, b.Amount)
		}
	}
}
