// Package demo provides the read-only dataset served to unauthenticated
// guests and the sample records seeded into new accounts.
package demo

import (
	"time"

	"github.com/google/uuid"

	"github.com/graham-fleming/lifehub/internal/models"
)

// GuestUserID is the stable synthetic owner of all guest fixtures
var GuestUserID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

func strptr(s string) *string { return &s }
func intptr(i int) *int       { return &i }

func daysAgo(n int) time.Time {
	return time.Now().AddDate(0, 0, -n).Truncate(24 * time.Hour)
}

func fixedID(suffix byte) uuid.UUID {
	var b [16]byte
	b[0] = 0xde
	b[1] = 0x30
	b[15] = suffix
	return uuid.UUID(b)
}

// Contacts returns the guest contact list
func Contacts() []*models.Contact {
	now := time.Now()
	return []*models.Contact{
		{
			ID:        fixedID(1),
			UserID:    GuestUserID,
			Name:      "Maya Lindqvist",
			Email:     strptr("maya@brightloop.example"),
			Company:   strptr("Brightloop Studio"),
			Status:    models.ContactStatusClient,
			Notes:     strptr("Prefers email. Quarterly check-in due."),
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:        fixedID(2),
			UserID:    GuestUserID,
			Name:      "Ravi Thakkar",
			Email:     strptr("ravi@northpine.example"),
			Phone:     strptr("+1 555 0142"),
			Company:   strptr("Northpine Consulting"),
			Status:    models.ContactStatusLead,
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:        fixedID(3),
			UserID:    GuestUserID,
			Name:      "Elena Sorokina",
			Status:    models.ContactStatusPartner,
			Notes:     strptr("Met at the Lisbon conference."),
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

// Transactions returns the guest transaction history
func Transactions() []*models.Transaction {
	now := time.Now()
	return []*models.Transaction{
		{
			ID:          fixedID(10),
			UserID:      GuestUserID,
			Description: "Grocery run",
			Amount:      -86.40,
			Category:    "groceries",
			OccurredOn:  daysAgo(1),
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          fixedID(11),
			UserID:      GuestUserID,
			Description: "Freelance invoice #204",
			Amount:      1800.00,
			Category:    "income",
			OccurredOn:  daysAgo(4),
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          fixedID(12),
			UserID:      GuestUserID,
			Description: "Gym membership",
			Amount:      -42.00,
			Category:    "fitness",
			OccurredOn:  daysAgo(9),
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}
}

// Budgets returns the guest budgets for the current month
func Budgets() []*models.Budget {
	now := time.Now()
	month := now.Format("2006-01")
	return []*models.Budget{
		{UserID: GuestUserID, Category: "groceries", Month: month, Amount: 450, CreatedAt: now, UpdatedAt: now},
		{UserID: GuestUserID, Category: "fitness", Month: month, Amount: 80, CreatedAt: now, UpdatedAt: now},
		{UserID: GuestUserID, Category: "travel", Month: month, Amount: 300, CreatedAt: now, UpdatedAt: now},
	}
}

// Workouts returns the guest workout log
func Workouts() []*models.Workout {
	now := time.Now()
	return []*models.Workout{
		{
			ID:              fixedID(20),
			UserID:          GuestUserID,
			Name:            "Morning run",
			Activity:        "running",
			DurationMinutes: 35,
			OccurredOn:      daysAgo(0),
			CreatedAt:       now,
			UpdatedAt:       now,
		},
		{
			ID:              fixedID(21),
			UserID:          GuestUserID,
			Name:            "Upper body",
			Activity:        "strength",
			DurationMinutes: 50,
			OccurredOn:      daysAgo(2),
			Notes:           strptr("New bench PR"),
			CreatedAt:       now,
			UpdatedAt:       now,
		},
	}
}

// Meals returns the guest meal log
func Meals() []*models.Meal {
	now := time.Now()
	return []*models.Meal{
		{
			ID:        fixedID(30),
			UserID:    GuestUserID,
			Name:      "Oatmeal with berries",
			MealType:  models.MealTypeBreakfast,
			Calories:  intptr(340),
			EatenOn:   daysAgo(0),
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:        fixedID(31),
			UserID:    GuestUserID,
			Name:      "Chicken burrito bowl",
			MealType:  models.MealTypeLunch,
			Calories:  intptr(620),
			EatenOn:   daysAgo(0),
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

// Habits returns the guest habit list
func Habits() []*models.Habit {
	now := time.Now()
	return []*models.Habit{
		{ID: fixedID(40), UserID: GuestUserID, Name: "Read 20 minutes", Frequency: models.HabitFrequencyDaily, CreatedAt: now, UpdatedAt: now},
		{ID: fixedID(41), UserID: GuestUserID, Name: "Weekly review", Frequency: models.HabitFrequencyWeekly, CreatedAt: now, UpdatedAt: now},
	}
}

// Moods returns the guest wellness entries
func Moods() []*models.MoodEntry {
	now := time.Now()
	return []*models.MoodEntry{
		{UserID: GuestUserID, EntryDate: daysAgo(0).Format("2006-01-02"), Mood: 4, Energy: 3, CreatedAt: now, UpdatedAt: now},
		{UserID: GuestUserID, EntryDate: daysAgo(1).Format("2006-01-02"), Mood: 3, Energy: 4, Notes: strptr("Long day but a good run"), CreatedAt: now, UpdatedAt: now},
	}
}

// Trips returns the guest trip list
func Trips() []*models.Trip {
	now := time.Now()
	start := time.Now().AddDate(0, 1, 0)
	end := start.AddDate(0, 0, 7)
	return []*models.Trip{
		{
			ID:          fixedID(50),
			UserID:      GuestUserID,
			Destination: "Kyoto, Japan",
			StartDate:   &start,
			EndDate:     &end,
			Status:      models.TripStatusPlanning,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}
}

// Tasks returns the guest task list
func Tasks() []*models.Task {
	now := time.Now()
	due := time.Now().AddDate(0, 0, 2)
	contactID := fixedID(1)
	return []*models.Task{
		{
			ID:        fixedID(60),
			UserID:    GuestUserID,
			Title:     "Send proposal to Maya",
			Status:    models.TaskStatusOpen,
			DueDate:   &due,
			ContactID: &contactID,
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:        fixedID(61),
			UserID:    GuestUserID,
			Title:     "Book flights for Kyoto",
			Status:    models.TaskStatusOpen,
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:        fixedID(62),
			UserID:    GuestUserID,
			Title:     "Renew gym membership",
			Status:    models.TaskStatusDone,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

// Projects returns the guest project list
func Projects() []*models.Project {
	now := time.Now()
	return []*models.Project{
		{
			ID:          fixedID(70),
			UserID:      GuestUserID,
			Name:        "Website redesign",
			Description: strptr("Refresh the portfolio site before autumn"),
			Status:      models.ProjectStatusActive,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}
}

// SavedItems returns the guest saved item list
func SavedItems() []*models.SavedItem {
	now := time.Now()
	return []*models.SavedItem{
		{
			ID:       fixedID(80),
			UserID:   GuestUserID,
			RawText:  "Check out https://go.dev/blog for the new release notes",
			Title:    "Go blog release notes",
			Summary:  "A link to the Go blog for release notes.",
			Category: models.SaverCategoryLink,
			Tags:     []string{"go", "reading", "blog"},
			Metadata: models.SavedItemMetadata{
				ContentType: "url",
				Sentiment:   "neutral",
				Urgency:     "low",
			},
			CreatedAt: now,
		},
		{
			ID:       fixedID(81),
			UserID:   GuestUserID,
			RawText:  "Idea: weekly digest email summarizing saved items by category",
			Title:    "Weekly digest email",
			Summary:  "Build a weekly digest summarizing saved items by category.",
			Category: models.SaverCategoryIdea,
			Tags:     []string{"product", "email", "digest"},
			Metadata: models.SavedItemMetadata{
				ContentType: "note",
				Sentiment:   "positive",
				Urgency:     "medium",
			},
			CreatedAt: now,
		},
	}
}
