package saver

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/graham-fleming/lifehub/internal/models"
	"github.com/graham-fleming/lifehub/internal/services/ai"
)

// fakeProvider records calls and serves canned responses
type fakeProvider struct {
	classifyCalls  int
	embedCalls     int
	classification *ai.Classification
	classifyErr    error
	embedErr       error
	embedding      []float32
	lastEmbedInput string
}

func (f *fakeProvider) Classify(ctx context.Context, text string) (*ai.Classification, error) {
	f.classifyCalls++
	if f.classifyErr != nil {
		return nil, f.classifyErr
	}
	if f.classification != nil {
		return f.classification, nil
	}
	return &ai.Classification{
		Title:    "Test Title",
		Summary:  "Test summary",
		Category: models.SaverCategoryNote,
		Tags:     []string{"test"},
	}, nil
}

func (f *fakeProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	f.embedCalls++
	f.lastEmbedInput = text
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	if f.embedding != nil {
		return f.embedding, nil
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

// fakeItemRepo is an in-memory SavedItemRepositoryInterface
type fakeItemRepo struct {
	items         map[uuid.UUID]*models.SavedItem
	embeddings    map[uuid.UUID][]float32
	searchResults []*models.SavedItem
	createErr     error
	createCalls   int
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{
		items:      make(map[uuid.UUID]*models.SavedItem),
		embeddings: make(map[uuid.UUID][]float32),
	}
}

func (f *fakeItemRepo) Create(ctx context.Context, item *models.SavedItem, embedding []float32) error {
	f.createCalls++
	if f.createErr != nil {
		return f.createErr
	}
	f.items[item.ID] = item
	f.embeddings[item.ID] = embedding
	return nil
}

func (f *fakeItemRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.SavedItem, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return item, nil
}

func (f *fakeItemRepo) GetByUserID(ctx context.Context, userID uuid.UUID, category *models.SaverCategory) ([]*models.SavedItem, error) {
	var out []*models.SavedItem
	for _, item := range f.items {
		if item.UserID != userID {
			continue
		}
		if category != nil && item.Category != *category {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (f *fakeItemRepo) SearchSimilar(ctx context.Context, userID uuid.UUID, embedding []float32, limit int, threshold float64) ([]*models.SavedItem, error) {
	return f.searchResults, nil
}

func (f *fakeItemRepo) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	if _, ok := f.items[id]; !ok {
		return 0, nil
	}
	delete(f.items, id)
	return 1, nil
}

func (f *fakeItemRepo) ListIDsByUserID(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for id, item := range f.items {
		if item.UserID == userID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *fakeItemRepo) UpdateEmbedding(ctx context.Context, id uuid.UUID, embedding []float32) error {
	if _, ok := f.items[id]; !ok {
		return errors.New("saved item not found")
	}
	f.embeddings[id] = embedding
	return nil
}

func newTestService(provider *fakeProvider, repo *fakeItemRepo) *Service {
	return NewService(provider, repo, zap.NewNop())
}

func TestSave_LengthValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		text    string
		wantErr error
	}{
		{
			name:    "empty text",
			text:    "",
			wantErr: ErrEmptyText,
		},
		{
			name:    "whitespace only",
			text:    "   \n\t  ",
			wantErr: ErrEmptyText,
		},
		{
			name:    "at maximum length",
			text:    strings.Repeat("a", MaxTextLength),
			wantErr: nil,
		},
		{
			name:    "one over maximum length",
			text:    strings.Repeat("a", MaxTextLength+1),
			wantErr: ErrTextTooLong,
		},
		{
			name:    "multibyte text at maximum rune count",
			text:    strings.Repeat("é", MaxTextLength),
			wantErr: nil,
		},
		{
			name:    "multibyte text one rune over",
			text:    strings.Repeat("é", MaxTextLength+1),
			wantErr: ErrTextTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			provider := &fakeProvider{}
			repo := newFakeItemRepo()
			svc := newTestService(provider, repo)

			item, err := svc.Save(context.Background(), uuid.New(), tt.text)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Expected error %v, got %v", tt.wantErr, err)
				}
				if provider.classifyCalls != 0 || provider.embedCalls != 0 {
					t.Errorf("Expected no provider calls on invalid input, got classify=%d embed=%d",
						provider.classifyCalls, provider.embedCalls)
				}
				if repo.createCalls != 0 {
					t.Errorf("Expected no repository writes on invalid input, got %d", repo.createCalls)
				}
				return
			}

			if err != nil {
				t.Fatalf("Save failed: %v", err)
			}
			if item == nil {
				t.Fatal("Expected item to be returned")
			}
			if provider.classifyCalls != 1 || provider.embedCalls != 1 {
				t.Errorf("Expected one classify and one embed call, got classify=%d embed=%d",
					provider.classifyCalls, provider.embedCalls)
			}
		})
	}
}

func TestSave_PopulatesItemFromClassification(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	provider := &fakeProvider{
		classification: &ai.Classification{
			Title:    "Meeting Notes",
			Summary:  "Weekly sync summary",
			Category: models.SaverCategoryMeeting,
			Tags:     []string{"sync", "weekly"},
			Metadata: models.SavedItemMetadata{
				ContentType: "notes",
				Sentiment:   "neutral",
				Urgency:     "low",
			},
		},
	}
	repo := newFakeItemRepo()
	svc := newTestService(provider, repo)

	item, err := svc.Save(context.Background(), userID, "notes from the weekly sync")
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if item.UserID != userID {
		t.Errorf("Expected user ID %s, got %s", userID, item.UserID)
	}
	if item.Title != "Meeting Notes" {
		t.Errorf("Expected title 'Meeting Notes', got %q", item.Title)
	}
	if item.Category != models.SaverCategoryMeeting {
		t.Errorf("Expected category meeting, got %s", item.Category)
	}
	if item.RawText != "notes from the weekly sync" {
		t.Errorf("Expected raw text to be preserved, got %q", item.RawText)
	}
	if len(repo.embeddings[item.ID]) == 0 {
		t.Error("Expected embedding to be persisted with the item")
	}
}

func TestSave_ProviderFailureNothingPersisted(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		classifyErr error
		embedErr    error
	}{
		{name: "classification failure", classifyErr: errors.New("model unavailable")},
		{name: "embedding failure", embedErr: errors.New("model unavailable")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			provider := &fakeProvider{classifyErr: tt.classifyErr, embedErr: tt.embedErr}
			repo := newFakeItemRepo()
			svc := newTestService(provider, repo)

			_, err := svc.Save(context.Background(), uuid.New(), "some text")
			if err == nil {
				t.Fatal("Expected error")
			}

			var providerErr *ProviderError
			if !errors.As(err, &providerErr) {
				t.Errorf("Expected ProviderError, got %T: %v", err, err)
			}
			if repo.createCalls != 0 {
				t.Errorf("Expected nothing persisted on provider failure, got %d writes", repo.createCalls)
			}
		})
	}
}

func TestEmbeddingInput_TruncatesRawText(t *testing.T) {
	t.Parallel()

	longText := strings.Repeat("x", EmbeddingTextLimit+500)
	got := EmbeddingInput("Title", "Summary", longText)

	want := "Title\nSummary\n" + strings.Repeat("x", EmbeddingTextLimit)
	if got != want {
		t.Errorf("Expected raw text truncated to %d chars, got total length %d", EmbeddingTextLimit, len(got))
	}

	short := EmbeddingInput("T", "S", "raw")
	if short != "T\nS\nraw" {
		t.Errorf("Expected 'T\\nS\\nraw', got %q", short)
	}
}

func TestEmbeddingInput_TruncatesOnRuneBoundary(t *testing.T) {
	t.Parallel()

	raw := strings.Repeat("日", EmbeddingTextLimit+10)
	got := EmbeddingInput("T", "S", raw)

	if !utf8.ValidString(got) {
		t.Fatal("Expected valid UTF-8 embedding input")
	}
	want := "T\nS\n" + strings.Repeat("日", EmbeddingTextLimit)
	if got != want {
		t.Errorf("Expected raw text truncated to %d runes, got %d runes",
			EmbeddingTextLimit+4, utf8.RuneCountInString(got))
	}
}

func TestSave_EmbedsTitleSummaryAndTruncatedText(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{
		classification: &ai.Classification{
			Title:    "T",
			Summary:  "S",
			Category: models.SaverCategoryNote,
		},
	}
	repo := newFakeItemRepo()
	svc := newTestService(provider, repo)

	text := strings.Repeat("y", EmbeddingTextLimit+100)
	if _, err := svc.Save(context.Background(), uuid.New(), text); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	want := "T\nS\n" + strings.Repeat("y", EmbeddingTextLimit)
	if provider.lastEmbedInput != want {
		t.Errorf("Embedding input mismatch: got length %d, want length %d",
			len(provider.lastEmbedInput), len(want))
	}
}

func TestSearch_CategoryFilterPreservesOrder(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	mkItem := func(category models.SaverCategory, similarity float64) *models.SavedItem {
		return &models.SavedItem{
			ID:         uuid.New(),
			UserID:     userID,
			Category:   category,
			Similarity: similarity,
		}
	}

	// Repo returns results in descending similarity order
	results := []*models.SavedItem{
		mkItem(models.SaverCategoryNote, 0.9),
		mkItem(models.SaverCategoryTask, 0.8),
		mkItem(models.SaverCategoryNote, 0.7),
		mkItem(models.SaverCategoryIdea, 0.6),
		mkItem(models.SaverCategoryNote, 0.5),
	}

	provider := &fakeProvider{}
	repo := newFakeItemRepo()
	repo.searchResults = results
	svc := newTestService(provider, repo)

	category := models.SaverCategoryNote
	items, err := svc.Search(context.Background(), userID, "query", &category)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if len(items) != 3 {
		t.Fatalf("Expected 3 note items, got %d", len(items))
	}
	for i := 1; i < len(items); i++ {
		if items[i].Similarity > items[i-1].Similarity {
			t.Errorf("Expected descending similarity order, got %f before %f",
				items[i-1].Similarity, items[i].Similarity)
		}
	}
	for _, item := range items {
		if item.Category != models.SaverCategoryNote {
			t.Errorf("Expected only note items, got %s", item.Category)
		}
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{}
	repo := newFakeItemRepo()
	svc := newTestService(provider, repo)

	_, err := svc.Search(context.Background(), uuid.New(), "   ", nil)
	if !errors.Is(err, ErrEmptyText) {
		t.Fatalf("Expected ErrEmptyText, got %v", err)
	}
	if provider.embedCalls != 0 {
		t.Errorf("Expected no embed calls for empty query, got %d", provider.embedCalls)
	}
}

func TestReembed(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	provider := &fakeProvider{embedding: []float32{0.5, 0.5}}
	repo := newFakeItemRepo()
	svc := newTestService(provider, repo)

	item := &models.SavedItem{
		ID:      uuid.New(),
		UserID:  userID,
		RawText: "stored text",
		Title:   "Stored",
		Summary: "A stored item",
	}
	repo.items[item.ID] = item
	repo.embeddings[item.ID] = []float32{0.1}

	if err := svc.Reembed(context.Background(), item.ID); err != nil {
		t.Fatalf("Reembed failed: %v", err)
	}

	got := repo.embeddings[item.ID]
	if len(got) != 2 || got[0] != 0.5 {
		t.Errorf("Expected embedding replaced with new vector, got %v", got)
	}
	if provider.lastEmbedInput != "Stored\nA stored item\nstored text" {
		t.Errorf("Unexpected embedding input: %q", provider.lastEmbedInput)
	}

	if err := svc.Reembed(context.Background(), uuid.New()); err == nil {
		t.Error("Expected error for unknown item")
	}
}
