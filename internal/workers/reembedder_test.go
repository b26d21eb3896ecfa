package workers

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/graham-fleming/lifehub/internal/models"
	"github.com/graham-fleming/lifehub/internal/queue"
	"github.com/graham-fleming/lifehub/internal/services/ai"
	"github.com/graham-fleming/lifehub/internal/services/saver"
)

type fakeProvider struct {
	embedErr   error
	embedCalls int
}

func (f *fakeProvider) Classify(ctx context.Context, text string) (*ai.Classification, error) {
	return &ai.Classification{Title: "T", Category: models.SaverCategoryNote}, nil
}

func (f *fakeProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	f.embedCalls++
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	return []float32{0.1}, nil
}

type fakeItemRepo struct {
	items      map[uuid.UUID]*models.SavedItem
	embeddings map[uuid.UUID][]float32
	listErr    error
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{
		items:      make(map[uuid.UUID]*models.SavedItem),
		embeddings: make(map[uuid.UUID][]float32),
	}
}

func (f *fakeItemRepo) Create(ctx context.Context, item *models.SavedItem, embedding []float32) error {
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
	return nil, nil
}

func (f *fakeItemRepo) SearchSimilar(ctx context.Context, userID uuid.UUID, embedding []float32, limit int, threshold float64) ([]*models.SavedItem, error) {
	return nil, nil
}

func (f *fakeItemRepo) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	delete(f.items, id)
	return 1, nil
}

func (f *fakeItemRepo) ListIDsByUserID(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
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

type fakeQueue struct {
	enqueued   []*queue.Job
	enqueueErr error
}

func (f *fakeQueue) Enqueue(ctx context.Context, job *queue.Job) error {
	if f.enqueueErr != nil {
		return f.enqueueErr
	}
	f.enqueued = append(f.enqueued, job)
	return nil
}

func (f *fakeQueue) Consume(ctx context.Context, prefetch int) (<-chan *queue.Message, <-chan error, error) {
	return nil, nil, errors.New("not implemented")
}

func (f *fakeQueue) Close() error { return nil }

func (f *fakeQueue) HealthCheck(ctx context.Context) error { return nil }

func newTestReembedder(provider *fakeProvider, repo *fakeItemRepo, q *fakeQueue) *Reembedder {
	svc := saver.NewService(provider, repo, zap.NewNop())
	return NewReembedder(svc, repo, q, zap.NewNop())
}

func TestProcessJob_UnknownType(t *testing.T) {
	t.Parallel()

	r := newTestReembedder(&fakeProvider{}, newFakeItemRepo(), &fakeQueue{})
	job := queue.NewJob(queue.JobType("mystery"), uuid.New(), nil)

	if err := r.ProcessJob(context.Background(), job); err == nil {
		t.Error("Expected error for unknown job type")
	}
}

func TestProcessReembedUser_FansOutPerItem(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	otherUser := uuid.New()
	repo := newFakeItemRepo()
	for i := 0; i < 3; i++ {
		item := &models.SavedItem{ID: uuid.New(), UserID: userID}
		repo.items[item.ID] = item
	}
	foreign := &models.SavedItem{ID: uuid.New(), UserID: otherUser}
	repo.items[foreign.ID] = foreign

	q := &fakeQueue{}
	r := newTestReembedder(&fakeProvider{}, repo, q)

	job := queue.NewJob(queue.JobTypeReembedUser, userID, nil)
	if err := r.ProcessJob(context.Background(), job); err != nil {
		t.Fatalf("ProcessJob failed: %v", err)
	}

	if len(q.enqueued) != 3 {
		t.Fatalf("Expected 3 item jobs enqueued, got %d", len(q.enqueued))
	}
	for _, itemJob := range q.enqueued {
		if itemJob.Type != queue.JobTypeReembedItem {
			t.Errorf("Expected item job type, got %s", itemJob.Type)
		}
		if itemJob.UserID != userID {
			t.Errorf("Expected user ID %s, got %s", userID, itemJob.UserID)
		}
		if itemJob.ItemID == nil {
			t.Error("Expected item ID to be set on fanned-out job")
			continue
		}
		if owner := repo.items[*itemJob.ItemID].UserID; owner != userID {
			t.Errorf("Fanned-out job targets an item owned by %s", owner)
		}
	}
}

func TestProcessReembedUser_ListError(t *testing.T) {
	t.Parallel()

	repo := newFakeItemRepo()
	repo.listErr = errors.New("db down")
	r := newTestReembedder(&fakeProvider{}, repo, &fakeQueue{})

	job := queue.NewJob(queue.JobTypeReembedUser, uuid.New(), nil)
	if err := r.ProcessJob(context.Background(), job); err == nil {
		t.Error("Expected error when listing items fails")
	}
}

func TestProcessReembedItem(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	tests := []struct {
		name    string
		setup   func(*fakeItemRepo) *queue.Job
		wantErr string
	}{
		{
			name: "missing item id",
			setup: func(repo *fakeItemRepo) *queue.Job {
				return queue.NewJob(queue.JobTypeReembedItem, userID, nil)
			},
			wantErr: "item_id is required",
		},
		{
			name: "unknown item",
			setup: func(repo *fakeItemRepo) *queue.Job {
				missing := uuid.New()
				return queue.NewJob(queue.JobTypeReembedItem, userID, &missing)
			},
			wantErr: "failed to get saved item",
		},
		{
			name: "ownership mismatch",
			setup: func(repo *fakeItemRepo) *queue.Job {
				item := &models.SavedItem{ID: uuid.New(), UserID: uuid.New()}
				repo.items[item.ID] = item
				return queue.NewJob(queue.JobTypeReembedItem, userID, &item.ID)
			},
			wantErr: "does not belong to user",
		},
		{
			name: "success",
			setup: func(repo *fakeItemRepo) *queue.Job {
				item := &models.SavedItem{ID: uuid.New(), UserID: userID, Title: "T", RawText: "text"}
				repo.items[item.ID] = item
				return queue.NewJob(queue.JobTypeReembedItem, userID, &item.ID)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := newFakeItemRepo()
			r := newTestReembedder(&fakeProvider{}, repo, &fakeQueue{})
			job := tt.setup(repo)

			err := r.ProcessJob(context.Background(), job)

			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("ProcessJob failed: %v", err)
				}
				if len(repo.embeddings[*job.ItemID]) == 0 {
					t.Error("Expected embedding to be updated")
				}
				return
			}

			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestProcessReembedItem_RateLimitRequeues(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	repo := newFakeItemRepo()
	item := &models.SavedItem{ID: uuid.New(), UserID: userID, Title: "T", RawText: "text"}
	repo.items[item.ID] = item

	provider := &fakeProvider{embedErr: &ai.APIError{StatusCode: 429, Type: "rate_limit_error"}}
	q := &fakeQueue{}
	r := newTestReembedder(provider, repo, q)

	job := queue.NewJob(queue.JobTypeReembedItem, userID, &item.ID)
	if err := r.ProcessJob(context.Background(), job); err != nil {
		t.Fatalf("Expected rate-limited job to be requeued, got error: %v", err)
	}

	if len(q.enqueued) != 1 {
		t.Fatalf("Expected 1 requeued job, got %d", len(q.enqueued))
	}
	requeued := q.enqueued[0]
	if requeued.RetryCount != 1 {
		t.Errorf("Expected retry count 1, got %d", requeued.RetryCount)
	}
	if requeued.NotBefore == nil {
		t.Fatal("Expected NotBefore to be set on requeued job")
	}
	if !requeued.NotBefore.After(time.Now()) {
		t.Error("Expected NotBefore to be in the future")
	}
}

func TestProcessReembedItem_RetriesExhausted(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	repo := newFakeItemRepo()
	item := &models.SavedItem{ID: uuid.New(), UserID: userID, Title: "T", RawText: "text"}
	repo.items[item.ID] = item

	provider := &fakeProvider{embedErr: &ai.APIError{StatusCode: 429}}
	q := &fakeQueue{}
	r := newTestReembedder(provider, repo, q)

	job := queue.NewJob(queue.JobTypeReembedItem, userID, &item.ID)
	job.RetryCount = job.MaxRetries

	err := r.ProcessJob(context.Background(), job)
	if err == nil || !strings.Contains(err.Error(), "exhausted retries") {
		t.Errorf("Expected exhausted retries error, got %v", err)
	}
	if len(q.enqueued) != 0 {
		t.Errorf("Expected no requeue after retries exhausted, got %d", len(q.enqueued))
	}
}

func TestProcessReembedItem_PermanentFailure(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	repo := newFakeItemRepo()
	item := &models.SavedItem{ID: uuid.New(), UserID: userID, Title: "T", RawText: "text"}
	repo.items[item.ID] = item

	provider := &fakeProvider{embedErr: errors.New("model deprecated")}
	q := &fakeQueue{}
	r := newTestReembedder(provider, repo, q)

	job := queue.NewJob(queue.JobTypeReembedItem, userID, &item.ID)
	err := r.ProcessJob(context.Background(), job)
	if err == nil {
		t.Fatal("Expected error for non-retryable provider failure")
	}
	if len(q.enqueued) != 0 {
		t.Errorf("Expected no requeue for non-retryable failure, got %d", len(q.enqueued))
	}
}
