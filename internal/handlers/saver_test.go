package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/graham-fleming/lifehub/internal/models"
	"github.com/graham-fleming/lifehub/internal/request"
	"github.com/graham-fleming/lifehub/internal/services/ai"
	"github.com/graham-fleming/lifehub/internal/services/saver"
)

type stubProvider struct {
	classifyErr error
	embedErr    error
}

func (s *stubProvider) Classify(ctx context.Context, text string) (*ai.Classification, error) {
	if s.classifyErr != nil {
		return nil, s.classifyErr
	}
	return &ai.Classification{
		Title:    "Stub Title",
		Summary:  "Stub summary",
		Category: models.SaverCategoryNote,
		Tags:     []string{},
	}, nil
}

func (s *stubProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if s.embedErr != nil {
		return nil, s.embedErr
	}
	return []float32{0.1, 0.2}, nil
}

type stubItemRepo struct {
	items map[uuid.UUID]*models.SavedItem
}

func newStubItemRepo() *stubItemRepo {
	return &stubItemRepo{items: make(map[uuid.UUID]*models.SavedItem)}
}

func (s *stubItemRepo) Create(ctx context.Context, item *models.SavedItem, embedding []float32) error {
	s.items[item.ID] = item
	return nil
}

func (s *stubItemRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.SavedItem, error) {
	item, ok := s.items[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return item, nil
}

func (s *stubItemRepo) GetByUserID(ctx context.Context, userID uuid.UUID, category *models.SaverCategory) ([]*models.SavedItem, error) {
	out := []*models.SavedItem{}
	for _, item := range s.items {
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

func (s *stubItemRepo) SearchSimilar(ctx context.Context, userID uuid.UUID, embedding []float32, limit int, threshold float64) ([]*models.SavedItem, error) {
	return []*models.SavedItem{}, nil
}

func (s *stubItemRepo) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	if _, ok := s.items[id]; !ok {
		return 0, nil
	}
	delete(s.items, id)
	return 1, nil
}

func (s *stubItemRepo) ListIDsByUserID(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for id, item := range s.items {
		if item.UserID == userID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (s *stubItemRepo) UpdateEmbedding(ctx context.Context, id uuid.UUID, embedding []float32) error {
	return nil
}

func newSaverTestRouter(provider *stubProvider, repo *stubItemRepo) *mux.Router {
	svc := saver.NewService(provider, repo, zap.NewNop())
	handler := NewSaverHandler(svc, repo)

	router := mux.NewRouter()
	handler.RegisterRoutes(router.PathPrefix("/saver").Subrouter())
	return router
}

func withUser(r *http.Request, user *models.User) *http.Request {
	return r.WithContext(request.WithUser(r.Context(), user))
}

func TestSaveItem(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: uuid.New()}

	tests := []struct {
		name     string
		provider *stubProvider
		user     *models.User
		body     any
		validate func(*testing.T, *http.Response)
	}{
		{
			name:     "unauthenticated save rejected",
			provider: &stubProvider{},
			user:     nil,
			body:     map[string]string{"text": "remember the milk"},
			validate: func(t *testing.T, resp *http.Response) {
				if resp.StatusCode != http.StatusUnauthorized {
					t.Errorf("Expected status 401, got %d", resp.StatusCode)
				}
			},
		},
		{
			name:     "missing text rejected",
			provider: &stubProvider{},
			user:     user,
			body:     map[string]string{},
			validate: func(t *testing.T, resp *http.Response) {
				if resp.StatusCode != http.StatusBadRequest {
					t.Errorf("Expected status 400, got %d", resp.StatusCode)
				}
			},
		},
		{
			name:     "classification failure maps to bad gateway",
			provider: &stubProvider{classifyErr: errors.New("model unavailable")},
			user:     user,
			body:     map[string]string{"text": "remember the milk"},
			validate: func(t *testing.T, resp *http.Response) {
				if resp.StatusCode != http.StatusBadGateway {
					t.Errorf("Expected status 502, got %d", resp.StatusCode)
				}

				var body map[string]any
				if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
					t.Fatalf("Failed to decode response: %v", err)
				}
				if msg, _ := body["message"].(string); msg != "Could not categorize the text, please try again" {
					t.Errorf("Unexpected message: %q", msg)
				}
			},
		},
		{
			name:     "embedding failure maps to bad gateway",
			provider: &stubProvider{embedErr: errors.New("model unavailable")},
			user:     user,
			body:     map[string]string{"text": "remember the milk"},
			validate: func(t *testing.T, resp *http.Response) {
				if resp.StatusCode != http.StatusBadGateway {
					t.Errorf("Expected status 502, got %d", resp.StatusCode)
				}
			},
		},
		{
			name:     "successful save",
			provider: &stubProvider{},
			user:     user,
			body:     map[string]string{"text": "remember the milk"},
			validate: func(t *testing.T, resp *http.Response) {
				if resp.StatusCode != http.StatusCreated {
					t.Errorf("Expected status 201, got %d", resp.StatusCode)
				}

				var body struct {
					Data models.SavedItem `json:"data"`
				}
				if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
					t.Fatalf("Failed to decode response: %v", err)
				}
				if body.Data.Title != "Stub Title" {
					t.Errorf("Expected classified title, got %q", body.Data.Title)
				}
				if body.Data.RawText != "remember the milk" {
					t.Errorf("Expected raw text preserved, got %q", body.Data.RawText)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router := newSaverTestRouter(tt.provider, newStubItemRepo())

			req := newTestRequest("POST", "/saver/items", tt.body)
			if tt.user != nil {
				req = withUser(req, tt.user)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			resp := w.Result()
			defer resp.Body.Close()
			tt.validate(t, resp)
		})
	}
}

func TestListItems_GuestFixtures(t *testing.T) {
	t.Parallel()

	router := newSaverTestRouter(&stubProvider{}, newStubItemRepo())

	req := newTestRequest("GET", "/saver/items", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var body struct {
		Data []*models.SavedItem `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(body.Data) == 0 {
		t.Error("Expected demo items for unauthenticated list")
	}
}

func TestListItems_CategoryFilter(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: uuid.New()}
	repo := newStubItemRepo()
	note := &models.SavedItem{ID: uuid.New(), UserID: user.ID, Category: models.SaverCategoryNote}
	task := &models.SavedItem{ID: uuid.New(), UserID: user.ID, Category: models.SaverCategoryTask}
	repo.items[note.ID] = note
	repo.items[task.ID] = task

	router := newSaverTestRouter(&stubProvider{}, repo)

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantCount  int
	}{
		{name: "no filter", query: "", wantStatus: http.StatusOK, wantCount: 2},
		{name: "all is no filter", query: "?category=all", wantStatus: http.StatusOK, wantCount: 2},
		{name: "category filter", query: "?category=note", wantStatus: http.StatusOK, wantCount: 1},
		{name: "unknown category rejected", query: "?category=spaceship", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := withUser(newTestRequest("GET", "/saver/items"+tt.query, nil), user)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			resp := w.Result()
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("Expected status %d, got %d", tt.wantStatus, resp.StatusCode)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			var body struct {
				Data []*models.SavedItem `json:"data"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if len(body.Data) != tt.wantCount {
				t.Errorf("Expected %d items, got %d", tt.wantCount, len(body.Data))
			}
		})
	}
}

func TestDeleteItem(t *testing.T) {
	t.Parallel()

	owner := &models.User{ID: uuid.New()}
	other := &models.User{ID: uuid.New()}
	item := &models.SavedItem{ID: uuid.New(), UserID: owner.ID, Category: models.SaverCategoryNote}

	tests := []struct {
		name       string
		user       *models.User
		path       string
		wantStatus int
	}{
		{name: "unauthenticated", user: nil, path: "/saver/items/" + item.ID.String(), wantStatus: http.StatusUnauthorized},
		{name: "invalid id", user: owner, path: "/saver/items/not-a-uuid", wantStatus: http.StatusBadRequest},
		{name: "unknown item", user: owner, path: "/saver/items/" + uuid.New().String(), wantStatus: http.StatusNotFound},
		{name: "wrong owner", user: other, path: "/saver/items/" + item.ID.String(), wantStatus: http.StatusForbidden},
		{name: "owner deletes", user: owner, path: "/saver/items/" + item.ID.String(), wantStatus: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := newStubItemRepo()
			repo.items[item.ID] = item
			router := newSaverTestRouter(&stubProvider{}, repo)

			req := newTestRequest("DELETE", tt.path, nil)
			if tt.user != nil {
				req = withUser(req, tt.user)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func TestSearchEndpoint(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: uuid.New()}

	tests := []struct {
		name       string
		provider   *stubProvider
		user       *models.User
		body       any
		wantStatus int
	}{
		{
			name:       "unauthenticated search rejected",
			provider:   &stubProvider{},
			user:       nil,
			body:       map[string]string{"query": "milk"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "missing query rejected",
			provider:   &stubProvider{},
			user:       user,
			body:       map[string]string{},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown category rejected",
			provider:   &stubProvider{},
			user:       user,
			body:       map[string]string{"query": "milk", "category": "spaceship"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "embedding failure maps to bad gateway",
			provider:   &stubProvider{embedErr: errors.New("model unavailable")},
			user:       user,
			body:       map[string]string{"query": "milk"},
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "successful search",
			provider:   &stubProvider{},
			user:       user,
			body:       map[string]string{"query": "milk", "category": "all"},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router := newSaverTestRouter(tt.provider, newStubItemRepo())

			req := newTestRequest("POST", "/saver/search", tt.body)
			if tt.user != nil {
				req = withUser(req, tt.user)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}
