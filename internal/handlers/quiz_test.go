package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"notesgenie-backend/internal/middleware"
	"notesgenie-backend/internal/models"
)

type stubAttemptRepo struct {
	created []*models.QuizAttempt
	listed  []*models.QuizAttempt
}

func (s *stubAttemptRepo) Create(ctx context.Context, a *models.QuizAttempt) error {
	a.ID = uuid.New()
	s.created = append(s.created, a)
	return nil
}

func (s *stubAttemptRepo) ListByNote(ctx context.Context, userID, noteID uuid.UUID) ([]*models.QuizAttempt, error) {
	return s.listed, nil
}

func newSubmitRequest(t *testing.T, body string, userID uuid.UUID) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/quiz/submit", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req.WithContext(context.WithValue(req.Context(), middleware.UserIDKey, userID))
}

func TestQuizHandler_Submit(t *testing.T) {
	repo := &stubAttemptRepo{}
	h := NewQuizHandler(repo)

	userID := uuid.New()
	noteID := uuid.New()
	body := fmt.Sprintf(`{"noteId":%q,"score":4,"total":5,"answers":{"0":1,"1":3}}`, noteID)

	rr := httptest.NewRecorder()
	h.Submit(rr, newSubmitRequest(t, body, userID))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected one attempt persisted, got %d", len(repo.created))
	}

	attempt := repo.created[0]
	if attempt.UserID != userID || attempt.NoteID != noteID {
		t.Errorf("attempt owner/note mismatch: %+v", attempt)
	}
	if attempt.Score != 4 || attempt.Total != 5 {
		t.Errorf("expected score 4/5, got %d/%d", attempt.Score, attempt.Total)
	}

	var answers map[string]int
	if err := json.Unmarshal(attempt.AnswersJSON, &answers); err != nil {
		t.Fatalf("answers should round-trip as JSON: %v", err)
	}
	if answers["1"] != 3 {
		t.Errorf("unexpected answers payload: %v", answers)
	}
}

func TestQuizHandler_Submit_NilAnswersDefaultsToEmpty(t *testing.T) {
	repo := &stubAttemptRepo{}
	h := NewQuizHandler(repo)

	body := fmt.Sprintf(`{"noteId":%q,"score":0,"total":5}`, uuid.New())
	rr := httptest.NewRecorder()
	h.Submit(rr, newSubmitRequest(t, body, uuid.New()))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if got := string(repo.created[0].AnswersJSON); got != "{}" {
		t.Errorf("expected empty answers object, got %s", got)
	}
}

func TestQuizHandler_Submit_Validation(t *testing.T) {
	noteID := uuid.New()

	tests := []struct {
		name string
		body string
	}{
		{"missing note id", `{"score":1,"total":5}`},
		{"zero total", fmt.Sprintf(`{"noteId":%q,"score":0,"total":0}`, noteID)},
		{"negative score", fmt.Sprintf(`{"noteId":%q,"score":-1,"total":5}`, noteID)},
		{"score above total", fmt.Sprintf(`{"noteId":%q,"score":6,"total":5}`, noteID)},
		{"malformed body", `{not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &stubAttemptRepo{}
			h := NewQuizHandler(repo)

			rr := httptest.NewRecorder()
			h.Submit(rr, newSubmitRequest(t, tt.body, uuid.New()))

			if rr.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rr.Code)
			}
			if len(repo.created) != 0 {
				t.Errorf("invalid submissions must not be persisted")
			}
		})
	}
}

func TestQuizHandler_History(t *testing.T) {
	userID := uuid.New()
	noteID := uuid.New()
	repo := &stubAttemptRepo{
		listed: []*models.QuizAttempt{
			{ID: uuid.New(), UserID: userID, NoteID: noteID, Score: 5, Total: 5},
			{ID: uuid.New(), UserID: userID, NoteID: noteID, Score: 2, Total: 5},
		},
	}
	h := NewQuizHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/quiz/history/"+noteID.String(), nil)
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, userID)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("noteId", noteID.String())
	ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)

	rr := httptest.NewRecorder()
	h.History(rr, req.WithContext(ctx))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var got []models.QuizAttempt
	if err := json.NewDecoder(rr.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(got) != 2 || got[0].Score != 5 {
		t.Errorf("unexpected history payload: %+v", got)
	}
}

func TestQuizHandler_History_MalformedNoteID(t *testing.T) {
	h := NewQuizHandler(&stubAttemptRepo{})

	req := httptest.NewRequest(http.MethodGet, "/quiz/history/abc", nil)
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, uuid.New())
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("noteId", "abc")
	ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)

	rr := httptest.NewRecorder()
	h.History(rr, req.WithContext(ctx))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}
