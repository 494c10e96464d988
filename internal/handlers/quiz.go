package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"notesgenie-backend/internal/middleware"
	"notesgenie-backend/internal/models"
)

type quizAttemptRepository interface {
	Create(ctx context.Context, a *models.QuizAttempt) error
	ListByNote(ctx context.Context, userID, noteID uuid.UUID) ([]*models.QuizAttempt, error)
}

type QuizHandler struct {
	attemptRepo quizAttemptRepository
}

func NewQuizHandler(attemptRepo quizAttemptRepository) *QuizHandler {
	return &QuizHandler{attemptRepo: attemptRepo}
}

// Submit persists one client-scored quiz attempt. The quiz content itself is
// transient and never stored; only the attempt record survives. The score is
// validated for bounds but not re-derived from the answers.
func (h *QuizHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if req.NoteID == uuid.Nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "noteId is required", r))
		return
	}
	if req.Total <= 0 || req.Score < 0 || req.Score > req.Total {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Score must be between 0 and total", r))
		return
	}

	answers := req.Answers
	if answers == nil {
		answers = map[string]int{}
	}
	answersJSON, _ := json.Marshal(answers)

	attempt := &models.QuizAttempt{
		UserID:      middleware.GetUserID(r.Context()),
		NoteID:      req.NoteID,
		Score:       req.Score,
		Total:       req.Total,
		AnswersJSON: answersJSON,
	}

	if err := h.attemptRepo.Create(r.Context(), attempt); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to save quiz attempt", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"attempt_id": attempt.ID,
	})
}

// History lists the caller's attempts for one note, newest first.
func (h *QuizHandler) History(w http.ResponseWriter, r *http.Request) {
	noteID, err := uuid.Parse(chi.URLParam(r, "noteId"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid note ID", r))
		return
	}

	userID := middleware.GetUserID(r.Context())

	attempts, err := h.attemptRepo.ListByNote(r.Context(), userID, noteID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch quiz attempts", r))
		return
	}

	writeJSON(w, http.StatusOK, attempts)
}
