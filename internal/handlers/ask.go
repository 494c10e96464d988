package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"notesgenie-backend/internal/models"
)

type notesAnswerer interface {
	AnswerFromNotes(ctx context.Context, notes, question string) (string, error)
}

// AskHandler answers follow-up questions strictly from notes text the client
// sends back; nothing is loaded server-side.
type AskHandler struct {
	ai notesAnswerer
}

func NewAskHandler(ai notesAnswerer) *AskHandler {
	return &AskHandler{ai: ai}
}

func (h *AskHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req models.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if strings.TrimSpace(req.Question) == "" || strings.TrimSpace(req.Notes) == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Missing question or notes", r))
		return
	}

	answer, err := h.ai.AnswerFromNotes(r.Context(), req.Notes, req.Question)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("AI_ERROR", "Failed to get AI response", r))
		return
	}

	writeJSON(w, http.StatusOK, models.AskResponse{Answer: answer})
}
