package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"notesgenie-backend/internal/middleware"
	"notesgenie-backend/internal/models"
)

type noteRepository interface {
	Create(ctx context.Context, n *models.Note) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Note, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Note, error)
	DeleteCascade(ctx context.Context, id uuid.UUID) error
}

type NotesHandler struct {
	noteRepo noteRepository
}

func NewNotesHandler(noteRepo noteRepository) *NotesHandler {
	return &NotesHandler{noteRepo: noteRepo}
}

// History lists the caller's notes, newest first.
func (h *NotesHandler) History(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	notes, err := h.noteRepo.ListByUser(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch notes", r))
		return
	}

	writeJSON(w, http.StatusOK, notes)
}

func (h *NotesHandler) Get(w http.ResponseWriter, r *http.Request) {
	note, ok := h.ownedNote(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, note)
}

// Delete removes a note and all quiz attempts referencing it.
func (h *NotesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	note, ok := h.ownedNote(w, r)
	if !ok {
		return
	}

	if err := h.noteRepo.DeleteCascade(r.Context(), note.ID); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete note", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// ownedNote resolves the {id} route param to a note owned by the caller.
// A note owned by someone else reads as absent, not forbidden.
func (h *NotesHandler) ownedNote(w http.ResponseWriter, r *http.Request) (*models.Note, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid note ID", r))
		return nil, false
	}

	note, err := h.noteRepo.GetByID(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Note not found", r))
		return nil, false
	}

	userID := middleware.GetUserID(r.Context())
	if note.UserID != userID {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Note not found", r))
		return nil, false
	}

	return note, true
}
