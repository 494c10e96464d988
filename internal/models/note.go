package models

import (
	"time"

	"github.com/google/uuid"
)

type Note struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	FileName   string    `json:"file_name"`
	Notes      string    `json:"notes"`
	DiagramURL string    `json:"diagram_url"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// UploadResponse is the payload of a successful pipeline run. Quiz is empty
// (never null) when quiz generation was skipped or degraded.
type UploadResponse struct {
	Notes      string         `json:"notes"`
	DiagramURL string         `json:"diagramUrl"`
	Quiz       []QuizQuestion `json:"quiz"`
	NoteID     uuid.UUID      `json:"noteId"`
}

type AskRequest struct {
	Question string `json:"question"`
	Notes    string `json:"notes"`
}

type AskResponse struct {
	Answer string `json:"answer"`
}

type DashboardStats struct {
	TotalNotes    int     `json:"totalNotes"`
	TotalAttempts int     `json:"totalAttempts"`
	BestScore     float64 `json:"bestScore"`
}
