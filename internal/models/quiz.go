package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// QuizQuestion is transient: it is generated per upload and returned to the
// caller, never persisted. Only attempts are stored.
type QuizQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

type QuizAttempt struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"user_id"`
	NoteID      uuid.UUID       `json:"note_id"`
	Score       int             `json:"score"`
	Total       int             `json:"total"`
	AnswersJSON json.RawMessage `json:"answers"`
	CreatedAt   time.Time       `json:"created_at"`
}

// SubmitQuizRequest carries a client-scored attempt. Answers maps question
// index to the selected option index.
type SubmitQuizRequest struct {
	NoteID  uuid.UUID      `json:"noteId"`
	Score   int            `json:"score"`
	Total   int            `json:"total"`
	Answers map[string]int `json:"answers"`
}
