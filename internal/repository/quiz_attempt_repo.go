package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"notesgenie-backend/internal/models"
)

type QuizAttemptRepo struct {
	pool *pgxpool.Pool
}

func NewQuizAttemptRepo(pool *pgxpool.Pool) *QuizAttemptRepo {
	return &QuizAttemptRepo{pool: pool}
}

func (r *QuizAttemptRepo) Create(ctx context.Context, a *models.QuizAttempt) error {
	a.ID = uuid.New()

	answers := a.AnswersJSON
	if answers == nil {
		answers = []byte("{}")
	}

	query := `INSERT INTO quiz_attempts (id, user_id, note_id, score, total, answers_json)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		a.ID, a.UserID, a.NoteID, a.Score, a.Total, answers,
	).Scan(&a.CreatedAt)
}

func (r *QuizAttemptRepo) ListByNote(ctx context.Context, userID, noteID uuid.UUID) ([]*models.QuizAttempt, error) {
	query := `SELECT id, user_id, note_id, score, total, answers_json, created_at
		FROM quiz_attempts WHERE user_id = $1 AND note_id = $2 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID, noteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	attempts := make([]*models.QuizAttempt, 0)
	for rows.Next() {
		a := &models.QuizAttempt{}
		err := rows.Scan(&a.ID, &a.UserID, &a.NoteID, &a.Score, &a.Total, &a.AnswersJSON, &a.CreatedAt)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}
