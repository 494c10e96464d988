package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"notesgenie-backend/internal/models"
)

type NoteRepo struct {
	pool *pgxpool.Pool
}

func NewNoteRepo(pool *pgxpool.Pool) *NoteRepo {
	return &NoteRepo{pool: pool}
}

func (r *NoteRepo) Create(ctx context.Context, n *models.Note) error {
	n.ID = uuid.New()

	query := `INSERT INTO notes (id, user_id, file_name, notes, diagram_url)
		VALUES ($1, $2, $3, $4, $5) RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		n.ID, n.UserID, n.FileName, n.Notes, n.DiagramURL,
	).Scan(&n.CreatedAt, &n.UpdatedAt)
}

func (r *NoteRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Note, error) {
	n := &models.Note{}
	query := `SELECT id, user_id, file_name, notes, diagram_url, created_at, updated_at
		FROM notes WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&n.ID, &n.UserID, &n.FileName, &n.Notes, &n.DiagramURL, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (r *NoteRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Note, error) {
	query := `SELECT id, user_id, file_name, notes, diagram_url, created_at, updated_at
		FROM notes WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := make([]*models.Note, 0)
	for rows.Next() {
		n := &models.Note{}
		err := rows.Scan(&n.ID, &n.UserID, &n.FileName, &n.Notes, &n.DiagramURL, &n.CreatedAt, &n.UpdatedAt)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// DeleteCascade removes a note and every quiz attempt referencing it in one
// transaction. quiz_attempts.note_id carries no foreign key, so the cascade
// is done here rather than in the schema.
func (r *NoteRepo) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM quiz_attempts WHERE note_id = $1", id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, "DELETE FROM notes WHERE id = $1", id); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
