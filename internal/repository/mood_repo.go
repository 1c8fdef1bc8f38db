package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"moodmate/internal/domain"
)

// MoodRepository define el contrato de persistencia para el historial de animo.
type MoodRepository interface {
	Create(ctx context.Context, entry domain.MoodEntry) error
	ListByUserID(ctx context.Context, userID string) ([]domain.MoodEntry, error)
}

type PgMoodRepository struct {
	pool *pgxpool.Pool
}

func NewPgMoodRepository(pool *pgxpool.Pool) *PgMoodRepository {
	return &PgMoodRepository{pool: pool}
}

func (r *PgMoodRepository) Create(ctx context.Context, entry domain.MoodEntry) error {
	const query = `
		INSERT INTO moods (id, user_id, mood, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.pool.Exec(ctx, query,
		entry.ID,
		entry.UserID,
		entry.Mood,
		entry.CreatedAt,
	)
	return err
}

func (r *PgMoodRepository) ListByUserID(ctx context.Context, userID string) ([]domain.MoodEntry, error) {
	const query = `
		SELECT id, user_id, mood, created_at
		FROM moods
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.MoodEntry
	for rows.Next() {
		var e domain.MoodEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Mood, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
