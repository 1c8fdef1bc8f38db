package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"moodmate/internal/domain"
)

// RecallRepository persiste embeddings de mensajes y busca los mas cercanos.
type RecallRepository interface {
	Create(ctx context.Context, entry domain.RecallEntry) error
	Search(ctx context.Context, userID string, queryEmbedding pgvector.Vector, k int) ([]domain.RecallEntry, error)
}

type PgRecallRepository struct {
	pool *pgxpool.Pool
}

func NewPgRecallRepository(pool *pgxpool.Pool) *PgRecallRepository {
	return &PgRecallRepository{pool: pool}
}

func (r *PgRecallRepository) Create(ctx context.Context, entry domain.RecallEntry) error {
	const query = `
		INSERT INTO chat_recall (id, user_id, message_id, content, embedding, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		entry.ID,
		entry.UserID,
		entry.MessageID,
		entry.Content,
		entry.Embedding,
		entry.CreatedAt,
	)
	return err
}

func (r *PgRecallRepository) Search(ctx context.Context, userID string, queryEmbedding pgvector.Vector, k int) ([]domain.RecallEntry, error) {
	if k <= 0 {
		k = 3
	}
	const query = `
		SELECT id, user_id, message_id, content, embedding, created_at
		FROM chat_recall
		WHERE user_id = $1
		ORDER BY embedding <=> $2
		LIMIT $3
	`
	rows, err := r.pool.Query(ctx, query, userID, queryEmbedding, k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.RecallEntry
	for rows.Next() {
		var e domain.RecallEntry
		if err := rows.Scan(
			&e.ID,
			&e.UserID,
			&e.MessageID,
			&e.Content,
			&e.Embedding,
			&e.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
