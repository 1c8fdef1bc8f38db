package repository

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5/pgxpool"

	"moodmate/internal/domain"
)

// ChatRepository define el contrato de persistencia para la conversacion.
type ChatRepository interface {
	Create(ctx context.Context, msg domain.ChatMessage) error
	ListByUserID(ctx context.Context, userID string) ([]domain.ChatMessage, error)
	DeleteByUserID(ctx context.Context, userID string) error
}

type PgChatRepository struct {
	pool *pgxpool.Pool
}

func NewPgChatRepository(pool *pgxpool.Pool) *PgChatRepository {
	return &PgChatRepository{pool: pool}
}

func (r *PgChatRepository) Create(ctx context.Context, msg domain.ChatMessage) error {
	const query = `
		INSERT INTO chats (id, user_id, role, content, mood, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	var mood any
	if msg.Mood != "" {
		mood = msg.Mood
	}

	_, err := r.pool.Exec(ctx, query,
		msg.ID,
		msg.UserID,
		msg.Role,
		msg.Content,
		mood,
		msg.CreatedAt,
	)
	return err
}

func (r *PgChatRepository) ListByUserID(ctx context.Context, userID string) ([]domain.ChatMessage, error) {
	const query = `
		SELECT id, user_id, role, content, mood, created_at
		FROM chats
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.ChatMessage
	for rows.Next() {
		var msg domain.ChatMessage
		var mood sql.NullString

		if err := rows.Scan(
			&msg.ID,
			&msg.UserID,
			&msg.Role,
			&msg.Content,
			&mood,
			&msg.CreatedAt,
		); err != nil {
			return nil, err
		}
		if mood.Valid {
			msg.Mood = mood.String
		}
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return messages, nil
}

func (r *PgChatRepository) DeleteByUserID(ctx context.Context, userID string) error {
	const query = `DELETE FROM chats WHERE user_id = $1`
	_, err := r.pool.Exec(ctx, query, userID)
	return err
}
