package domain

import (
	"time"

	pgvector "github.com/pgvector/pgvector-go"
)

// RecallEntry guarda el embedding de un mensaje para busqueda semantica.
type RecallEntry struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	MessageID string          `json:"message_id"`
	Content   string          `json:"content"`
	Embedding pgvector.Vector `json:"-"`
	CreatedAt time.Time       `json:"created_at"`
}
