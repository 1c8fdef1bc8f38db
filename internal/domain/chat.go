package domain

import "time"

const (
	RoleUser = "user"
	RoleBot  = "bot"
)

// ValidRole indica si el rol pertenece al conjunto aceptado para mensajes.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleBot
}

type ChatMessage struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Mood      string    `json:"mood,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
