package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"moodmate/internal/domain"
	"moodmate/internal/repository"
)

// ChatService encapsula la lógica para el log de conversacion.
type ChatService struct {
	repo repository.ChatRepository
}

var (
	ErrChatServiceNotConfigured = errors.New("chat service not configured")
	ErrChatInvalidRole          = errors.New("chat role invalid")
	ErrChatEmptyContent         = errors.New("chat content empty")
)

func NewChatService(repo repository.ChatRepository) *ChatService {
	return &ChatService{repo: repo}
}

// Append persiste un turno. El contenido se guarda tal cual llega: cualquier
// markup simple es problema de la capa de presentacion.
func (s *ChatService) Append(ctx context.Context, msg domain.ChatMessage) (domain.ChatMessage, error) {
	if s == nil || s.repo == nil {
		return domain.ChatMessage{}, ErrChatServiceNotConfigured
	}

	msg.UserID = strings.TrimSpace(msg.UserID)
	msg.Role = strings.TrimSpace(msg.Role)

	if msg.UserID == "" || !domain.ValidRole(msg.Role) {
		return domain.ChatMessage{}, ErrChatInvalidRole
	}
	if strings.TrimSpace(msg.Content) == "" {
		return domain.ChatMessage{}, ErrChatEmptyContent
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	if err := s.repo.Create(ctx, msg); err != nil {
		return domain.ChatMessage{}, err
	}
	return msg, nil
}

func (s *ChatService) List(ctx context.Context, userID string) ([]domain.ChatMessage, error) {
	if s == nil || s.repo == nil {
		return nil, ErrChatServiceNotConfigured
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return []domain.ChatMessage{}, nil
	}
	return s.repo.ListByUserID(ctx, userID)
}

// ClearAll borra todos los turnos del usuario. No hay soft-delete.
func (s *ChatService) ClearAll(ctx context.Context, userID string) error {
	if s == nil || s.repo == nil {
		return ErrChatServiceNotConfigured
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil
	}
	return s.repo.DeleteByUserID(ctx, userID)
}
