package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"go.uber.org/zap"

	"moodmate/internal/domain"
	"moodmate/internal/llm"
	"moodmate/internal/repository"
)

// ResponderService orquesta un turno completo: persiste el mensaje del
// usuario, consulta el LLM y persiste la respuesta junto con el animo inferido.
type ResponderService struct {
	logger    *zap.Logger
	llmClient llm.LLMClient
	chats     *ChatService
	moods     *MoodService
	recall    repository.RecallRepository
	parser    ResponderParser
	timeout   time.Duration
}

var ErrResponderFailure = errors.New("responder failure")

const (
	recentTurnWindow = 10
	recallLimit      = 3
)

func NewResponderService(
	logger *zap.Logger,
	llmClient llm.LLMClient,
	chats *ChatService,
	moods *MoodService,
	recall repository.RecallRepository,
	timeout time.Duration,
) *ResponderService {
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	return &ResponderService{
		logger:    logger,
		llmClient: llmClient,
		chats:     chats,
		moods:     moods,
		recall:    recall,
		parser:    ResponderParser{},
		timeout:   timeout,
	}
}

// TurnResult agrupa lo que un turno deja persistido.
type TurnResult struct {
	UserMessage domain.ChatMessage `json:"user_message"`
	BotMessage  domain.ChatMessage `json:"bot_message"`
	Mood        domain.MoodEntry   `json:"mood"`
}

// Turn ejecuta el flujo completo de un turno de conversacion. Los writes
// posteriores a la llamada al LLM se esperan y sus errores se propagan:
// nada queda en fire-and-forget.
func (s *ResponderService) Turn(ctx context.Context, userID, content string) (TurnResult, error) {
	prior, err := s.chats.List(ctx, userID)
	if err != nil {
		return TurnResult{}, fmt.Errorf("list prior turns: %w", err)
	}

	userMsg, err := s.chats.Append(ctx, domain.ChatMessage{
		UserID:  userID,
		Role:    domain.RoleUser,
		Content: content,
	})
	if err != nil {
		return TurnResult{}, err
	}

	embedding := s.embedBestEffort(ctx, content)
	prompt := s.buildPrompt(ctx, userID, content, prior, embedding)

	llmCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.llmClient.Generate(llmCtx, prompt)
	if err != nil {
		return TurnResult{}, fmt.Errorf("%w: %v", ErrResponderFailure, err)
	}

	reply, ok := s.parser.Parse(raw)
	if !ok {
		return TurnResult{}, fmt.Errorf("%w: unparseable reply", ErrResponderFailure)
	}

	botMsg, err := s.chats.Append(ctx, domain.ChatMessage{
		UserID:  userID,
		Role:    domain.RoleBot,
		Content: reply.Response,
		Mood:    reply.Mood.String(),
	})
	if err != nil {
		return TurnResult{}, fmt.Errorf("persist bot message: %w", err)
	}

	moodEntry, err := s.moods.Append(ctx, userID, reply.Mood.String())
	if err != nil {
		return TurnResult{}, fmt.Errorf("persist mood: %w", err)
	}

	s.indexBestEffort(ctx, userMsg, embedding)

	return TurnResult{
		UserMessage: userMsg,
		BotMessage:  botMsg,
		Mood:        moodEntry,
	}, nil
}

func (s *ResponderService) buildPrompt(ctx context.Context, userID, content string, prior []domain.ChatMessage, embedding []float32) string {
	var b strings.Builder
	b.WriteString("You are a warm, supportive companion in a mood-tracking app. ")
	b.WriteString("Reply to the user's latest message and classify their current mood.\n")
	b.WriteString("Respond with ONLY a JSON object in this exact format:\n")
	b.WriteString(`{"response": "your reply", "mood": "one of: great, good, okay, down, awful"}`)
	b.WriteString("\n")

	recent := prior
	if len(recent) > recentTurnWindow {
		recent = recent[len(recent)-recentTurnWindow:]
	}

	// El recall solo aporta mensajes fuera de la ventana reciente; lo que ya
	// esta en la ventana se omite para no repetirlo en el prompt.
	if recalled := s.recallBestEffort(ctx, userID, embedding, recent); len(recalled) > 0 {
		b.WriteString("\nThings the user said in the past that may be relevant:\n")
		for _, r := range recalled {
			b.WriteString("- ")
			b.WriteString(r.Content)
			b.WriteString("\n")
		}
	}

	if len(recent) > 0 {
		b.WriteString("\nRecent conversation:\n")
		for _, m := range recent {
			role := "User"
			if m.Role == domain.RoleBot {
				role = "Bot"
			}
			fmt.Fprintf(&b, "%s: %s\n", role, m.Content)
		}
	}

	b.WriteString("\nLatest message:\n")
	b.WriteString(content)
	return b.String()
}

func (s *ResponderService) embedBestEffort(ctx context.Context, content string) []float32 {
	if s.llmClient == nil {
		return nil
	}
	embedding, err := s.llmClient.Embed(ctx, content)
	if err != nil {
		s.logger.Warn("embed failed, turn continues without recall", zap.Error(err))
		return nil
	}
	return embedding
}

func (s *ResponderService) recallBestEffort(ctx context.Context, userID string, embedding []float32, recent []domain.ChatMessage) []domain.RecallEntry {
	if s.recall == nil || len(embedding) == 0 {
		return nil
	}
	entries, err := s.recall.Search(ctx, userID, pgvector.NewVector(embedding), recallLimit)
	if err != nil {
		s.logger.Warn("recall search failed", zap.Error(err), zap.String("user_id", userID))
		return nil
	}

	inWindow := make(map[string]struct{}, len(recent))
	for _, m := range recent {
		inWindow[m.ID] = struct{}{}
	}
	kept := entries[:0]
	for _, e := range entries {
		if _, dup := inWindow[e.MessageID]; dup {
			continue
		}
		kept = append(kept, e)
	}
	return kept
}

func (s *ResponderService) indexBestEffort(ctx context.Context, msg domain.ChatMessage, embedding []float32) {
	if s.recall == nil || len(embedding) == 0 {
		return
	}
	entry := domain.RecallEntry{
		ID:        uuid.NewString(),
		UserID:    msg.UserID,
		MessageID: msg.ID,
		Content:   msg.Content,
		Embedding: pgvector.NewVector(embedding),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.recall.Create(ctx, entry); err != nil {
		s.logger.Warn("recall index failed", zap.Error(err), zap.String("message_id", msg.ID))
	}
}
