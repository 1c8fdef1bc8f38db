package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"moodmate/internal/domain"
	"moodmate/internal/llm"
	"moodmate/internal/service"
)

type memUserRepo struct {
	usersByID    map[string]domain.User
	usersByEmail map[string]string
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{
		usersByID:    make(map[string]domain.User),
		usersByEmail: make(map[string]string),
	}
}

func (m *memUserRepo) Create(_ context.Context, user domain.User) error {
	if _, exists := m.usersByEmail[user.Email]; exists {
		return &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
	}
	m.usersByID[user.ID] = user
	m.usersByEmail[user.Email] = user.ID
	return nil
}

func (m *memUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	user, ok := m.usersByID[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	id, ok := m.usersByEmail[email]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return m.GetByID(context.Background(), id)
}

type memChatRepo struct {
	messages []domain.ChatMessage
}

func (m *memChatRepo) Create(_ context.Context, msg domain.ChatMessage) error {
	m.messages = append(m.messages, msg)
	return nil
}

func (m *memChatRepo) ListByUserID(_ context.Context, userID string) ([]domain.ChatMessage, error) {
	var out []domain.ChatMessage
	for _, msg := range m.messages {
		if msg.UserID == userID {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (m *memChatRepo) DeleteByUserID(_ context.Context, userID string) error {
	kept := m.messages[:0]
	for _, msg := range m.messages {
		if msg.UserID != userID {
			kept = append(kept, msg)
		}
	}
	m.messages = kept
	return nil
}

type memMoodRepo struct {
	entries []domain.MoodEntry
}

func (m *memMoodRepo) Create(_ context.Context, entry domain.MoodEntry) error {
	m.entries = append(m.entries, entry)
	return nil
}

func (m *memMoodRepo) ListByUserID(_ context.Context, userID string) ([]domain.MoodEntry, error) {
	var out []domain.MoodEntry
	for _, e := range m.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

type slowLLM struct {
	delay time.Duration
}

func (s *slowLLM) Generate(ctx context.Context, _ string) (string, error) {
	select {
	case <-time.After(s.delay):
		return `{"response": "tarde", "mood": "okay"}`, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (s *slowLLM) Embed(_ context.Context, _ string) ([]float32, error) {
	return nil, nil
}

type testEnv struct {
	router   *gin.Engine
	userRepo *memUserRepo
	chatRepo *memChatRepo
	moodRepo *memMoodRepo
	jwtSvc   *service.JWTService
}

func newTestEnv(t *testing.T, llmClient llm.LLMClient) *testEnv {
	t.Helper()
	return buildTestEnv(t, llmClient, nil)
}

// newTestEnvWithLimiter arma el router con un rate limiter de login acotado.
func newTestEnvWithLimiter(t *testing.T, maxAttempts int) *testEnv {
	t.Helper()
	return buildTestEnv(t, nil, service.NewLoginRateLimiter(time.Minute, maxAttempts))
}

func buildTestEnv(t *testing.T, llmClient llm.LLMClient, limiter service.LoginRateLimiter) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zap.NewNop()
	userRepo := newMemUserRepo()
	chatRepo := &memChatRepo{}
	moodRepo := &memMoodRepo{}

	jwtSvc := service.NewJWTServiceWithStore("test-secret", 15*time.Minute, 30*time.Minute, service.NewMemoryRefreshTokenStore())
	userSvc := service.NewUserService(logger, userRepo)
	chatSvc := service.NewChatService(chatRepo)
	moodSvc := service.NewMoodService(moodRepo)
	responderSvc := service.NewResponderService(logger, llmClient, chatSvc, moodSvc, nil, time.Second)

	authH := NewAuthHandler(logger, userSvc, jwtSvc, limiter, false)
	chatH := NewChatHandler(logger, chatSvc, responderSvc)
	moodH := NewMoodHandler(logger, moodSvc)
	router := NewRouter(logger, nil, jwtSvc, authH, chatH, moodH)

	return &testEnv{
		router:   router,
		userRepo: userRepo,
		chatRepo: chatRepo,
		moodRepo: moodRepo,
		jwtSvc:   jwtSvc,
	}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// signupUser registra un usuario via API y devuelve su access token.
func (e *testEnv) signupUser(t *testing.T, email, password, name string) (domain.User, string) {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email": email, "password": password, "name": name,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup %s: expected 201, got %d: %s", email, rec.Code, rec.Body.String())
	}
	var resp struct {
		User   domain.User       `json:"user"`
		Tokens service.TokenPair `json:"tokens"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal signup response: %v", err)
	}
	return resp.User, resp.Tokens.AccessToken
}
