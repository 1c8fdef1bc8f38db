package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"moodmate/internal/domain"
)

type mockUserRepo struct {
	usersByID    map[string]domain.User
	usersByEmail map[string]string
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		usersByID:    make(map[string]domain.User),
		usersByEmail: make(map[string]string),
	}
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) error {
	if _, exists := m.usersByEmail[user.Email]; exists {
		return &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
	}
	m.usersByID[user.ID] = user
	m.usersByEmail[user.Email] = user.ID
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	user, ok := m.usersByID[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	id, ok := m.usersByEmail[email]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return m.GetByID(context.Background(), id)
}

func TestUserService_SignupAndAuthenticate(t *testing.T) {
	svc := NewUserService(zap.NewNop(), newMockUserRepo())

	user, err := svc.Signup(context.Background(), SignupInput{
		Email:       "  A@x.COM ",
		Password:    "pw",
		DisplayName: "A",
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if user.Email != "a@x.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if user.PasswordHash == "" || user.PasswordHash == "pw" {
		t.Fatalf("expected hashed password")
	}

	got, err := svc.Authenticate(context.Background(), "a@x.com", "pw")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("expected same user, got %q vs %q", got.ID, user.ID)
	}
}

func TestUserService_DuplicateEmail(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(zap.NewNop(), repo)

	if _, err := svc.Signup(context.Background(), SignupInput{Email: "a@x.com", Password: "pw"}); err != nil {
		t.Fatalf("first signup: %v", err)
	}
	_, err := svc.Signup(context.Background(), SignupInput{Email: "a@x.com", Password: "other"})
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
	if len(repo.usersByID) != 1 {
		t.Fatalf("expected no second row, got %d", len(repo.usersByID))
	}
}

func TestUserService_InvalidCredentialsIndistinguishable(t *testing.T) {
	svc := NewUserService(zap.NewNop(), newMockUserRepo())

	if _, err := svc.Signup(context.Background(), SignupInput{Email: "a@x.com", Password: "pw"}); err != nil {
		t.Fatalf("signup: %v", err)
	}

	_, errWrongPass := svc.Authenticate(context.Background(), "a@x.com", "nope")
	_, errUnknown := svc.Authenticate(context.Background(), "b@x.com", "pw")

	if !errors.Is(errWrongPass, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", errWrongPass)
	}
	if !errors.Is(errUnknown, ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", errUnknown)
	}
	if errWrongPass.Error() != errUnknown.Error() {
		t.Fatalf("errors must be identical: %q vs %q", errWrongPass, errUnknown)
	}
}

func TestUserService_SignupValidation(t *testing.T) {
	svc := NewUserService(zap.NewNop(), newMockUserRepo())

	if _, err := svc.Signup(context.Background(), SignupInput{Email: "not-an-email", Password: "pw"}); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
	if _, err := svc.Signup(context.Background(), SignupInput{Email: "a@x.com", Password: "   "}); !errors.Is(err, ErrEmptyPassword) {
		t.Fatalf("expected ErrEmptyPassword, got %v", err)
	}
}

func TestUserService_GetByIDNotFound(t *testing.T) {
	svc := NewUserService(zap.NewNop(), newMockUserRepo())

	if _, err := svc.GetByID(context.Background(), "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
