package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"moodmate/internal/domain"
)

func TestMoods_AppendAndList(t *testing.T) {
	env := newTestEnv(t, nil)
	_, token := env.signupUser(t, "a@x.com", "pw", "A")

	for _, label := range []string{"good", "down", "great"} {
		rec := env.do(t, http.MethodPost, "/api/moods", token, map[string]string{"mood": label})
		if rec.Code != http.StatusCreated {
			t.Fatalf("post mood %q: expected 201, got %d", label, rec.Code)
		}
	}

	rec := env.do(t, http.MethodGet, "/api/moods", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list moods: expected 200, got %d", rec.Code)
	}
	var resp struct {
		Moods []domain.MoodEntry `json:"moods"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Moods) != 3 {
		t.Fatalf("expected 3 moods, got %d", len(resp.Moods))
	}
	want := []domain.Mood{domain.MoodGood, domain.MoodDown, domain.MoodGreat}
	for i, entry := range resp.Moods {
		if entry.Mood != want[i] {
			t.Fatalf("mood %d: expected %q, got %q", i, want[i], entry.Mood)
		}
		if i > 0 && entry.CreatedAt.Before(resp.Moods[i-1].CreatedAt) {
			t.Fatalf("moods out of order at %d", i)
		}
	}
}

func TestMoods_RejectsUnknownLabel(t *testing.T) {
	env := newTestEnv(t, nil)
	_, token := env.signupUser(t, "a@x.com", "pw", "A")

	rec := env.do(t, http.MethodPost, "/api/moods", token, map[string]string{"mood": "ecstatic"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if len(env.moodRepo.entries) != 0 {
		t.Fatalf("unknown label must not persist, got %d", len(env.moodRepo.entries))
	}
}

func TestMoods_IsolationBetweenUsers(t *testing.T) {
	env := newTestEnv(t, nil)
	_, tokenA := env.signupUser(t, "a@x.com", "pw", "A")
	_, tokenB := env.signupUser(t, "b@x.com", "pw", "B")

	env.do(t, http.MethodPost, "/api/moods", tokenA, map[string]string{"mood": "good"})
	env.do(t, http.MethodPost, "/api/moods", tokenB, map[string]string{"mood": "awful"})

	rec := env.do(t, http.MethodGet, "/api/moods", tokenA, nil)
	var resp struct {
		Moods []domain.MoodEntry `json:"moods"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Moods) != 1 || resp.Moods[0].Mood != domain.MoodGood {
		t.Fatalf("expected only A's mood, got %+v", resp.Moods)
	}
}

func TestMoods_Trend(t *testing.T) {
	env := newTestEnv(t, nil)
	_, token := env.signupUser(t, "a@x.com", "pw", "A")

	for _, label := range []string{"great", "okay"} {
		env.do(t, http.MethodPost, "/api/moods", token, map[string]string{"mood": label})
	}

	rec := env.do(t, http.MethodGet, "/api/moods/trend", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("trend: expected 200, got %d", rec.Code)
	}
	var trend struct {
		Points  []domain.TrendPoint `json:"points"`
		Average float64             `json:"average"`
		Count   int                 `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &trend); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if trend.Count != 2 || trend.Average != 4 {
		t.Fatalf("expected average 4 over 2 entries, got %+v", trend)
	}
	if len(trend.Points) != 1 || trend.Points[0].Count != 2 {
		t.Fatalf("expected single day point, got %+v", trend.Points)
	}
}
