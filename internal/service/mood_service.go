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

// MoodService encapsula la lógica para el historial de animo.
type MoodService struct {
	repo repository.MoodRepository
}

var (
	ErrMoodServiceNotConfigured = errors.New("mood service not configured")
	ErrUnknownMood              = errors.New("unknown mood label")
)

func NewMoodService(repo repository.MoodRepository) *MoodService {
	return &MoodService{repo: repo}
}

// Append valida la etiqueta contra el conjunto cerrado antes de persistir.
func (s *MoodService) Append(ctx context.Context, userID, label string) (domain.MoodEntry, error) {
	if s == nil || s.repo == nil {
		return domain.MoodEntry{}, ErrMoodServiceNotConfigured
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.MoodEntry{}, ErrUnknownMood
	}
	mood, ok := domain.ParseMood(label)
	if !ok {
		return domain.MoodEntry{}, ErrUnknownMood
	}

	entry := domain.MoodEntry{
		ID:        uuid.NewString(),
		UserID:    userID,
		Mood:      mood,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return domain.MoodEntry{}, err
	}
	return entry, nil
}

func (s *MoodService) List(ctx context.Context, userID string) ([]domain.MoodEntry, error) {
	if s == nil || s.repo == nil {
		return nil, ErrMoodServiceNotConfigured
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return []domain.MoodEntry{}, nil
	}
	return s.repo.ListByUserID(ctx, userID)
}

// TrendResult resume el historial para la vista de tendencia.
type TrendResult struct {
	Points  []domain.TrendPoint `json:"points"`
	Average float64             `json:"average"`
	Count   int                 `json:"count"`
}

// Trend agrega el historial ascendente en promedios por dia (UTC).
func (s *MoodService) Trend(ctx context.Context, userID string) (TrendResult, error) {
	entries, err := s.List(ctx, userID)
	if err != nil {
		return TrendResult{}, err
	}
	if len(entries) == 0 {
		return TrendResult{Points: []domain.TrendPoint{}}, nil
	}

	var points []domain.TrendPoint
	var daySum, totalSum int
	dayCount := 0
	currentDay := ""

	flush := func() {
		if dayCount == 0 {
			return
		}
		points = append(points, domain.TrendPoint{
			Day:     currentDay,
			Average: float64(daySum) / float64(dayCount),
			Count:   dayCount,
		})
	}

	for _, e := range entries {
		day := e.CreatedAt.UTC().Format("2006-01-02")
		if day != currentDay {
			flush()
			currentDay = day
			daySum = 0
			dayCount = 0
		}
		score := e.Mood.Score()
		daySum += score
		totalSum += score
		dayCount++
	}
	flush()

	return TrendResult{
		Points:  points,
		Average: float64(totalSum) / float64(len(entries)),
		Count:   len(entries),
	}, nil
}
