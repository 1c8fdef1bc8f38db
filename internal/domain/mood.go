package domain

import (
	"strings"
	"time"
)

// Mood es una etiqueta del conjunto cerrado de estados de animo.
type Mood string

const (
	MoodGreat Mood = "great"
	MoodGood  Mood = "good"
	MoodOkay  Mood = "okay"
	MoodDown  Mood = "down"
	MoodAwful Mood = "awful"
)

var moodScores = map[Mood]int{
	MoodGreat: 5,
	MoodGood:  4,
	MoodOkay:  3,
	MoodDown:  2,
	MoodAwful: 1,
}

// ParseMood normaliza y valida una etiqueta contra el conjunto cerrado.
func ParseMood(s string) (Mood, bool) {
	m := Mood(strings.ToLower(strings.TrimSpace(s)))
	_, ok := moodScores[m]
	return m, ok
}

// Score devuelve el valor numerico (1-5) usado para la tendencia.
func (m Mood) Score() int {
	return moodScores[m]
}

func (m Mood) String() string {
	return string(m)
}

type MoodEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Mood      Mood      `json:"mood"`
	CreatedAt time.Time `json:"created_at"`
}

// TrendPoint agrega las entradas de un mismo dia.
type TrendPoint struct {
	Day     string  `json:"day"`
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}
