package service

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"moodmate/internal/domain"
)

// ResponderReply es el contrato que esperamos del LLM por cada turno.
type ResponderReply struct {
	Response string      `json:"response"`
	Mood     domain.Mood `json:"mood"`
}

// ResponderParser centraliza la limpieza y el parseo de respuestas del LLM.
type ResponderParser struct{}

// Parse intenta extraer {response, mood} de la salida cruda del modelo.
// El mood siempre sale validado: etiquetas desconocidas se coercen a okay.
func (ResponderParser) Parse(raw string) (ResponderReply, bool) {
	cleaned := cleanJSONFences(raw)

	jsonObj := extractFirstJSONObject(cleaned)
	if jsonObj == "" {
		jsonObj = extractFirstJSONObject(raw)
	}

	tryUnmarshal := func(candidate string) (ResponderReply, bool) {
		var tmp struct {
			Response string `json:"response"`
			Mood     string `json:"mood"`
		}
		if err := json.Unmarshal([]byte(candidate), &tmp); err != nil {
			return ResponderReply{}, false
		}
		text := strings.TrimSpace(tmp.Response)
		if text == "" {
			return ResponderReply{}, false
		}
		return ResponderReply{
			Response: text,
			Mood:     coerceMood(tmp.Mood),
		}, true
	}

	if jsonObj != "" {
		if reply, ok := tryUnmarshal(jsonObj); ok {
			return reply, true
		}
	}
	if reply, ok := tryUnmarshal(cleaned); ok {
		return reply, true
	}

	// JSON sucio: rescatamos los campos por regex.
	if text, ok := extractStringField(cleaned, "response"); ok {
		mood, _ := extractStringField(cleaned, "mood")
		return ResponderReply{Response: text, Mood: coerceMood(mood)}, true
	}
	if text, ok := extractStringField(raw, "response"); ok {
		mood, _ := extractStringField(raw, "mood")
		return ResponderReply{Response: text, Mood: coerceMood(mood)}, true
	}

	// Ultimo recurso: el modelo contesto en texto plano.
	fallback := strings.TrimSpace(cleaned)
	if fallback == "" {
		return ResponderReply{}, false
	}
	return ResponderReply{Response: fallback, Mood: domain.MoodOkay}, true
}

// coerceMood valida contra el enum; lo desconocido cae en el punto medio.
func coerceMood(label string) domain.Mood {
	mood, ok := domain.ParseMood(label)
	if !ok {
		return domain.MoodOkay
	}
	return mood
}

// cleanJSONFences quita fences ```json ... ``` y BOM, dejando el contenido usable.
func cleanJSONFences(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	s = strings.TrimPrefix(s, "\uFEFF")

	reStart := regexp.MustCompile("(?is)^\\s*```(?:json)?\\s*")
	reEnd := regexp.MustCompile("(?is)\\s*```\\s*$")
	s = reStart.ReplaceAllString(s, "")
	s = reEnd.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

func extractStringField(s, field string) (string, bool) {
	re := regexp.MustCompile(`(?is)"` + regexp.QuoteMeta(field) + `"\s*:\s*"((?:\\.|[^"\\])*)"`)
	m := re.FindStringSubmatch(s)
	if len(m) < 2 {
		return "", false
	}

	raw := m[1]
	unq, err := strconv.Unquote(`"` + raw + `"`)
	if err != nil {
		unq = unescapeMinimalEscapes(raw)
	}
	unq = strings.TrimSpace(unq)
	if unq == "" {
		return "", false
	}
	return unq, true
}

func unescapeMinimalEscapes(s string) string {
	replacer := strings.NewReplacer(
		`\\`, `\`,
		`\"`, `"`,
		`\n`, "\n",
		`\r`, "\r",
		`\t`, "\t",
	)
	return replacer.Replace(s)
}
