package service

import "strings"

// extractFirstJSONObject devuelve el primer objeto JSON balanceado dentro de
// s, o "" si no hay ninguno. Las llaves dentro de strings (incluyendo
// escapes) no cuentan para el balanceo.
func extractFirstJSONObject(s string) string {
	open := strings.IndexByte(s, '{')
	if open == -1 {
		return ""
	}

	var inStr, escaped bool
	depth := 0
	for i := open; i < len(s); i++ {
		c := s[i]

		if inStr {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inStr = false
			}
			continue
		}

		switch c {
		case '"':
			inStr = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[open : i+1]
			}
			if depth < 0 {
				return ""
			}
		}
	}
	return ""
}
