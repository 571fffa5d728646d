package llm

import "fmt"

// FirstJSONObject extracts the first balanced top-level JSON object embedded
// in s. LLM output routinely wraps the JSON in prose or markdown fences, so a
// plain Unmarshal of the whole response is not enough. The scanner tracks
// brace depth and is string- and escape-aware: braces inside string literals
// do not count.
func FirstJSONObject(s string) (string, error) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		ch := s[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			if start >= 0 {
				inString = true
			}
		case '{':
			if start < 0 {
				start = i
			}
			depth++
		case '}':
			if start < 0 {
				continue
			}
			depth--
			if depth == 0 {
				return s[start : i+1], nil
			}
		}
	}

	if start >= 0 {
		return "", fmt.Errorf("unterminated JSON object in model output")
	}
	return "", fmt.Errorf("no JSON object in model output")
}
