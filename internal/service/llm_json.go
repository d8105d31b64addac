package service

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var trailingCommaRe = regexp.MustCompile(`,(\s*[}\]])`)

// extractJSON locates the JSON payload inside raw model output. Models
// routinely wrap JSON in markdown fences or explanatory prose, so this
// strips fences, scans for the first balanced {...} or [...] while
// ignoring brackets inside strings, and applies two mechanical repairs:
// appending missing closers and dropping trailing commas. Anything it
// returns passes json.Valid; anything else is an error for the caller
// to surface, never a silent default.
func extractJSON(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("empty response")
	}

	text = stripFences(text)
	if text == "" {
		return "", fmt.Errorf("response empty after removing code fences")
	}

	if json.Valid([]byte(text)) {
		return text, nil
	}

	start := strings.IndexAny(text, "{[")
	if start == -1 {
		return "", fmt.Errorf("no JSON object or array found in response: %.200s", text)
	}

	end, missing := scanBalanced(text, start)
	if end == -1 {
		// Unterminated value: try closing it ourselves, then try cutting
		// at the last closer present in the text.
		candidate := text[start:] + missing
		if repaired, ok := tryRepair(candidate); ok {
			return repaired, nil
		}
		if last := strings.LastIndexAny(text, "}]"); last > start {
			if repaired, ok := tryRepair(text[start : last+1]); ok {
				return repaired, nil
			}
		}
		return "", fmt.Errorf("unbalanced JSON in response: %.200s", text[start:])
	}

	candidate := text[start : end+1]
	if repaired, ok := tryRepair(candidate); ok {
		return repaired, nil
	}
	return "", fmt.Errorf("invalid JSON in response: %.200s", candidate)
}

func stripFences(text string) string {
	if strings.HasPrefix(text, "```json") {
		text = text[len("```json"):]
	} else if strings.HasPrefix(text, "```") {
		text = text[len("```"):]
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

// scanBalanced walks text from start tracking bracket depth outside of
// string literals. It returns the index of the closing bracket, or -1
// with the closers that would balance what was opened.
func scanBalanced(text string, start int) (end int, missing string) {
	var stack []byte
	inString := false
	var quote byte
	escaped := false

	for i := start; i < len(text); i++ {
		ch := text[i]
		if escaped {
			escaped = false
			continue
		}
		if inString {
			switch ch {
			case '\\':
				escaped = true
			case quote:
				inString = false
			}
			continue
		}
		switch ch {
		case '"', '\'':
			inString = true
			quote = ch
		case '{', '[':
			stack = append(stack, ch)
		case '}', ']':
			if len(stack) == 0 {
				continue
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return i, ""
			}
		}
	}

	var sb strings.Builder
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == '{' {
			sb.WriteByte('}')
		} else {
			sb.WriteByte(']')
		}
	}
	return -1, sb.String()
}

func tryRepair(candidate string) (string, bool) {
	if json.Valid([]byte(candidate)) {
		return candidate, true
	}
	cleaned := trailingCommaRe.ReplaceAllString(candidate, "$1")
	if json.Valid([]byte(cleaned)) {
		return cleaned, true
	}
	return "", false
}
