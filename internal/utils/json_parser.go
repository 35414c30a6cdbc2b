package utils

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// ParseModelJSON extracts and parses JSON from text-generation output that may contain:
// - Pure JSON
// - JSON wrapped in markdown code fences (```json ... ```)
// - JSON with surrounding prose
// - JSON with trailing commas or unquoted keys
//
// The target is written exactly once, so a pre-populated target keeps its
// values for fields absent from the reply.
func ParseModelJSON(input string, target interface{}) error {
	extracted, err := ExtractJSON(input)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(extracted), target)
}

// ExtractJSON returns the first candidate region of the input that is valid
// JSON. Strategies are tried in order; the first candidate that parses wins.
func ExtractJSON(input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("empty input")
	}

	candidates := []string{
		input,                      // direct parse (most common case)
		extractFromFence(input),    // fenced code block
		extractJSONFromText(input), // first balanced region in prose
		cleanAndFixJSON(input),     // repair common model mistakes
	}

	var scratch interface{}
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		if json.Unmarshal([]byte(candidate), &scratch) == nil {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("failed to parse JSON from input: %s", truncateString(input, 100))
}

var (
	fenceJSONRe = regexp.MustCompile("(?s)```json\\s*(.+?)\\s*```")
	fenceAnyRe  = regexp.MustCompile("(?s)```\\s*(.+?)\\s*```")
)

// extractFromFence extracts JSON from markdown code fences.
// Supports ```json {...} ``` and bare ``` {...} ```.
func extractFromFence(input string) string {
	if matches := fenceJSONRe.FindStringSubmatch(input); len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}

	if matches := fenceAnyRe.FindStringSubmatch(input); len(matches) > 1 {
		content := strings.TrimSpace(matches[1])
		if strings.HasPrefix(content, "{") || strings.HasPrefix(content, "[") {
			return content
		}
	}

	return ""
}

// extractJSONFromText finds a JSON object or array embedded in prose
func extractJSONFromText(input string) string {
	if start := strings.Index(input, "{"); start >= 0 {
		if extracted := extractBalanced(input[start:], '{', '}'); extracted != "" {
			return extracted
		}
	}

	if start := strings.Index(input, "["); start >= 0 {
		if extracted := extractBalanced(input[start:], '[', ']'); extracted != "" {
			return extracted
		}
	}

	return ""
}

// extractBalanced extracts the first region with balanced open/close runes,
// ignoring braces inside string literals.
func extractBalanced(input string, open, close rune) string {
	depth := 0
	inString := false
	escape := false
	start := 0

	for i, ch := range input {
		if escape {
			escape = false
			continue
		}

		if ch == '\\' {
			escape = true
			continue
		}

		if ch == '"' {
			inString = !inString
			continue
		}

		if inString {
			continue
		}

		if ch == open {
			if depth == 0 {
				start = i
			}
			depth++
		} else if ch == close {
			depth--
			if depth == 0 {
				return input[start : i+1]
			}
		}
	}

	return ""
}

var (
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
	unquotedKeyRe   = regexp.MustCompile(`([{,]\s*)(\w+)(\s*:)`)
	controlCharRe   = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F]`)
)

// cleanAndFixJSON repairs common model formatting mistakes
func cleanAndFixJSON(input string) string {
	s := strings.TrimSpace(input)
	s = strings.TrimPrefix(s, "\uFEFF")

	// Trailing commas before closing braces/brackets
	s = trailingCommaRe.ReplaceAllString(s, "$1")

	// Unquoted keys: {word: "value"} -> {"word": "value"}
	s = unquotedKeyRe.ReplaceAllString(s, `$1"$2"$3`)

	s = controlCharRe.ReplaceAllString(s, "")

	return s
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
