package utils

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeModelJSON parses JSON out of raw LLM output. Models are instructed
// to answer with JSON only, but in practice the payload may arrive wrapped
// in a markdown code fence or surrounded by prose, so we try progressively
// looser extraction before giving up.
func DecodeModelJSON(raw string, target interface{}) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fmt.Errorf("empty model output")
	}

	// Most common case: the output is already valid JSON.
	if err := json.Unmarshal([]byte(raw), target); err == nil {
		return nil
	}

	if inner := stripCodeFence(raw); inner != "" {
		if err := json.Unmarshal([]byte(inner), target); err == nil {
			return nil
		}
	}

	if obj := firstJSONValue(raw); obj != "" {
		if err := json.Unmarshal([]byte(obj), target); err == nil {
			return nil
		}
	}

	return fmt.Errorf("no parseable JSON in model output: %s", truncate(raw, 120))
}

// stripCodeFence returns the body of the first ``` fence, if any.
func stripCodeFence(raw string) string {
	start := strings.Index(raw, "```")
	if start < 0 {
		return ""
	}
	body := raw[start+3:]
	// Drop an optional language tag like "json" on the opening line.
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		first := strings.TrimSpace(body[:nl])
		if first == "json" || first == "" {
			body = body[nl+1:]
		}
	}
	end := strings.Index(body, "```")
	if end < 0 {
		return strings.TrimSpace(body)
	}
	return strings.TrimSpace(body[:end])
}

// firstJSONValue scans for the first balanced {...} or [...] value,
// respecting string literals and escapes.
func firstJSONValue(raw string) string {
	start := strings.IndexAny(raw, "{[")
	if start < 0 {
		return ""
	}
	open := rune(raw[start])
	closer := '}'
	if open == '[' {
		closer = ']'
	}

	depth := 0
	inString := false
	escaped := false
	for i, ch := range raw[start:] {
		if escaped {
			escaped = false
			continue
		}
		switch {
		case ch == '\\':
			escaped = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == open:
			depth++
		case ch == closer:
			depth--
			if depth == 0 {
				return raw[start : start+i+1]
			}
		}
	}
	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
