// internal/aijson/extract.go

// Package aijson recovers a single JSON value from the free-form text a
// language model returns. It is a deliberately lenient boundary adapter for
// an untrusted text source, not a general JSON repair parser: it strips code
// fences, falls back to a bracket-span scan, and validates the result.
package aijson

import (
	"encoding/json"
	"strings"

	apperrors "prospector/internal/common/errors"
)

// ExtractValue returns the single JSON object or array contained in raw.
// The model is instructed to emit pure JSON, but replies routinely arrive
// wrapped in commentary or ```json fences, so every response is treated as
// potentially malformed.
func ExtractValue(raw string) (json.RawMessage, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, apperrors.NewMalformedAIResponseError("empty response", raw)
	}

	if stripped, ok := stripFence(text); ok {
		text = stripped
	} else {
		text = bracketSpan(text)
	}

	if text == "" {
		return nil, apperrors.NewMalformedAIResponseError("no JSON object or array found", raw)
	}
	if !json.Valid([]byte(text)) {
		return nil, apperrors.NewMalformedAIResponseError("extracted span is not valid JSON", raw)
	}
	return json.RawMessage(text), nil
}

// ExtractObject is ExtractValue restricted to a JSON object.
func ExtractObject(raw string) (json.RawMessage, error) {
	v, err := ExtractValue(raw)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(strings.TrimSpace(string(v)), "{") {
		return nil, apperrors.NewMalformedAIResponseError("expected a JSON object", raw)
	}
	return v, nil
}

// ExtractArray is ExtractValue restricted to a JSON array.
func ExtractArray(raw string) (json.RawMessage, error) {
	v, err := ExtractValue(raw)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(strings.TrimSpace(string(v)), "[") {
		return nil, apperrors.NewMalformedAIResponseError("expected a JSON array", raw)
	}
	return v, nil
}

// stripFence removes a leading ``` or ```json marker and the matching closing
// fence. Reports false when the text is not fenced.
func stripFence(text string) (string, bool) {
	if !strings.HasPrefix(text, "```") {
		return "", false
	}

	body := strings.TrimPrefix(text, "```")
	// Drop the info string ("json", "JSON", ...) up to the first newline.
	if idx := strings.IndexByte(body, '\n'); idx >= 0 {
		first := strings.TrimSpace(body[:idx])
		if first == "" || !strings.ContainsAny(first, "{[") {
			body = body[idx+1:]
		}
	}

	if idx := strings.LastIndex(body, "```"); idx >= 0 {
		body = body[:idx]
	}
	return strings.TrimSpace(body), true
}

// bracketSpan slices text from the first opening delimiter to the last
// matching closing delimiter. Returns "" when no usable pair exists.
func bracketSpan(text string) string {
	objStart := strings.IndexByte(text, '{')
	arrStart := strings.IndexByte(text, '[')

	var start int
	var closing byte
	switch {
	case arrStart >= 0 && (objStart < 0 || arrStart < objStart):
		start, closing = arrStart, ']'
	case objStart >= 0:
		start, closing = objStart, '}'
	default:
		return ""
	}

	end := strings.LastIndexByte(text, closing)
	if end <= start {
		return ""
	}
	return text[start : end+1]
}
