// internal/outreach/models.go
package outreach

import (
	"encoding/json"

	"prospector/internal/aijson"
)

// Draft is one generated subject/body pair.
type Draft struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// BatchSummary reports the outcome of a batched generation run.
type BatchSummary struct {
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
	Total     int `json:"total"`
}

// ProgressFunc receives a human-readable status line after each batch item.
type ProgressFunc func(status string)

// EncodeBody serializes a draft into the form stored on GeneratedEmail.Body.
func EncodeBody(d *Draft) string {
	raw, _ := json.Marshal(d)
	return string(raw)
}

// DecodeBody reads a stored email body back into a draft, using the same
// lenient parser the generation path uses, so stored and displayed content
// round-trip exactly.
func DecodeBody(body string) (*Draft, error) {
	raw, err := aijson.ExtractObject(body)
	if err != nil {
		return nil, err
	}
	var d Draft
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, err
	}
	return &d, nil
}
