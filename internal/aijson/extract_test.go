// internal/aijson/extract_test.go
package aijson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "prospector/internal/common/errors"
)

func TestExtractValue_Success(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "bare object",
			raw:  `{"subject":"hola","body":"texto"}`,
			want: `{"subject":"hola","body":"texto"}`,
		},
		{
			name: "bare array",
			raw:  `[{"companyName":"Acme"}]`,
			want: `[{"companyName":"Acme"}]`,
		},
		{
			name: "json fence",
			raw:  "```json\n{\"subject\":\"hola\"}\n```",
			want: `{"subject":"hola"}`,
		},
		{
			name: "plain fence",
			raw:  "```\n[1,2,3]\n```",
			want: `[1,2,3]`,
		},
		{
			name: "surrounding whitespace",
			raw:  "\n\n  {\"a\":1}  \n",
			want: `{"a":1}`,
		},
		{
			name: "array wrapped in prose",
			raw:  "Claro, aquí tienes los resultados:\n[{\"companyName\":\"Acme\"}]\nEspero que te sirvan.",
			want: `[{"companyName":"Acme"}]`,
		},
		{
			name: "object wrapped in prose",
			raw:  "He preparado el borrador: {\"subject\":\"x\",\"body\":\"y\"} ¡Suerte!",
			want: `{"subject":"x","body":"y"}`,
		},
		{
			name: "nested braces inside prose wrapper",
			raw:  "Resultado: {\"contact\":{\"name\":\"Ana\"}} fin",
			want: `{"contact":{"name":"Ana"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractValue(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestExtractValue_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"whitespace only", "   \n\t "},
		{"no brackets at all", "Lo siento, no puedo ayudar con eso."},
		{"opening without closing", "resultado: {\"a\": 1"},
		{"invalid span", "{not json}"},
		{"fence with garbage", "```json\nno es json\n```"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractValue(tt.raw)
			require.Error(t, err)
			assert.Equal(t, apperrors.ErrCodeMalformedAIResponse, apperrors.CodeOf(err))
		})
	}
}

func TestExtractValue_ExcerptIsTruncated(t *testing.T) {
	long := "prefacio sin JSON "
	for len(long) < 2000 {
		long += "bla bla "
	}

	_, err := ExtractValue(long)
	require.Error(t, err)

	se, ok := err.(*apperrors.StandardError)
	require.True(t, ok)
	assert.Less(t, len(se.Details), 400, "details must carry a truncated excerpt, not the full response")
}

func TestExtractObject_RejectsArray(t *testing.T) {
	_, err := ExtractObject(`[1,2]`)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeMalformedAIResponse, apperrors.CodeOf(err))
}

func TestExtractArray_RejectsObject(t *testing.T) {
	_, err := ExtractArray(`{"a":1}`)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeMalformedAIResponse, apperrors.CodeOf(err))
}
