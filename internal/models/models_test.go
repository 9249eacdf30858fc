// internal/models/models_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampProbability(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want int
	}{
		{"below range", -20, 0},
		{"lower bound", 0, 0},
		{"in range", 73, 73},
		{"upper bound", 100, 100},
		{"above range", 140, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Prospect{HireProbability: tt.in}
			p.ClampProbability()
			assert.Equal(t, tt.want, p.HireProbability)
		})
	}
}

func TestProfile_IsComplete(t *testing.T) {
	assert.False(t, Profile{}.IsComplete())
	assert.False(t, Profile{Name: "   "}.IsComplete())
	assert.True(t, Profile{Name: "Ana"}.IsComplete())
	assert.True(t, Profile{Name: "Ana", ContactEmail: "", WebsiteURL: ""}.IsComplete(),
		"only the name is mandatory")
}
