package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsUndefined(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"-", true},
		{"---", true},
		{"----", true},
		{"", false},
		{" - ", false},
		{"-1", false},
		{"--x", false},
		{"0", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsUndefined(tt.input))
		})
	}
}

func TestOptionalString(t *testing.T) {
	assert.Nil(t, optionalString("----"))
	assert.Nil(t, optionalString("    "))
	s := optionalString(" EDDM ")
	if assert.NotNil(t, s) {
		assert.Equal(t, "EDDM", *s)
	}
}
