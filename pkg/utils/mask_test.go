package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskPhone(t *testing.T) {
	tests := []struct {
		phone    string
		expected string
	}{
		{"5551234567", "55******67"},
		{"123", "***"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, MaskPhone(tt.phone))
	}
}

func TestMaskString(t *testing.T) {
	assert.Equal(t, "ab***fg", MaskString("abcdefg", 2, 2, '*'))
	assert.Equal(t, "***", MaskString("abc", 2, 2, '*'))
}
