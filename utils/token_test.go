package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSessionToken(t *testing.T) {
	first := NewSessionToken()
	second := NewSessionToken()

	assert.Len(t, first, 36)
	assert.Len(t, second, 36)
	assert.NotEqual(t, first, second)
}

func TestValidIdentitySignal(t *testing.T) {
	cases := []struct {
		signal string
		valid  bool
	}{
		{"guest@example.com", true},
		{"a@b", true},
		{"  guest@example.com  ", true},
		{"", false},
		{"no-marker", false},
		{"@leading", false},
		{"trailing@", false},
		{"two@@markers", false},
		{"one@two@three", false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.valid, ValidIdentitySignal(tc.signal), "signal=%q", tc.signal)
	}
}
