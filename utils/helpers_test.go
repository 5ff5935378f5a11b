package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLocationKey(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Lahore", "lahore"},
		{"Rawalpindi, Pakistan", "rawalpindi-pakistan"},
		{"  New   York  ", "new-york"},
		{"D.I. Khan", "d-i-khan"},
		{"---", ""},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, NormalizeLocationKey(tt.input), "input %q", tt.input)
	}
}

func TestFormatCoordinates(t *testing.T) {
	assert.Equal(t, "33.68440, 73.04790", FormatCoordinates(33.6844, 73.0479))
	assert.Equal(t, "0.00000, 0.00000", FormatCoordinates(0, 0))
	assert.Equal(t, "-33.86882, 151.20930", FormatCoordinates(-33.86882, 151.2093))
}

func TestGenerateOTP(t *testing.T) {
	for _, length := range []int{4, 6, 8} {
		otp := GenerateOTP(length)
		assert.Len(t, otp, length)
		for _, ch := range otp {
			assert.True(t, ch >= '0' && ch <= '9', "OTP must be numeric, got %q", otp)
		}
	}
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", TruncateString("short", 10))
	assert.Equal(t, "exactly", TruncateString("exactly", 7))
	assert.Equal(t, "long ...", TruncateString("long string", 5))
}

func TestCalculateTotalPages(t *testing.T) {
	assert.Equal(t, 0, CalculateTotalPages(100, 0))
	assert.Equal(t, 5, CalculateTotalPages(100, 20))
	assert.Equal(t, 6, CalculateTotalPages(101, 20))
	assert.Equal(t, 0, CalculateTotalPages(0, 20))
}
