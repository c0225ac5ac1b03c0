package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumericStringToCents(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{"100", 10000},
		{"100.50", 10050},
		{"0.99", 99},
		{"0.00", 0},
		{"5.5", 550},
		{".75", 75},
		{"  50.25  ", 5025},
		{"-10.50", -1050},
		{"99.995", 10000},
		{"99.994", 9999},
		{"10000000.00", 1_000_000_000},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cents, err := numericStringToCents(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, cents)
		})
	}
}

func TestNumericStringToCents_Invalid(t *testing.T) {
	for _, input := range []string{"", "   ", "abc", "1.2x", "1.-5", "1e5"} {
		t.Run(input, func(t *testing.T) {
			_, err := numericStringToCents(input)
			assert.Error(t, err)
		})
	}
}

func TestCentsToNumericString(t *testing.T) {
	assert.Equal(t, "50.00", centsToNumericString(5000))
	assert.Equal(t, "100.00", centsToNumericString(10000))
	assert.Equal(t, "0.05", centsToNumericString(5))
	assert.Equal(t, "-1.50", centsToNumericString(-150))
}

func TestMoneyRoundTrip(t *testing.T) {
	for _, cents := range []int64{0, 1, 99, 5000, 123456789} {
		got, err := numericStringToCents(centsToNumericString(cents))
		require.NoError(t, err)
		assert.Equal(t, cents, got)
	}
}
