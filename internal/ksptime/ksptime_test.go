package ksptime

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	testCases := []struct {
		seconds  float64
		expected string
	}{
		{seconds: 0, expected: "00m00s"},
		{seconds: 312.9, expected: "05m12s"},
		{seconds: 3*3600 + 7*60, expected: "3h07m"},
		{seconds: 12*21600 + 4*3600, expected: "12d 4h"},
		{seconds: 2*9201600 + 17*21600, expected: "2y 17d"},
		{seconds: -90, expected: "-01m30s"},
		{seconds: math.Inf(1), expected: "n/a"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expected, Format(tc.seconds), tc.seconds)
	}
}
