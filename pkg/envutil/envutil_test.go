//go:build !integration

package envutil

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agenticqa/gh-preflight/pkg/logger"
)

func TestGetIntFromEnv(t *testing.T) {
	const name = "PREFLIGHT_TEST_INT_VALUE"
	log := logger.New("envutil:test")

	tests := []struct {
		name     string
		envValue string
		expected int
	}{
		{name: "default when unset", envValue: "", expected: 6},
		{name: "valid value", envValue: "12", expected: 12},
		{name: "minimum", envValue: "1", expected: 1},
		{name: "maximum", envValue: "30", expected: 30},
		{name: "below minimum", envValue: "0", expected: 6},
		{name: "above maximum", envValue: "31", expected: 6},
		{name: "not a number", envValue: "many", expected: 6},
		{name: "negative", envValue: "-4", expected: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(name, tt.envValue)
			assert.Equal(t, tt.expected, GetIntFromEnv(name, 6, 1, 30, log))
			assert.Equal(t, tt.expected, GetIntFromEnv(name, 6, 1, 30, nil))
		})
	}
}
