// Package envutil reads tuning knobs from the environment.
package envutil

import (
	"os"
	"strconv"

	"github.com/agenticqa/gh-preflight/pkg/logger"
)

// GetIntFromEnv returns the integer in the environment variable name, or
// defaultValue when it is unset, malformed or outside [minValue, maxValue].
// Rejected values are reported through log when it is non-nil.
func GetIntFromEnv(name string, defaultValue, minValue, maxValue int, log *logger.Logger) int {
	raw := os.Getenv(name)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		if log != nil {
			log.Printf("Ignoring %s=%q: not an integer", name, raw)
		}
		return defaultValue
	}
	if value < minValue || value > maxValue {
		if log != nil {
			log.Printf("Ignoring %s=%d: outside [%d, %d]", name, value, minValue, maxValue)
		}
		return defaultValue
	}
	return value
}
