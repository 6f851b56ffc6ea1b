package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// addInputFlags registers -f/--raw-field and -F/--field, mirroring gh api.
func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayP("raw-field", "f", nil, "Add a string input in `key=value` format")
	cmd.Flags().StringArrayP("field", "F", nil, "Add a typed input in `key=value` format (true/false become booleans, @file reads a file)")
}

func inputsFromFlags(cmd *cobra.Command) (map[string]any, error) {
	raw, _ := cmd.Flags().GetStringArray("raw-field")
	typed, _ := cmd.Flags().GetStringArray("field")
	return ParseInputFlags(raw, typed)
}

// ParseInputFlags builds an input map from -f (raw string) and -F (typed)
// values. Typed values "true" and "false" become booleans and "@path" is
// replaced by the file's contents. A key may only be given once.
func ParseInputFlags(raw, typed []string) (map[string]any, error) {
	inputs := make(map[string]any, len(raw)+len(typed))

	add := func(flag, pair string, convert func(string) (any, error)) error {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return fmt.Errorf("invalid %s value %q: expected key=value", flag, pair)
		}
		if _, dup := inputs[key]; dup {
			return fmt.Errorf("input %q given more than once", key)
		}
		v, err := convert(value)
		if err != nil {
			return fmt.Errorf("invalid value for input %q: %w", key, err)
		}
		inputs[key] = v
		return nil
	}

	for _, pair := range raw {
		if err := add("-f", pair, func(s string) (any, error) { return s, nil }); err != nil {
			return nil, err
		}
	}
	for _, pair := range typed {
		if err := add("-F", pair, typedValue); err != nil {
			return nil, err
		}
	}
	return inputs, nil
}

func typedValue(s string) (any, error) {
	switch {
	case s == "true":
		return true, nil
	case s == "false":
		return false, nil
	case strings.HasPrefix(s, "@"):
		content, err := os.ReadFile(s[1:])
		if err != nil {
			return nil, err
		}
		return strings.TrimRight(string(content), "\r\n"), nil
	default:
		return s, nil
	}
}
