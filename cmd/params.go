package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/huangsam/insight/schema"
)

// parseParams turns key=value pairs into analysis parameters.
// Numbers and booleans are coerced; everything else stays a string, so
// list parameters can be passed comma-separated (metrics=salary,bonus).
func parseParams(pairs []string) (schema.Params, error) {
	params := schema.Params{}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid parameter %q (expected key=value)", pair)
		}
		params[key] = coerceValue(strings.TrimSpace(value))
	}
	return params, nil
}

func coerceValue(s string) any {
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return s
}
