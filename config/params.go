package config

import "fmt"

// paramString reads a required string param.
func paramString(params map[string]any, key string) (string, error) {
	v, ok := params[key]
	if !ok {
		return "", fmt.Errorf("config: missing required param %q", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("config: param %q must be a string, got %T", key, v)
	}
	return s, nil
}

// optString reads an optional string param, returning def if absent.
func optString(params map[string]any, key, def string) string {
	v, ok := params[key]
	if !ok {
		return def
	}
	if s, ok := v.(string); ok {
		return s
	}
	return def
}

// optFloat reads an optional numeric param (yaml.v3 decodes "30" as int
// and "30.0" as float64, so both are accepted), returning def if absent or
// not numeric.
func optFloat(params map[string]any, key string, def float64) float64 {
	v, ok := params[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return def
	}
}

// optInt is optFloat truncated to int, for count-shaped params.
func optInt(params map[string]any, key string, def int) int {
	return int(optFloat(params, key, float64(def)))
}
