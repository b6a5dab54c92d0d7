// Package utils provides small, generic helpers shared across layers. Nothing
// here knows about the domain.
package utils

import "strconv"

// AtoiDefault parses s as an int and returns def when s is empty or not a
// valid integer. Query parameters are passed through untrimmed, so a value
// with stray whitespace falls back to the default.
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// Atoi64Default is AtoiDefault for int64 values, used where upstream APIs
// take 64-bit result caps.
func Atoi64Default(s string, def int64) int64 {
	if s == "" {
		return def
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	return def
}
