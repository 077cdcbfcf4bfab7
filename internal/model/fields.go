package model

import (
	"strconv"
	"strings"
)

// Fields is one CSV row keyed by its normalized header name.
// A column missing from the source header is absent from the map, which is
// different from a present column holding an empty cell.
type Fields map[string]string

// Get returns the value for the column and whether the column was present.
func (f Fields) Get(name string) (string, bool) {
	v, ok := f[name]
	return v, ok
}

// Value returns the value for the column, or "" when the column is absent.
func (f Fields) Value(name string) string {
	return f[name]
}

// Number parses the column as a decimal number.
// It reports false when the column is absent, empty, or not numeric.
func (f Fields) Number(name string) (float64, bool) {
	v, ok := f[name]
	if !ok {
		return 0, false
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// isBlank reports whether s is empty after trimming whitespace.
func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
