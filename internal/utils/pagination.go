// Package utils holds small helpers with no domain knowledge, shared by the
// transport layer.
package utils

import "strconv"

// AtoiDefault parses s as an integer, falling back to def when s is empty or
// not a valid int. Handlers use it for query parameters such as page and
// page_size, where a malformed value should mean "use the default" rather
// than an error.
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}
