// Package utils carries tiny cross-layer helpers with no domain knowledge.
package utils

import "strconv"

// AtoiDefault parses s as a base-10 int, returning def when s is empty or
// malformed. Handlers use it for optional numeric query parameters such as
// ?limit=, where a bad value should act like an absent one.
func AtoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
