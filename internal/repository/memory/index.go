package memory

import (
	"strings"
)

// The memory package implements the repository contracts over plain maps,
// with a token-overlap scorer standing in for the store's native text
// index. It backs unit tests and keeps the retrieval seam pluggable.

// scoreText counts distinct query terms found in the searchable fields.
// Zero means no match. Case-insensitive, language-agnostic.
func scoreText(query string, fields ...string) float64 {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return 0
	}

	haystack := strings.ToLower(strings.Join(fields, " "))

	var hits float64
	for _, term := range terms {
		if strings.Contains(haystack, term) {
			hits++
		}
	}
	return hits
}
