package utils

import "unicode"

// SplitText splits a document into chunks of at most chunkSize runes,
// with the last overlap runes of each chunk repeated at the start of
// the next one. Chunk boundaries prefer the last whitespace inside the
// window so product names and sentences are not cut mid-word; if a
// window contains no whitespace the split is a hard cut.
func SplitText(text string, chunkSize int, overlap int) []string {
	runes := []rune(text)
	if len(runes) <= chunkSize {
		return []string{text}
	}

	step := chunkSize - overlap
	if step <= 0 {
		step = chunkSize
	}

	var chunks []string
	for start := 0; start < len(runes); {
		end := start + chunkSize
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}

		cut := lastSpaceBefore(runes, start, end)
		chunks = append(chunks, string(runes[start:cut]))

		next := cut - overlap
		if next <= start {
			next = start + step
		}
		start = next
	}

	return chunks
}

// lastSpaceBefore finds a whitespace boundary in (start, end], falling
// back to end when the window has none in its second half.
func lastSpaceBefore(runes []rune, start, end int) int {
	min := start + (end-start)/2
	for i := end; i > min; i-- {
		if unicode.IsSpace(runes[i-1]) {
			return i
		}
	}
	return end
}
