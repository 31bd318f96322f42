package utils

import (
	"strings"
	"testing"
)

func TestSplitTextShortInput(t *testing.T) {
	chunks := SplitText("small doc", 100, 10)
	if len(chunks) != 1 || chunks[0] != "small doc" {
		t.Fatalf("expected single chunk with original text, got %v", chunks)
	}
}

func TestSplitTextCoversWholeInput(t *testing.T) {
	text := strings.Repeat("premium espresso grinder with steel burrs ", 50)
	chunks := SplitText(text, 200, 40)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if len([]rune(c)) > 200 {
			t.Errorf("chunk %d exceeds size limit: %d runes", i, len([]rune(c)))
		}
	}
	// The final chunk must end where the document ends.
	last := chunks[len(chunks)-1]
	if !strings.HasSuffix(text, last) {
		t.Error("last chunk does not terminate the document")
	}
}

func TestSplitTextBreaksAtWhitespace(t *testing.T) {
	text := strings.Repeat("word ", 100)
	chunks := SplitText(text, 48, 8)

	for i, c := range chunks[:len(chunks)-1] {
		if strings.HasSuffix(strings.TrimRight(c, " "), "wor") || strings.HasSuffix(c, "wo") || strings.HasSuffix(c, "w") {
			t.Errorf("chunk %d cut a word in half: %q", i, c)
		}
	}
}

func TestSplitTextNoWhitespaceFallsBackToHardCut(t *testing.T) {
	text := strings.Repeat("x", 500)
	chunks := SplitText(text, 100, 20)

	total := 0
	for _, c := range chunks {
		total += len(c)
	}
	if total < 500 {
		t.Errorf("hard-cut chunks lost content: covered %d of 500", total)
	}
}
