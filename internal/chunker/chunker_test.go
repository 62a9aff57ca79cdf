package chunker

import (
	"strings"
	"testing"
)

func TestSplitShortTextSingleChunk(t *testing.T) {
	chunks := Split("короткий текст", 100)
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks", len(chunks))
	}
	if chunks[0].Text != "короткий текст" || chunks[0].Offset != 0 {
		t.Errorf("chunk = %+v", chunks[0])
	}
}

func TestSplitUnlimited(t *testing.T) {
	long := strings.Repeat("а", 10000)
	chunks := Split(long, 0)
	if len(chunks) != 1 {
		t.Errorf("maxRunes 0 must mean unlimited, got %d chunks", len(chunks))
	}
}

func TestSplitPrefersParagraphBoundary(t *testing.T) {
	text := "первый абзац.\n\nвторой абзац подлиннее чтобы не влезло"
	chunks := Split(text, 30)
	if len(chunks) < 2 {
		t.Fatalf("got %d chunks", len(chunks))
	}
	if !strings.HasSuffix(chunks[0].Text, "\n\n") {
		t.Errorf("first chunk %q does not end at the paragraph boundary", chunks[0].Text)
	}
}

func TestSplitPrefersSentenceBoundary(t *testing.T) {
	text := "Первое предложение. Второе предложение заметно длиннее первого."
	chunks := Split(text, 30)
	if len(chunks) < 2 {
		t.Fatalf("got %d chunks", len(chunks))
	}
	if !strings.HasSuffix(chunks[0].Text, ".") {
		t.Errorf("first chunk %q does not end after sentence punctuation", chunks[0].Text)
	}
}

func TestSplitHardCutWithoutBoundaries(t *testing.T) {
	text := strings.Repeat("ы", 25)
	chunks := Split(text, 10)
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}
	for _, c := range chunks {
		if n := len([]rune(c.Text)); n > 10 {
			t.Errorf("chunk of %d runes exceeds the window", n)
		}
	}
}

// Every chunk must be an exact slice of the source at its offset, and
// concatenating all chunks must reproduce the source.
func TestSplitChunksAreExactSlices(t *testing.T) {
	texts := []string{
		"Первое предложение. Второе предложение! Третье?\n\nНовый абзац со своими словами. И ещё одно.",
		strings.Repeat("слово и снова слово. ", 20),
		strings.Repeat("бе", 50),
	}

	for _, text := range texts {
		runes := []rune(text)
		for _, max := range []int{7, 10, 25, 40} {
			var rebuilt strings.Builder
			for _, c := range Split(text, max) {
				n := len([]rune(c.Text))
				if got := string(runes[c.Offset : c.Offset+n]); got != c.Text {
					t.Fatalf("max %d: chunk at offset %d is %q, source slice is %q", max, c.Offset, c.Text, got)
				}
				rebuilt.WriteString(c.Text)
			}
			if rebuilt.String() != text {
				t.Fatalf("max %d: chunks do not reassemble the source", max)
			}
		}
	}
}
