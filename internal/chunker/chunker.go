// Package chunker splits long texts into pieces an LLM can correct in
// one call, preserving paragraph and sentence integrity. Unlike naive
// splitting, every chunk remembers its rune offset in the source text
// so that edits computed inside a chunk can be re-based onto the
// original string without drift.
package chunker

import (
	"unicode"
)

// Chunk is a contiguous slice of the source text. Offset is the rune
// index of the chunk's first rune in the source; chunks are exact
// slices (no trimming), so source[Offset : Offset+len(runes)] == Text.
type Chunk struct {
	Text   string
	Offset int
}

// Split cuts text into chunks of at most maxRunes runes each. Cut
// points are chosen, in order of preference, at paragraph boundaries,
// after sentence-ending punctuation, at whitespace, or as a hard cut
// when nothing better exists within the window. maxRunes <= 0 means
// unlimited.
func Split(text string, maxRunes int) []Chunk {
	runes := []rune(text)
	if maxRunes <= 0 || len(runes) <= maxRunes {
		return []Chunk{{Text: text, Offset: 0}}
	}

	var chunks []Chunk
	start := 0
	for len(runes)-start > maxRunes {
		cut := start + findCut(runes[start:start+maxRunes])
		if cut <= start {
			cut = start + maxRunes
		}
		chunks = append(chunks, Chunk{Text: string(runes[start:cut]), Offset: start})
		start = cut
	}
	if start < len(runes) {
		chunks = append(chunks, Chunk{Text: string(runes[start:]), Offset: start})
	}
	return chunks
}

// findCut returns the rune index within window at which to cut,
// searching backwards for the best boundary. The returned index is
// always in (0, len(window)].
func findCut(window []rune) int {
	// Paragraph boundary: cut after the blank line.
	for i := len(window) - 1; i > 0; i-- {
		if window[i] == '\n' && window[i-1] == '\n' {
			return i + 1
		}
	}
	// Sentence end followed by whitespace: cut after the punctuation.
	for i := len(window) - 2; i > 0; i-- {
		r := window[i]
		if (r == '.' || r == '!' || r == '?' || r == '…') && unicode.IsSpace(window[i+1]) {
			return i + 1
		}
	}
	// Word boundary.
	for i := len(window) - 1; i > 0; i-- {
		if unicode.IsSpace(window[i]) {
			return i
		}
	}
	// Hard cut.
	return len(window)
}
