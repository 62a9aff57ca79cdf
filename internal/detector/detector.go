// Package detector answers one question: does this text look like
// Russian? It distinguishes Russian from the neighbouring Cyrillic
// languages the corrector is most often fed by mistake.
package detector

import (
	lingua "github.com/pemistahl/lingua-go"
)

// minDetectionRunes is the minimum rune count for a reliable verdict.
// Shorter texts are assumed to be Russian rather than rejected.
const minDetectionRunes = 20

type Detector struct {
	detector lingua.LanguageDetector
}

// New builds a detector over the languages the corrector realistically
// encounters. A focused set is both faster to build and more accurate
// than all-languages detection.
func New() *Detector {
	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(
			lingua.Russian,
			lingua.Ukrainian,
			lingua.Belarusian,
			lingua.Bulgarian,
			lingua.English,
			lingua.German,
		).
		Build()

	return &Detector{detector: detector}
}

// Detect returns the most likely language of text.
func (d *Detector) Detect(text string) (lingua.Language, bool) {
	if text == "" {
		return lingua.Unknown, false
	}
	return d.detector.DetectLanguageOf(text)
}

// IsRussian reports whether text appears to be Russian. Texts too short
// for reliable detection and texts whose language cannot be determined
// pass as Russian; only a confident foreign verdict returns false along
// with the detected language's name.
func (d *Detector) IsRussian(text string) (bool, string) {
	if len([]rune(text)) < minDetectionRunes {
		return true, ""
	}
	lang, ok := d.Detect(text)
	if !ok {
		return true, ""
	}
	if lang == lingua.Russian {
		return true, ""
	}
	return false, lang.String()
}
