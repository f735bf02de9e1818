package image

import (
	"strings"

	"golang.org/x/image/font"
)

const (
	wordSeparator = " "
	lineSeparator = "\n"
)

// MeasureFunc returns the rendered width of text in pixels.
type MeasureFunc func(text string) float64

// FaceMeasure measures text with the advances of face.
func FaceMeasure(face font.Face) MeasureFunc {
	return func(text string) float64 {
		return float64(font.MeasureString(face, text)) / 64
	}
}

// WrapText breaks text into lines narrower than maxWidth with a single greedy
// pass over space separated words.
//
// The overflow check looks at the width of the line before the current word
// is appended, so a line may run past maxWidth by up to one word. Existing
// captions depend on these breaks; keep it that way.
func WrapText(measure MeasureFunc, text string, maxWidth float64) string {
	if measure(text) < maxWidth {
		return text
	}

	words := strings.Split(text, wordSeparator)
	lines := make([]string, 0, len(words))

	var result string
	var resultSize float64
	for i, word := range words {
		if resultSize < maxWidth {
			result += word + wordSeparator
		} else {
			lines = append(lines, result)
			result = word + wordSeparator
		}
		if i == len(words)-1 {
			lines = append(lines, result)
		}
		resultSize = measure(result)
	}

	return strings.Join(lines, lineSeparator)
}

// WrapParagraphs wraps every line of caption on its own and joins them back
// in their original order.
func WrapParagraphs(measure MeasureFunc, caption string, maxWidth float64) string {
	paragraphs := strings.Split(caption, lineSeparator)
	for i, p := range paragraphs {
		paragraphs[i] = WrapText(measure, p, maxWidth)
	}
	return strings.Join(paragraphs, lineSeparator)
}

// CountLines reports how many header lines text occupies.
func CountLines(text string) int {
	if !strings.Contains(text, lineSeparator) {
		return 1
	}
	return len(strings.Split(text, lineSeparator))
}
