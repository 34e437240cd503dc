package compositor

import "strings"

// Average glyph width as a fraction of the font size. drawtext does not
// auto-wrap, so line lengths are estimated ahead of time.
const glyphWidthRatio = 0.6

// wrapCaption word-wraps text so each line fits within maxWidth pixels at
// the given font size. Words longer than a full line stay on their own
// line rather than being split mid-word.
func wrapCaption(text string, fontSize, maxWidth int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	maxChars := int(float64(maxWidth) / (float64(fontSize) * glyphWidthRatio))
	if maxChars < 1 {
		maxChars = 1
	}

	var lines []string
	line := words[0]
	for _, word := range words[1:] {
		if len(line)+1+len(word) <= maxChars {
			line += " " + word
		} else {
			lines = append(lines, line)
			line = word
		}
	}
	lines = append(lines, line)

	return strings.Join(lines, "\n")
}
