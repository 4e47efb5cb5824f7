package render

import "strings"

const (
	// wrapTriggerChars is the label length above which wrapping kicks in.
	wrapTriggerChars = 14

	// charWidthPx estimates the rendered width of one character.
	charWidthPx = 7.0
)

// WrapLabel splits a label greedily into lines whose estimated rendered width
// stays within maxWidthPx. Short labels come back as a single line. A single
// word longer than the limit gets its own line rather than being broken
// mid-word.
func WrapLabel(label string, maxWidthPx float64) []string {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil
	}
	if len(label) <= wrapTriggerChars {
		return []string{label}
	}

	var lines []string
	var current string
	for _, word := range strings.Fields(label) {
		switch {
		case current == "":
			current = word
		case labelWidthPx(current+" "+word) <= maxWidthPx:
			current += " " + word
		default:
			lines = append(lines, current)
			current = word
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

// labelWidthPx estimates the rendered pixel width of a line.
func labelWidthPx(line string) float64 {
	return float64(len(line)) * charWidthPx
}
