package render

import "github.com/fogleman/gg"

// wrapText breaks text into lines no wider than maxWidth, one character at a
// time against the context's current face. CJK text has no word boundaries,
// so a per-character greedy scan is the wrap unit.
func wrapText(dc *gg.Context, text string, maxWidth float64) []string {
	var lines []string
	current := ""

	for _, char := range text {
		candidate := current + string(char)
		if width, _ := dc.MeasureString(candidate); width <= maxWidth {
			current = candidate
			continue
		}
		if current != "" {
			lines = append(lines, current)
		}
		current = string(char)
	}

	if current != "" {
		lines = append(lines, current)
	}
	return lines
}
