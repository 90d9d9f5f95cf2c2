package exam

import (
	"regexp"
	"strings"

	"github.com/examforge-project/examforge/ocr"
	"github.com/examforge-project/examforge/pkg/utils"
)

var noisePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d+/\d+$`),      // page counter, e.g. 1/18
	regexp.MustCompile(`^\d{1,2}:\d{2}`), // clock time, e.g. 14:05
	regexp.MustCompile(`^\d{2,}$`),       // bare multi-digit number
	regexp.MustCompile(`^\.{2,}$`),       // a run of periods
	regexp.MustCompile(`^\\$`),           // lone backslash
}

// Category tags rendered by quiz apps above the question body.
var categoryLabels = map[string]bool{
	"单选题":  true,
	"多选题":  true,
	"判断题":  true,
	"逻辑填空": true,
	"言语理解": true,
}

// Connectivity and status-bar glyphs that survive the byte-length rule.
var statusGlyphs = map[string]bool{
	"WiFi":  true,
	"wifi":  true,
	"LTE":   true,
	"VoLTE": true,
}

// FilterNoise drops noise fragments from the stream, preserving order.
// Surviving fragments carry trimmed text. Pure function of the input and
// the fixed pattern set.
func FilterNoise(fragments []ocr.Fragment) []ocr.Fragment {
	trimmed := utils.Map(fragments, func(f ocr.Fragment) ocr.Fragment {
		f.Text = strings.TrimSpace(f.Text)
		return f
	})
	return utils.Filter(trimmed, func(f ocr.Fragment) bool {
		return !isNoise(f.Text)
	})
}

func isNoise(text string) bool {
	if text == "" {
		return true
	}
	for _, pattern := range noisePatterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	if categoryLabels[text] || statusGlyphs[text] {
		return true
	}
	// CJK content is at least three bytes per rune, so a byte-length test
	// drops ASCII debris ("5G", "·") without touching real option text.
	// Single option letters must survive: they may be a detached marker.
	if len(text) <= 2 && !IsOptionLetter(text) {
		return true
	}
	return false
}
