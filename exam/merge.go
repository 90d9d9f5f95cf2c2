package exam

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/examforge-project/examforge/ocr"
)

// Config holds the reconstruction thresholds. Both are resolution and font
// dependent and were tuned against phone screenshots at native resolution.
type Config struct {
	// A fragment longer than this is never folded into an open option
	// accumulator; it is treated as a full line in its own right.
	ContinuationMaxRunes int

	// Two fragments belong to the same physical line when their top
	// coordinates differ by less than this many pixels.
	LineClusterPx int
}

func DefaultConfig() Config {
	return Config{
		ContinuationMaxRunes: 30,
		LineClusterPx:        40,
	}
}

// An option opener: label plus separator, e.g. "A.", "B、", "C " .
var optionStart = regexp.MustCompile(`^[A-D][.．、 ]`)

// MergeLines repairs OCR fragmentation in two order-preserving passes:
// a letter-join pass that reattaches an isolated option letter to the line
// that follows it, and a continuation pass that folds short trailing lines
// back into the option they extend. Bounding boxes are unioned on merge.
func MergeLines(fragments []ocr.Fragment, config Config) []ocr.Fragment {
	return foldContinuations(joinDetachedLetters(fragments), config)
}

func joinDetachedLetters(fragments []ocr.Fragment) []ocr.Fragment {
	var result []ocr.Fragment
	for i := 0; i < len(fragments); i++ {
		current := fragments[i]
		if IsOptionLetter(current.Text) && i+1 < len(fragments) && !IsOptionLetter(fragments[i+1].Text) {
			next := fragments[i+1]
			merged := ocr.Union(current, next)
			merged.Text = current.Text + " " + next.Text
			result = append(result, merged)
			i++
			continue
		}
		result = append(result, current)
	}
	return result
}

func foldContinuations(fragments []ocr.Fragment, config Config) []ocr.Fragment {
	var result []ocr.Fragment
	var open *ocr.Fragment

	flush := func() {
		if open != nil {
			result = append(result, *open)
			open = nil
		}
	}

	for _, fragment := range fragments {
		if optionStart.MatchString(fragment.Text) {
			flush()
			opened := fragment
			open = &opened
			continue
		}

		if open != nil {
			if utf8.RuneCountInString(fragment.Text) < config.ContinuationMaxRunes && !strings.HasSuffix(fragment.Text, "。") {
				merged := ocr.Union(*open, fragment)
				merged.Text = open.Text + fragment.Text
				open = &merged
				continue
			}
			flush()
		}
		result = append(result, fragment)
	}
	flush()
	return result
}
