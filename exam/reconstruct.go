package exam

import (
	"regexp"
	"sort"
	"strings"

	"github.com/examforge-project/examforge/ocr"
	"github.com/examforge-project/examforge/pkg/utils"
)

var (
	inlineOption = regexp.MustCompile(`^([A-D])[.．、 ](.+)$`)

	// The conventional fill-in-the-blank placeholder. It carries no content
	// and is stripped from the stem.
	trailingPlaceholder = regexp.MustCompile(`[（(]\s*[）)]\s*。?\s*$`)
	anyPlaceholder      = regexp.MustCompile(`[（(]\s*[）)]`)
	promptPhrase        = regexp.MustCompile(`依次填入横线处最恰当的是[（(]\s*[）)]。?`)
)

// Reconstruct converts a raw fragment stream into a Question using the
// default thresholds. An empty or all-noise stream yields an empty Question,
// never an error; the caller decides whether that is terminal.
func Reconstruct(fragments []ocr.Fragment) Question {
	return ReconstructWithConfig(fragments, DefaultConfig())
}

// ReconstructWithConfig filters and merges the stream, then dispatches on a
// single predicate: an inline match ("A. text") selects the inline strategy,
// otherwise surviving standalone letters select the detached-marker strategy.
// With neither, the inline strategy degenerates to a stem-only Question.
func ReconstructWithConfig(fragments []ocr.Fragment, config Config) Question {
	filtered := FilterNoise(fragments)
	merged := MergeLines(filtered, config)
	raw := rawText(filtered)

	hasInline := utils.Some(merged, func(f ocr.Fragment) bool {
		return inlineOption.MatchString(f.Text)
	})
	if hasInline {
		return inlineQuestion(merged, raw)
	}

	hasMarkers := utils.Some(merged, func(f ocr.Fragment) bool {
		return IsOptionLetter(f.Text)
	})
	if hasMarkers {
		return detachedQuestion(merged, config, raw)
	}
	return inlineQuestion(merged, raw)
}

// rawText joins the surviving fragments with line breaks in vertical order.
func rawText(fragments []ocr.Fragment) string {
	ordered := sortedByTop(fragments)
	return utils.Join(utils.Map(ordered, func(f ocr.Fragment) string {
		return f.Text
	}), "\n")
}

func sortedByTop(fragments []ocr.Fragment) []ocr.Fragment {
	ordered := make([]ocr.Fragment, len(fragments))
	copy(ordered, fragments)
	sort.SliceStable(ordered, func(i int, j int) bool {
		return ordered[i].Top < ordered[j].Top
	})
	return ordered
}

// inlineQuestion handles the case where label and content share a fragment.
// Everything before the first labelled fragment is stem; every labelled
// fragment contributes one option.
func inlineQuestion(fragments []ocr.Fragment, raw string) Question {
	var options OptionSet
	var stemParts []string
	inOptions := false

	for _, fragment := range fragments {
		match := inlineOption.FindStringSubmatch(fragment.Text)
		if match != nil {
			inOptions = true
			options.Set(match[1][0], strings.TrimSpace(match[2]))
			continue
		}
		if !inOptions {
			stemParts = append(stemParts, fragment.Text)
		}
	}

	return Question{
		Stem:    cleanStem(utils.Join(stemParts, "")),
		Options: options,
		RawText: raw,
	}
}

type marker struct {
	index  int
	letter byte
	top    int
}

// detachedQuestion handles labels rendered as isolated fragments between
// their own content. Fragments are ordered by top; content after the stem
// boundary is assigned to the nearest marker by vertical distance, then
// regrouped into physical lines per option.
func detachedQuestion(fragments []ocr.Fragment, config Config, raw string) Question {
	ordered := sortedByTop(fragments)

	var markers []marker
	isMarker := make([]bool, len(ordered))
	for i, fragment := range ordered {
		if IsOptionLetter(fragment.Text) {
			markers = append(markers, marker{index: i, letter: fragment.Text[0], top: fragment.Top})
			isMarker[i] = true
		}
	}

	stemEnd := stemBoundary(ordered, markers[0].index)
	stem := cleanStem(utils.Join(utils.Map(ordered[:stemEnd], func(f ocr.Fragment) string {
		return f.Text
	}), ""))

	assigned := make([][]ocr.Fragment, len(markers))
	for i := stemEnd; i < len(ordered); i++ {
		if isMarker[i] {
			continue
		}
		owner := nearestMarker(markers, ordered[i].Top)
		assigned[owner] = append(assigned[owner], ordered[i])
	}

	var options OptionSet
	for i, m := range markers {
		options.Set(m.letter, optionText(assigned[i], config))
	}

	return Question{Stem: stem, Options: options, RawText: raw}
}

// stemBoundary finds where the stem ends: the fragment nearest the first
// marker that carries an empty-parenthesis placeholder or a sentence
// terminal. Without one it falls back two fragments before the first marker,
// leaving room for the marker's own preceding content line.
func stemBoundary(ordered []ocr.Fragment, firstMarker int) int {
	for i := firstMarker - 1; i >= 0; i-- {
		if anyPlaceholder.MatchString(ordered[i].Text) || endsWithTerminal(ordered[i].Text) {
			return i + 1
		}
	}
	return max(firstMarker-2, 0)
}

func endsWithTerminal(text string) bool {
	return strings.HasSuffix(text, "。") ||
		strings.HasSuffix(text, "？") ||
		strings.HasSuffix(text, "?") ||
		strings.HasSuffix(text, "！") ||
		strings.HasSuffix(text, "!")
}

// nearestMarker picks the marker with the smallest |Δtop|. Markers are in
// vertical order and only a strictly smaller distance replaces the current
// best, so ties go to the vertically earlier marker.
func nearestMarker(markers []marker, top int) int {
	best := 0
	bestDistance := absInt(top - markers[0].top)
	for i := 1; i < len(markers); i++ {
		if distance := absInt(top - markers[i].top); distance < bestDistance {
			best = i
			bestDistance = distance
		}
	}
	return best
}

// optionText groups a marker's fragments into physical lines by single-link
// top clustering, orders each line left to right, and joins the lines.
func optionText(fragments []ocr.Fragment, config Config) string {
	var lines [][]ocr.Fragment
	for _, fragment := range fragments {
		if len(lines) > 0 {
			first := lines[len(lines)-1][0]
			if absInt(fragment.Top-first.Top) < config.LineClusterPx {
				lines[len(lines)-1] = append(lines[len(lines)-1], fragment)
				continue
			}
		}
		lines = append(lines, []ocr.Fragment{fragment})
	}

	return utils.Join(utils.Map(lines, func(line []ocr.Fragment) string {
		sort.SliceStable(line, func(i int, j int) bool {
			return line[i].Left < line[j].Left
		})
		return utils.Join(utils.Map(line, func(f ocr.Fragment) string {
			return f.Text
		}), " ")
	}), "")
}

func cleanStem(stem string) string {
	stem = promptPhrase.ReplaceAllString(stem, "")
	stem = trailingPlaceholder.ReplaceAllString(stem, "")
	return strings.TrimSpace(stem)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
