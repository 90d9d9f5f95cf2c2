package exam

// letters is the closed set of option labels. Anything outside it never
// enters an OptionSet.
var letters = [4]byte{'A', 'B', 'C', 'D'}

// OptionSet is an ordered map over the closed label set A-D. All four slots
// exist from the start; Set overwrites, so a repeated label is last-write-wins
// rather than an error.
type OptionSet struct {
	texts   [4]string
	present [4]bool
}

func optionIndex(letter byte) int {
	if letter < 'A' || letter > 'D' {
		return -1
	}
	return int(letter - 'A')
}

// IsOptionLetter reports whether text is exactly one option label.
func IsOptionLetter(text string) bool {
	return len(text) == 1 && optionIndex(text[0]) >= 0
}

// Set assigns text to a label. Labels outside A-D are ignored and reported
// through the return value.
func (s *OptionSet) Set(letter byte, text string) bool {
	i := optionIndex(letter)
	if i < 0 {
		return false
	}
	s.texts[i] = text
	s.present[i] = true
	return true
}

// Get returns the text for a label and whether the label was set.
func (s OptionSet) Get(letter byte) (string, bool) {
	i := optionIndex(letter)
	if i < 0 || !s.present[i] {
		return "", false
	}
	return s.texts[i], true
}

// Letters returns the labels that were set, in A-D order.
func (s OptionSet) Letters() []byte {
	var result []byte
	for i, letter := range letters {
		if s.present[i] {
			result = append(result, letter)
		}
	}
	return result
}

// Len returns the number of labels set.
func (s OptionSet) Len() int {
	n := 0
	for _, p := range s.present {
		if p {
			n++
		}
	}
	return n
}

// Question is the reconstructed structure of one photographed exam question.
// Immutable once returned by Reconstruct.
type Question struct {
	// The prompt text, excluding all option content.
	Stem string

	// Labelled options. May be empty when the source held none.
	Options OptionSet

	// All surviving fragments joined with line breaks in vertical order.
	RawText string
}

// IsEmpty reports whether reconstruction recovered neither stem nor options.
func (q Question) IsEmpty() bool {
	return q.Stem == "" && q.Options.Len() == 0
}
