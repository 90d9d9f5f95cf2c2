package exam

import (
	"testing"

	"github.com/examforge-project/examforge/ocr"
)

func requireOption(t *testing.T, q Question, letter byte, want string) {
	t.Helper()
	got, ok := q.Options.Get(letter)
	if !ok {
		t.Fatalf("option %c not set", letter)
	}
	if got != want {
		t.Errorf("option %c = %q, want %q", letter, got, want)
	}
}

func TestReconstructInline(t *testing.T) {
	in := []ocr.Fragment{
		{Text: "题干文字", Top: 10, Left: 80},
		{Text: "A.选项甲", Top: 100, Left: 80},
		{Text: "B.选项乙", Top: 160, Left: 80},
	}

	q := Reconstruct(in)
	if q.Stem != "题干文字" {
		t.Errorf("stem = %q, want %q", q.Stem, "题干文字")
	}
	requireOption(t, q, 'A', "选项甲")
	requireOption(t, q, 'B', "选项乙")
	if got := string(q.Options.Letters()); got != "AB" {
		t.Errorf("labels = %q, want %q", got, "AB")
	}
	if q.RawText != "题干文字\nA.选项甲\nB.选项乙" {
		t.Errorf("raw text = %q", q.RawText)
	}
}

func TestReconstructInlineMultiLineStem(t *testing.T) {
	in := []ocr.Fragment{
		{Text: "题干前半，", Top: 10},
		{Text: "题干后半。", Top: 70},
		{Text: "A.选项甲", Top: 160},
		{Text: "B.选项乙", Top: 220},
	}

	q := Reconstruct(in)
	if q.Stem != "题干前半，题干后半。" {
		t.Errorf("stem = %q, want stem halves joined without separator", q.Stem)
	}
}

// A detached letter directly followed by its content line is repaired by the
// merge pass and lands on the inline path.
func TestReconstructDetachedLetterBeforeContent(t *testing.T) {
	in := []ocr.Fragment{
		{Text: "某空白处应填（）", Top: 10, Left: 80},
		{Text: "A", Top: 100, Left: 80},
		{Text: "触摸", Top: 102, Left: 160},
		{Text: "B", Top: 160, Left: 80},
		{Text: "投影", Top: 162, Left: 160},
	}

	q := Reconstruct(in)
	if q.Stem != "某空白处应填" {
		t.Errorf("stem = %q, want placeholder stripped", q.Stem)
	}
	requireOption(t, q, 'A', "触摸")
	requireOption(t, q, 'B', "投影")
}

// When OCR emits all letters before any content, no letter-join applies and
// assignment falls back to vertical proximity.
func TestReconstructDetachedMarkers(t *testing.T) {
	in := []ocr.Fragment{
		{Text: "某空白处应填（）", Top: 10, Left: 80},
		{Text: "触摸", Top: 100, Left: 200},
		{Text: "投影", Top: 160, Left: 200},
		{Text: "A", Top: 105, Left: 100},
		{Text: "B", Top: 165, Left: 100},
	}

	q := Reconstruct(in)
	if q.Stem != "某空白处应填" {
		t.Errorf("stem = %q, want %q", q.Stem, "某空白处应填")
	}
	requireOption(t, q, 'A', "触摸")
	requireOption(t, q, 'B', "投影")
}

// The two fragmentation shapes of the same photographed question must
// reconstruct identically.
func TestReconstructDetachedMatchesInline(t *testing.T) {
	inline := Reconstruct([]ocr.Fragment{
		{Text: "某空白处应填（）", Top: 10},
		{Text: "A.触摸", Top: 100},
		{Text: "B.投影", Top: 160},
	})
	detached := Reconstruct([]ocr.Fragment{
		{Text: "某空白处应填（）", Top: 10},
		{Text: "触摸", Top: 100, Left: 200},
		{Text: "投影", Top: 160, Left: 200},
		{Text: "A", Top: 105, Left: 100},
		{Text: "B", Top: 165, Left: 100},
	})

	if inline.Stem != detached.Stem {
		t.Errorf("stems diverge: %q vs %q", inline.Stem, detached.Stem)
	}
	for _, letter := range []byte{'A', 'B'} {
		a, _ := inline.Options.Get(letter)
		b, _ := detached.Options.Get(letter)
		if a != b {
			t.Errorf("option %c diverges: %q vs %q", letter, a, b)
		}
	}
}

func TestReconstructEquidistantContentGoesToEarlierMarker(t *testing.T) {
	in := []ocr.Fragment{
		{Text: "题干结束。", Top: 10},
		{Text: "中间内容", Top: 150, Left: 200},
		{Text: "A", Top: 100, Left: 100},
		{Text: "B", Top: 200, Left: 100},
	}

	q := Reconstruct(in)
	requireOption(t, q, 'A', "中间内容")
	requireOption(t, q, 'B', "")
}

func TestReconstructDetachedMultiLineOption(t *testing.T) {
	in := []ocr.Fragment{
		{Text: "题干结束。", Top: 10},
		{Text: "前半", Top: 102, Left: 120},
		{Text: "后半", Top: 104, Left: 300},
		{Text: "次行", Top: 150, Left: 120},
		{Text: "A", Top: 100, Left: 50},
		{Text: "B", Top: 400, Left: 50},
	}

	q := Reconstruct(in)
	// Same physical line joins with a space, the following line joins
	// directly below it.
	requireOption(t, q, 'A', "前半 后半次行")
}

func TestReconstructStemBoundaryFallback(t *testing.T) {
	// No placeholder and no sentence terminal anywhere: the boundary falls
	// back to two fragments before the first marker.
	in := []ocr.Fragment{
		{Text: "题干第一行", Top: 10},
		{Text: "题干第二行", Top: 70},
		{Text: "靠近标记的内容", Top: 130, Left: 200},
		{Text: "其他内容", Top: 190, Left: 200},
		{Text: "A", Top: 250, Left: 100},
		{Text: "B", Top: 310, Left: 100},
	}

	q := Reconstruct(in)
	if q.Stem != "题干第一行题干第二行" {
		t.Errorf("stem = %q, want the first two fragments", q.Stem)
	}
}

func TestReconstructStripsPromptPhrase(t *testing.T) {
	in := []ocr.Fragment{
		{Text: "这是一道题，依次填入横线处最恰当的是（）。", Top: 10},
		{Text: "A.正确", Top: 100},
		{Text: "B.错误", Top: 160},
	}

	q := Reconstruct(in)
	if q.Stem != "这是一道题，" {
		t.Errorf("stem = %q, want prompt phrase removed", q.Stem)
	}
}

func TestReconstructStemOnly(t *testing.T) {
	in := []ocr.Fragment{
		{Text: "只有题干没有选项。", Top: 10},
	}

	q := Reconstruct(in)
	if q.Stem != "只有题干没有选项。" {
		t.Errorf("stem = %q", q.Stem)
	}
	if q.Options.Len() != 0 {
		t.Errorf("options = %d, want none", q.Options.Len())
	}
	if q.IsEmpty() {
		t.Error("stem-only question must not be empty")
	}
}

func TestReconstructEmptyAndNoiseStreams(t *testing.T) {
	if q := Reconstruct(nil); !q.IsEmpty() {
		t.Errorf("empty stream produced %+v", q)
	}

	noise := []ocr.Fragment{
		{Text: "14:05"},
		{Text: "1/18"},
		{Text: "单选题"},
	}
	if q := Reconstruct(noise); !q.IsEmpty() {
		t.Errorf("all-noise stream produced %+v", q)
	}
}

func TestReconstructLabelsSubsetOfAD(t *testing.T) {
	in := []ocr.Fragment{
		{Text: "题干。", Top: 10},
		{Text: "A.甲", Top: 100},
		{Text: "B.乙", Top: 160},
		{Text: "C.丙", Top: 220},
		{Text: "D.丁", Top: 280},
	}

	q := Reconstruct(in)
	if got := string(q.Options.Letters()); got != "ABCD" {
		t.Errorf("labels = %q, want %q", got, "ABCD")
	}
	for _, letter := range q.Options.Letters() {
		if letter < 'A' || letter > 'D' {
			t.Errorf("label %c outside A-D", letter)
		}
	}
}
