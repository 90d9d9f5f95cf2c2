package render

import (
	"fmt"
	"image"

	"github.com/fogleman/gg"
	xfont "golang.org/x/image/font"

	"github.com/examforge-project/examforge/exam"
	"github.com/examforge-project/examforge/font"
)

// Config holds the exam-sheet geometry. All values are pixels at 300 DPI.
type Config struct {
	PageWidth  int
	PageHeight int
	Margin     int

	StemFontSize     float64
	StemLineHeight   int
	OptionFontSize   float64
	OptionLineHeight int

	// Vertical space between a stem and its options.
	OptionGap int

	// Vertical space between consecutive questions.
	QuestionGap int
}

// DefaultConfig is A4 landscape, the upstream print format.
func DefaultConfig() Config {
	return Config{
		PageWidth:        3508,
		PageHeight:       2480,
		Margin:           120,
		StemFontSize:     48,
		StemLineHeight:   72,
		OptionFontSize:   44,
		OptionLineHeight: 66,
		OptionGap:        20,
		QuestionGap:      40,
	}
}

func (c Config) ContentWidth() int {
	return c.PageWidth - 2*c.Margin
}

// Renderer lays reconstructed questions out as print pages. A question's
// height is estimated before placement with the same arithmetic the drawing
// path uses, so the page-break decision and the drawn extent always agree.
type Renderer struct {
	config     Config
	stemFace   xfont.Face
	optionFace xfont.Face
}

func New(config Config, fonts *font.Provider) *Renderer {
	return &Renderer{
		config:     config,
		stemFace:   fonts.Face(config.StemFontSize),
		optionFace: fonts.Face(config.OptionFontSize),
	}
}

// Pages renders the questions onto as few pages as order allows. A question
// never splits across pages; a page is only flushed once it holds content.
// Zero questions yield zero pages.
func (r *Renderer) Pages(questions []exam.Question) []image.Image {
	if len(questions) == 0 {
		return nil
	}

	dc := r.newPage()
	var pages []image.Image
	cursor := r.config.Margin
	hasContent := false

	for i, question := range questions {
		height := r.questionHeight(dc, question, i+1)
		if cursor+height > r.config.PageHeight-r.config.Margin && hasContent {
			pages = append(pages, dc.Image())
			dc = r.newPage()
			cursor = r.config.Margin
			hasContent = false
		}

		cursor = r.drawQuestion(dc, question, i+1, cursor) + r.config.QuestionGap
		hasContent = true
	}

	return append(pages, dc.Image())
}

func (r *Renderer) newPage() *gg.Context {
	dc := gg.NewContext(r.config.PageWidth, r.config.PageHeight)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetRGB(0, 0, 0)
	return dc
}

// questionHeight computes the vertical extent drawQuestion will consume.
func (r *Renderer) questionHeight(dc *gg.Context, question exam.Question, number int) int {
	dc.SetFontFace(r.stemFace)
	stemLines := wrapText(dc, stemText(question, number), float64(r.config.ContentWidth()))
	height := len(stemLines) * r.config.StemLineHeight

	if question.Options.Len() > 0 {
		rows := (question.Options.Len() + 1) / 2
		height += r.config.OptionGap + rows*r.config.OptionLineHeight
	}
	return height
}

// drawQuestion renders one question starting at startY and returns the
// y coordinate just below it.
func (r *Renderer) drawQuestion(dc *gg.Context, question exam.Question, number int, startY int) int {
	margin := float64(r.config.Margin)
	y := startY

	dc.SetFontFace(r.stemFace)
	for _, line := range wrapText(dc, stemText(question, number), float64(r.config.ContentWidth())) {
		dc.DrawString(line, margin, float64(y)+r.config.StemFontSize)
		y += r.config.StemLineHeight
	}

	if question.Options.Len() > 0 {
		y += r.config.OptionGap
		halfWidth := float64(r.config.ContentWidth() / 2)

		dc.SetFontFace(r.optionFace)
		present := question.Options.Letters()
		for i := 0; i < len(present); i += 2 {
			left, _ := question.Options.Get(present[i])
			dc.DrawString(fmt.Sprintf("%c. %s", present[i], left), margin, float64(y)+r.config.OptionFontSize)

			if i+1 < len(present) {
				right, _ := question.Options.Get(present[i+1])
				dc.DrawString(fmt.Sprintf("%c. %s", present[i+1], right), margin+halfWidth, float64(y)+r.config.OptionFontSize)
			}
			y += r.config.OptionLineHeight
		}
	}
	return y
}

func stemText(question exam.Question, number int) string {
	return fmt.Sprintf("%d. %s", number, question.Stem)
}
