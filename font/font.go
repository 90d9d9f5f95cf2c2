package font

import (
	"os"

	"github.com/golang/freetype/truetype"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// Candidate CJK font files in probe order. The first one that parses wins.
// Note: .ttc collections are not parseable by freetype and simply fall
// through to the next candidate.
var systemFontPaths = []string{
	"/usr/share/fonts/truetype/droid/DroidSansFallbackFull.ttf",
	"/usr/share/fonts/opentype/noto/NotoSansCJK-Regular.ttc",
	"/System/Library/Fonts/PingFang.ttc",
	"/System/Library/Fonts/STHeiti Light.ttc",
	"/System/Library/Fonts/Hiragino Sans GB.ttc",
	"/Library/Fonts/Arial Unicode.ttf",
}

// Provider hands out sized faces of one body font. Exam sheets use a single
// face; stem and options differ only in size.
type Provider struct {
	font *truetype.Font
}

// New probes extraPaths first, then the system candidates, and falls back
// to the embedded Go Regular face (Latin only) when no CJK font is found.
func New(extraPaths ...string) *Provider {
	for _, path := range append(extraPaths, systemFontPaths...) {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		parsed, err := truetype.Parse(data)
		if err != nil {
			continue
		}
		return &Provider{font: parsed}
	}

	// goregular ships with the toolchain and always parses.
	fallback, err := truetype.Parse(goregular.TTF)
	if err != nil {
		panic(err)
	}
	return &Provider{font: fallback}
}

// Face returns a rendering face at the given pixel size.
func (p *Provider) Face(size float64) xfont.Face {
	return truetype.NewFace(p.font, &truetype.Options{
		Size: size,
		DPI:  72,
	})
}
