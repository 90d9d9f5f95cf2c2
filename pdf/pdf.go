package pdf

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/jung-kurt/gofpdf"
)

// Page rasters come in at this resolution; PDF user space is 72 points per
// inch, so pixel dimensions scale by 72/300.
const dpi = 300

// FromPages assembles rendered page rasters into one multi-page document.
// Zero pages is an error: an operation that produces a document must have
// something to render.
func FromPages(pages []image.Image) ([]byte, error) {
	if len(pages) == 0 {
		return nil, fmt.Errorf("nothing to render")
	}

	doc := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    pageSize(pages[0]),
	})

	for i, page := range pages {
		size := pageSize(page)
		doc.AddPageFormat("P", size)

		var buf bytes.Buffer
		if err := png.Encode(&buf, page); err != nil {
			return nil, fmt.Errorf("failed to encode page %d: %w", i+1, err)
		}

		name := fmt.Sprintf("page-%d", i+1)
		options := gofpdf.ImageOptions{ImageType: "PNG"}
		doc.RegisterImageOptionsReader(name, options, &buf)
		doc.ImageOptions(name, 0, 0, size.Wd, size.Ht, false, options, 0, "")
	}

	var out bytes.Buffer
	if err := doc.Output(&out); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return out.Bytes(), nil
}

func pageSize(page image.Image) gofpdf.SizeType {
	bounds := page.Bounds()
	return gofpdf.SizeType{
		Wd: float64(bounds.Dx()) * 72 / dpi,
		Ht: float64(bounds.Dy()) * 72 / dpi,
	}
}
