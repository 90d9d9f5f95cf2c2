package layout

import (
	"image"
	"image/draw"
)

// Stitcher packs an ordered sequence of pre-scaled blocks into fixed-size
// pages. Input order is never changed and a page is only flushed once it
// holds content, so non-empty input always yields at least one page and no
// page is ever empty.
type Stitcher struct {
	config Config
}

func NewStitcher(config Config) *Stitcher {
	return &Stitcher{config: config}
}

// LayoutGrid consumes blocks in runs of Columns. A run becomes one row whose
// height is the tallest block in it; a final partial run is placed the same
// way with only the blocks present. Blocks are expected to be pre-scaled to
// CellWidth.
func (s *Stitcher) LayoutGrid(blocks []Block) []Page {
	if len(blocks) == 0 {
		return nil
	}

	cellWidth := s.config.CellWidth()
	contentHeight := s.config.ContentHeight()

	var pages []Page
	var current Page
	cursor := 0

	for start := 0; start < len(blocks); start += s.config.Columns {
		run := blocks[start:min(start+s.config.Columns, len(blocks))]

		rowHeight := 0
		for _, block := range run {
			rowHeight = max(rowHeight, block.Height)
		}

		if cursor+rowHeight > contentHeight && len(current.Blocks) > 0 {
			pages = append(pages, current)
			current = Page{}
			cursor = 0
		}

		for column, block := range run {
			current.Blocks = append(current.Blocks, Placed{
				Block: block,
				X:     s.config.Margin + column*(cellWidth+s.config.Gap),
				Y:     s.config.Margin + cursor,
			})
		}
		cursor += rowHeight + s.config.Gap
	}

	if len(current.Blocks) > 0 {
		pages = append(pages, current)
	}
	return pages
}

// LayoutAdaptive places the next one or two blocks per step: side by side
// when both fit within half the content width and the row fits vertically,
// otherwise one block alone at full content width.
func (s *Stitcher) LayoutAdaptive(blocks []Block) []Page {
	if len(blocks) == 0 {
		return nil
	}

	halfWidth := s.config.HalfWidth()
	contentHeight := s.config.ContentHeight()

	var pages []Page
	var current Page
	cursor := 0

	flush := func() {
		pages = append(pages, current)
		current = Page{}
		cursor = 0
	}

	i := 0
	for i < len(blocks) {
		block := blocks[i]

		// A pair row that does not fit the remaining space falls through to
		// the single placement below; the page is never flushed just to
		// enable a pair.
		if block.Width <= halfWidth && i+1 < len(blocks) && blocks[i+1].Width <= halfWidth {
			next := blocks[i+1]
			rowHeight := max(block.Height, next.Height)
			if cursor+rowHeight <= contentHeight {
				current.Blocks = append(current.Blocks,
					Placed{Block: block, X: s.config.Margin, Y: s.config.Margin + cursor},
					Placed{Block: next, X: s.config.Margin + halfWidth + s.config.Gap, Y: s.config.Margin + cursor},
				)
				cursor += rowHeight + s.config.Gap
				i += 2
				continue
			}
		}

		if cursor+block.Height > contentHeight && len(current.Blocks) > 0 {
			flush()
		}
		current.Blocks = append(current.Blocks, Placed{
			Block: block,
			X:     s.config.Margin,
			Y:     s.config.Margin + cursor,
		})
		cursor += block.Height + s.config.Gap
		i++
	}

	if len(current.Blocks) > 0 {
		pages = append(pages, current)
	}
	return pages
}

// RenderPage composites one page onto a white background.
func RenderPage(page Page, config Config) image.Image {
	canvas := image.NewRGBA(image.Rect(0, 0, config.PageWidth, config.PageHeight))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)

	for _, placed := range page.Blocks {
		if placed.Block.Image == nil {
			continue
		}
		target := image.Rect(placed.X, placed.Y, placed.X+placed.Block.Width, placed.Y+placed.Block.Height)
		draw.Draw(canvas, target, placed.Block.Image, placed.Block.Image.Bounds().Min, draw.Over)
	}
	return canvas
}
