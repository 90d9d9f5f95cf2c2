package layout

import "image"

// Block is a pre-scaled rectangle of content waiting for a page position.
// Image may be nil while exercising the packing math alone.
type Block struct {
	Width  int
	Height int
	Image  image.Image
}

// Placed is a Block with an absolute position on one page.
type Placed struct {
	Block Block
	X     int
	Y     int
}

// Page is an ordered sequence of placed blocks, rendered independently.
type Page struct {
	Blocks []Placed
}

// Config holds the page geometry. All values are pixels at 300 DPI.
type Config struct {
	PageWidth  int
	PageHeight int
	Margin     int
	Gap        int
	Columns    int
}

// GridConfig is the screenshot layout: A4 landscape, four fixed columns.
func GridConfig() Config {
	return Config{
		PageWidth:  3508,
		PageHeight: 2480,
		Margin:     120,
		Gap:        20,
		Columns:    4,
	}
}

// AdaptiveConfig is the mixed-size layout: A4 portrait, width-fitting pairs.
func AdaptiveConfig() Config {
	return Config{
		PageWidth:  2480,
		PageHeight: 3508,
		Margin:     40,
		Gap:        20,
	}
}

func (c Config) ContentWidth() int {
	return c.PageWidth - 2*c.Margin
}

func (c Config) ContentHeight() int {
	return c.PageHeight - 2*c.Margin
}

// CellWidth is the width of one grid column.
func (c Config) CellWidth() int {
	return (c.ContentWidth() - (c.Columns-1)*c.Gap) / c.Columns
}

// HalfWidth is the width of one adaptive column.
func (c Config) HalfWidth() int {
	return (c.ContentWidth() - c.Gap) / 2
}
