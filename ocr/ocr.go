package ocr

import "context"

// Fragment is one OCR-reported text span with its pixel bounding box.
// Provider ordering is not trusted; Top is the authoritative order key.
type Fragment struct {
	Text   string
	Top    int
	Left   int
	Width  int
	Height int
}

// Client is the OCR provider contract. Implementations submit image bytes
// and return text fragments with bounding boxes in provider order.
// This interface is also used for stubbing providers in unit tests.
type Client interface {
	DetectText(ctx context.Context, imageBytes []byte) ([]Fragment, error)
}

// Bottom returns the lower edge of the fragment's bounding box.
func (f Fragment) Bottom() int {
	return f.Top + f.Height
}

// Right returns the right edge of the fragment's bounding box.
func (f Fragment) Right() int {
	return f.Left + f.Width
}

// Union combines two bounding boxes into the smallest box covering both,
// keeping the receiver's text untouched.
func Union(a Fragment, b Fragment) Fragment {
	top := min(a.Top, b.Top)
	left := min(a.Left, b.Left)
	bottom := max(a.Bottom(), b.Bottom())
	right := max(a.Right(), b.Right())
	return Fragment{
		Text:   a.Text,
		Top:    top,
		Left:   left,
		Width:  right - left,
		Height: bottom - top,
	}
}
