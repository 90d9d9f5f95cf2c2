package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"

	xdraw "golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Phone screenshot crop ratios: the device status bar at the top and the
// home indicator at the bottom carry no question content.
const (
	cropTopRatio    = 0.05
	cropBottomRatio = 0.03
)

// Decode parses raster bytes in any of the supported formats
// (png, jpeg, gif, webp, bmp).
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// FlattenWhite composites the image onto a white background, discarding
// transparency. Must run before OCR submission and page placement.
func FlattenWhite(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	flattened := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	xdraw.Draw(flattened, flattened.Bounds(), image.White, image.Point{}, xdraw.Src)
	xdraw.Draw(flattened, flattened.Bounds(), img, bounds.Min, xdraw.Over)
	return flattened
}

// ScaleToWidth scales the image down to the target width preserving aspect
// ratio. Images already narrow enough are returned unchanged.
func ScaleToWidth(img image.Image, width int) image.Image {
	bounds := img.Bounds()
	if bounds.Dx() <= width {
		return img
	}
	height := bounds.Dy() * width / bounds.Dx()
	scaled := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), img, bounds, xdraw.Over, nil)
	return scaled
}

// CropStatusBar removes the top 5% and bottom 3% of a phone screenshot.
func CropStatusBar(img image.Image) image.Image {
	bounds := img.Bounds()
	top := int(float64(bounds.Dy()) * cropTopRatio)
	bottom := int(float64(bounds.Dy()) * cropBottomRatio)
	height := bounds.Dy() - top - bottom
	if height <= 0 {
		return img
	}

	cropped := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), height))
	xdraw.Draw(cropped, cropped.Bounds(), img, image.Pt(bounds.Min.X, bounds.Min.Y+top), xdraw.Src)
	return cropped
}

// EncodePNG serializes the image as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeJPEG serializes the image as JPEG at the given quality. Used for
// OCR submission where the provider charges by payload size.
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return buf.Bytes(), nil
}
