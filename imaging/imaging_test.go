package imaging

import (
	"image"
	"image/color"
	"testing"
)

func solid(width int, height int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestDecodeRoundTrip(t *testing.T) {
	data, err := EncodePNG(solid(8, 6, color.Black))
	if err != nil {
		t.Fatal(err)
	}

	img, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 6 {
		t.Errorf("decoded bounds = %v, want 8x6", img.Bounds())
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode([]byte("not an image")); err == nil {
		t.Error("Decode accepted garbage bytes")
	}
}

func TestFlattenWhiteFillsTransparency(t *testing.T) {
	img := solid(4, 4, color.NRGBA{R: 0, G: 0, B: 0, A: 255})
	img.Set(1, 1, color.NRGBA{A: 0})

	flat := FlattenWhite(img)
	r, g, b, a := flat.At(1, 1).RGBA()
	if r != 0xffff || g != 0xffff || b != 0xffff || a != 0xffff {
		t.Errorf("transparent pixel = (%d,%d,%d,%d), want opaque white", r, g, b, a)
	}

	r, g, b, _ = flat.At(0, 0).RGBA()
	if r != 0 || g != 0 || b != 0 {
		t.Errorf("opaque pixel = (%d,%d,%d), want black preserved", r, g, b)
	}
}

func TestScaleToWidth(t *testing.T) {
	scaled := ScaleToWidth(solid(400, 200, color.White), 100)
	if scaled.Bounds().Dx() != 100 || scaled.Bounds().Dy() != 50 {
		t.Errorf("scaled bounds = %v, want 100x50", scaled.Bounds())
	}
}

func TestScaleToWidthNeverUpscales(t *testing.T) {
	img := solid(80, 60, color.White)
	scaled := ScaleToWidth(img, 200)
	if scaled.Bounds().Dx() != 80 || scaled.Bounds().Dy() != 60 {
		t.Errorf("narrow image was resized to %v", scaled.Bounds())
	}
}

func TestCropStatusBar(t *testing.T) {
	cropped := CropStatusBar(solid(100, 1000, color.White))
	// 5% off the top, 3% off the bottom.
	if got := cropped.Bounds().Dy(); got != 920 {
		t.Errorf("cropped height = %d, want 920", got)
	}
	if got := cropped.Bounds().Dx(); got != 100 {
		t.Errorf("cropped width = %d, want unchanged", got)
	}
}

func TestCropStatusBarKeepsContent(t *testing.T) {
	img := solid(10, 100, color.White)
	img.Set(5, 50, color.NRGBA{R: 255, A: 255})

	cropped := CropStatusBar(img)
	// Row 50 of the source lands at 50 - top crop (5 rows).
	r, _, _, _ := cropped.At(5, 45).RGBA()
	if r != 0xffff {
		t.Errorf("marker pixel lost: r = %d", r)
	}
}

func TestCropStatusBarTinyImage(t *testing.T) {
	img := solid(4, 2, color.White)
	if got := CropStatusBar(img); got.Bounds().Dy() != 2 {
		t.Errorf("tiny image was cropped to %v", got.Bounds())
	}
}

func TestEncodeJPEG(t *testing.T) {
	data, err := EncodeJPEG(solid(8, 8, color.White), 90)
	if err != nil {
		t.Fatal(err)
	}
	// JPEG SOI marker.
	if len(data) < 2 || data[0] != 0xff || data[1] != 0xd8 {
		t.Error("output does not start with a JPEG marker")
	}
}
