package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func testJPEG(w, h int) []byte {
	var buf bytes.Buffer
	jpeg.Encode(&buf, solid(w, h, color.RGBA{200, 120, 40, 255}), &jpeg.Options{Quality: 90})
	return buf.Bytes()
}

func testPNG(w, h int) []byte {
	var buf bytes.Buffer
	png.Encode(&buf, solid(w, h, color.RGBA{0, 0, 255, 255}))
	return buf.Bytes()
}

const limit = 8 << 20

func TestNormalizePNGBecomesJPEG(t *testing.T) {
	photo, err := Normalize(bytes.NewReader(testPNG(120, 80)), limit)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if photo.MIME != "image/jpeg" {
		t.Errorf("expected image/jpeg, got %s", photo.MIME)
	}
	if photo.Width != 120 || photo.Height != 80 {
		t.Errorf("expected 120x80, got %dx%d", photo.Width, photo.Height)
	}
	if _, err := jpeg.Decode(bytes.NewReader(photo.Data)); err != nil {
		t.Errorf("output is not a JPEG: %v", err)
	}
}

func TestNormalizeShrinksLargePhoto(t *testing.T) {
	photo, err := Normalize(bytes.NewReader(testJPEG(3200, 1600)), limit)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if photo.Width != MaxDimension || photo.Height != MaxDimension/2 {
		t.Errorf("expected %dx%d, got %dx%d", MaxDimension, MaxDimension/2, photo.Width, photo.Height)
	}
}

func TestNormalizeRejectsOversizedInput(t *testing.T) {
	data := testPNG(64, 64)
	_, err := Normalize(bytes.NewReader(data), int64(len(data)-1))
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("expected ErrTooLarge, got %v", err)
	}
}

func TestNormalizeRejectsUnknownFormats(t *testing.T) {
	for name, data := range map[string][]byte{
		"text": []byte("not an image"),
		"gif":  []byte("GIF89a..."),
	} {
		if _, err := Normalize(bytes.NewReader(data), limit); !errors.Is(err, ErrUnsupported) {
			t.Errorf("%s: expected ErrUnsupported, got %v", name, err)
		}
	}
}

func TestThumbnail(t *testing.T) {
	thumb, err := Thumbnail(testJPEG(400, 1000), 100)
	if err != nil {
		t.Fatalf("Thumbnail: %v", err)
	}
	if thumb.Width != 40 || thumb.Height != 100 {
		t.Errorf("expected 40x100, got %dx%d", thumb.Width, thumb.Height)
	}

	small, err := Thumbnail(testJPEG(50, 50), 0)
	if err != nil {
		t.Fatalf("Thumbnail: %v", err)
	}
	if small.Width != 50 || small.Height != 50 {
		t.Errorf("small image should not be enlarged: got %dx%d", small.Width, small.Height)
	}
}

func TestFit(t *testing.T) {
	tests := []struct {
		w, h, max    int
		wantW, wantH int
	}{
		{100, 100, 200, 100, 100},
		{400, 200, 100, 100, 50},
		{200, 400, 100, 50, 100},
		{1000, 1, 10, 10, 1},
	}
	for _, tt := range tests {
		w, h := fit(tt.w, tt.h, tt.max)
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("fit(%d, %d, %d) = %dx%d, want %dx%d", tt.w, tt.h, tt.max, w, h, tt.wantW, tt.wantH)
		}
	}
}
