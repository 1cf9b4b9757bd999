// Package imaging normalizes item photos before they are stored.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// MaxDimension is the longest edge of a stored photo.
const MaxDimension = 1600

// ThumbDimension is the longest edge of a thumbnail.
const ThumbDimension = 320

// JPEGQuality is the compression quality for stored photos.
const JPEGQuality = 82

var (
	// ErrUnsupported reports an input that is not JPEG, PNG or WebP.
	ErrUnsupported = errors.New("unsupported image format")
	// ErrTooLarge reports an input above the byte limit.
	ErrTooLarge = errors.New("image too large")
)

// accepted lists the sniffed input types.
var accepted = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// Photo is an encoded image ready for storage.
type Photo struct {
	Data   []byte
	MIME   string
	Width  int
	Height int
}

// Normalize reads at most maxBytes of image data, checks the format by
// sniffing the bytes, shrinks it to MaxDimension and re-encodes it as JPEG.
func Normalize(r io.Reader, maxBytes int64) (*Photo, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading image data: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, ErrTooLarge
	}
	return encode(data, MaxDimension, draw.CatmullRom)
}

// Thumbnail shrinks a stored photo for list views.
func Thumbnail(data []byte, maxDim int) (*Photo, error) {
	if maxDim <= 0 {
		maxDim = ThumbDimension
	}
	return encode(data, maxDim, draw.ApproxBiLinear)
}

func encode(data []byte, maxDim int, scaler draw.Scaler) (*Photo, error) {
	if detected := http.DetectContentType(data); !accepted[detected] {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, detected)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	img = shrink(img, maxDim, scaler)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encoding JPEG: %w", err)
	}

	b := img.Bounds()
	return &Photo{Data: buf.Bytes(), MIME: "image/jpeg", Width: b.Dx(), Height: b.Dy()}, nil
}

// fit returns w and h scaled so the longer edge is at most maxDim.
func fit(w, h, maxDim int) (int, int) {
	if w <= maxDim && h <= maxDim {
		return w, h
	}
	if w >= h {
		return maxDim, max(1, h*maxDim/w)
	}
	return max(1, w*maxDim/h), maxDim
}

// shrink never enlarges an image.
func shrink(img image.Image, maxDim int, scaler draw.Scaler) image.Image {
	src := img.Bounds()
	w, h := fit(src.Dx(), src.Dy(), maxDim)
	if w == src.Dx() && h == src.Dy() {
		return img
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	scaler.Scale(dst, dst.Bounds(), img, src, draw.Over, nil)
	return dst
}
