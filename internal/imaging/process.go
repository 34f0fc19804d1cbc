package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

var (
	// ErrDecode is returned when the upload is not an image we can read.
	ErrDecode = errors.New("failed to decode image")
	// ErrTooLarge is returned when the image declares more pixels than
	// Params.MaxPixels. Nothing is decoded in that case.
	ErrTooLarge = errors.New("image too large")
)

// Params tune the edge pipeline.
type Params struct {
	MaxDimension   int     // larger images are scaled down to fit
	BlurSize       int     // odd Gaussian kernel size
	LowThreshold   float64 // hysteresis thresholds on the gradient magnitude
	HighThreshold  float64
	DilateRadius   int
	MinContourArea float64 // outer contours enclosing this much or less are dropped
	LineThickness  int
	MaxPixels      int64 // decode budget, width*height; 0 means unbounded
	JPEGQuality    int
}

func DefaultParams() Params {
	return Params{
		MaxDimension:   1920,
		BlurSize:       5,
		LowThreshold:   50,
		HighThreshold:  150,
		DilateRadius:   1,
		MinContourArea: 100,
		LineThickness:  2,
		MaxPixels:      50_000_000,
		JPEGQuality:    95,
	}
}

// Process turns an uploaded photo of a board into a line drawing: black
// edges on white, JPEG encoded.
func Process(r io.Reader, p Params) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if p.MaxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > p.MaxPixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooLarge, cfg.Width, cfg.Height)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	src = Resize(src, p.MaxDimension)
	gray := Grayscale(src)
	blurred := GaussianBlur(gray, p.BlurSize, 0)
	edges := Canny(blurred, p.LowThreshold, p.HighThreshold)
	edges = Dilate(edges, p.DilateRadius)
	contours := FilterContours(ExternalContours(edges), p.MinContourArea)
	w, h := dims(edges)
	mask := DrawContours(w, h, contours, p.LineThickness)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, mask, &jpeg.Options{Quality: p.JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return buf.Bytes(), nil
}

// Resize scales img down so neither side exceeds maxDim, keeping the aspect
// ratio. Smaller images are returned unchanged.
func Resize(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	longest := max(w, h)
	if maxDim <= 0 || longest <= maxDim {
		return img
	}
	scale := float64(maxDim) / float64(longest)
	nw := max(1, int(float64(w)*scale+0.5))
	nh := max(1, int(float64(h)*scale+0.5))

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// Grayscale converts img to luma, moving its bounds to the origin.
func Grayscale(img image.Image) *image.Gray {
	b := img.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
