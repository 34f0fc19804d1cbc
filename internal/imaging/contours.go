package imaging

import (
	"image"
	"math"
)

// Contour is a closed boundary given as the pixel positions it visits.
type Contour []image.Point

// moore lists the eight neighbours clockwise (y grows downwards),
// starting east.
var moore = [8]image.Point{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}

// ExternalContours traces the outer boundary of every 8-connected non-zero
// component. Components lying inside a hole of another component are
// skipped.
func ExternalContours(src *image.Gray) []Contour {
	w, h := dims(src)
	fg := func(x, y int) bool {
		return x >= 0 && y >= 0 && x < w && y < h && src.Pix[y*src.Stride+x] != 0
	}
	outside := outsideBackground(src)
	seen := make([]bool, w*h)

	var contours []Contour
	var stack []int
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			if seen[i] || !fg(x, y) {
				continue
			}

			// flood the component and note whether it borders the outside
			external := false
			seen[i] = true
			stack = append(stack[:0], i)
			for len(stack) > 0 {
				j := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				cx, cy := j%w, j/w
				for d, off := range moore {
					nx, ny := cx+off.X, cy+off.Y
					if nx < 0 || ny < 0 || nx >= w || ny >= h {
						external = true
						continue
					}
					k := ny*w + nx
					if src.Pix[ny*src.Stride+nx] == 0 {
						if d%2 == 0 && outside[k] {
							external = true
						}
						continue
					}
					if !seen[k] {
						seen[k] = true
						stack = append(stack, k)
					}
				}
			}

			if external {
				contours = append(contours, trace(fg, image.Pt(x, y), 8*w*h+8))
			}
		}
	}
	return contours
}

// outsideBackground marks the zero pixels 4-connected to the image border.
func outsideBackground(src *image.Gray) []bool {
	w, h := dims(src)
	out := make([]bool, w*h)
	if w == 0 || h == 0 {
		return out
	}

	var stack []int
	push := func(x, y int) {
		i := y*w + x
		if !out[i] && src.Pix[y*src.Stride+x] == 0 {
			out[i] = true
			stack = append(stack, i)
		}
	}
	for x := 0; x < w; x++ {
		push(x, 0)
		push(x, h-1)
	}
	for y := 0; y < h; y++ {
		push(0, y)
		push(w-1, y)
	}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%w, i/w
		if x > 0 {
			push(x-1, y)
		}
		if x < w-1 {
			push(x+1, y)
		}
		if y > 0 {
			push(x, y-1)
		}
		if y < h-1 {
			push(x, y+1)
		}
	}
	return out
}

// trace follows a boundary clockwise with Moore neighbour tracing. start
// must be the first pixel of its component in raster order, so its west
// neighbour is background. Tracing stops when start is about to be left in
// the same direction as the first time.
func trace(fg func(x, y int) bool, start image.Point, limit int) Contour {
	c := Contour{start}
	p, back, first := start, 4, -1

	for steps := 0; steps < limit; steps++ {
		d := -1
		for i := 1; i <= 8; i++ {
			k := (back + i) % 8
			if q := p.Add(moore[k]); fg(q.X, q.Y) {
				d = k
				break
			}
		}
		if d < 0 {
			return c
		}
		if first < 0 {
			first = d
		} else if p == start && d == first {
			return c[:len(c)-1]
		}

		p = p.Add(moore[d])
		c = append(c, p)
		// the last background cell checked, seen from the new position
		back = (d + 6 - d%2) % 8
	}
	return c
}

// ContourArea is the polygon area enclosed by c (shoelace formula over the
// pixel centres). A one pixel wide line encloses nothing.
func ContourArea(c Contour) float64 {
	if len(c) < 3 {
		return 0
	}
	s := 0
	for i, p := range c {
		q := c[(i+1)%len(c)]
		s += p.X*q.Y - q.X*p.Y
	}
	return math.Abs(float64(s)) / 2
}

// FilterContours keeps the contours enclosing more than minArea.
func FilterContours(contours []Contour, minArea float64) []Contour {
	var kept []Contour
	for _, c := range contours {
		if ContourArea(c) > minArea {
			kept = append(kept, c)
		}
	}
	return kept
}

// DrawContours draws the contours black on a white w×h canvas with the
// given line thickness.
func DrawContours(w, h int, contours []Contour, thickness int) *image.Gray {
	dst := image.NewGray(image.Rect(0, 0, w, h))
	for i := range dst.Pix {
		dst.Pix[i] = 255
	}
	thickness = max(thickness, 1)
	lo := -(thickness - 1) / 2
	hi := lo + thickness

	for _, c := range contours {
		for _, p := range c {
			for y := p.Y + lo; y < p.Y+hi; y++ {
				if y < 0 || y >= h {
					continue
				}
				for x := p.X + lo; x < p.X+hi; x++ {
					if x >= 0 && x < w {
						dst.Pix[y*dst.Stride+x] = 0
					}
				}
			}
		}
	}
	return dst
}
