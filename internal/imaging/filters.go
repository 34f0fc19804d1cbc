package imaging

import (
	"image"
	"math"
)

// The filters below work on *image.Gray values whose bounds start at the
// origin, which is what Grayscale and Resize produce.

func dims(g *image.Gray) (int, int) {
	b := g.Bounds()
	return b.Dx(), b.Dy()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// gaussianKernel returns normalized 1-D weights. A non-positive sigma is
// derived from the size the same way common vision libraries do.
func gaussianKernel(size int, sigma float64) []float64 {
	if sigma <= 0 {
		sigma = 0.3*(float64(size-1)*0.5-1) + 0.8
	}
	k := make([]float64, size)
	half := size / 2
	sum := 0.0
	for i := range k {
		x := float64(i - half)
		k[i] = math.Exp(-(x * x) / (2 * sigma * sigma))
		sum += k[i]
	}
	for i := range k {
		k[i] /= sum
	}
	return k
}

// GaussianBlur applies a separable size×size Gaussian. Edges are clamped.
func GaussianBlur(src *image.Gray, size int, sigma float64) *image.Gray {
	w, h := dims(src)
	k := gaussianKernel(size, sigma)
	half := size / 2

	tmp := make([]float64, w*h)
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride:]
		for x := 0; x < w; x++ {
			acc := 0.0
			for i, wt := range k {
				acc += wt * float64(row[clamp(x+i-half, 0, w-1)])
			}
			tmp[y*w+x] = acc
		}
	}

	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			acc := 0.0
			for i, wt := range k {
				acc += wt * tmp[clamp(y+i-half, 0, h-1)*w+x]
			}
			dst.Pix[y*dst.Stride+x] = uint8(clamp(int(math.Round(acc)), 0, 255))
		}
	}
	return dst
}

// gradient sectors used by non-maximum suppression
const (
	sectorHorizontal = iota // compare left/right
	sectorDiagDown          // compare up-left/down-right
	sectorVertical          // compare up/down
	sectorDiagUp            // compare up-right/down-left
)

// Canny marks edges with 255 using 3×3 Sobel gradients (L1 magnitude),
// non-maximum suppression and hysteresis between low and high.
func Canny(src *image.Gray, low, high float64) *image.Gray {
	w, h := dims(src)
	dst := image.NewGray(image.Rect(0, 0, w, h))
	if w < 3 || h < 3 {
		return dst
	}

	px := func(x, y int) float64 {
		return float64(src.Pix[clamp(y, 0, h-1)*src.Stride+clamp(x, 0, w-1)])
	}

	mag := make([]float64, w*h)
	sector := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			gx := (px(x+1, y-1) + 2*px(x+1, y) + px(x+1, y+1)) -
				(px(x-1, y-1) + 2*px(x-1, y) + px(x-1, y+1))
			gy := (px(x-1, y+1) + 2*px(x, y+1) + px(x+1, y+1)) -
				(px(x-1, y-1) + 2*px(x, y-1) + px(x+1, y-1))
			i := y*w + x
			ax, ay := math.Abs(gx), math.Abs(gy)
			mag[i] = ax + ay

			switch {
			case ay <= ax*0.41421356:
				sector[i] = sectorHorizontal
			case ay >= ax*2.41421356:
				sector[i] = sectorVertical
			case gx*gy > 0:
				sector[i] = sectorDiagDown
			default:
				sector[i] = sectorDiagUp
			}
		}
	}

	const (
		none = iota
		weak
		strong
	)
	class := make([]uint8, w*h)
	var stack []int
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			i := y*w + x
			m := mag[i]
			if m <= low {
				continue
			}
			var a, b float64
			switch sector[i] {
			case sectorHorizontal:
				a, b = mag[i-1], mag[i+1]
			case sectorVertical:
				a, b = mag[i-w], mag[i+w]
			case sectorDiagDown:
				a, b = mag[i-w-1], mag[i+w+1]
			default:
				a, b = mag[i-w+1], mag[i+w-1]
			}
			if m < a || m < b {
				continue
			}
			if m > high {
				class[i] = strong
				stack = append(stack, i)
			} else {
				class[i] = weak
			}
		}
	}

	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%w, i/w
		dst.Pix[y*dst.Stride+x] = 255
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := x+dx, y+dy
				if nx < 0 || ny < 0 || nx >= w || ny >= h {
					continue
				}
				j := ny*w + nx
				if class[j] == weak {
					class[j] = strong
					stack = append(stack, j)
				}
			}
		}
	}
	return dst
}

// Dilate grows non-zero pixels by radius using a square structuring element.
func Dilate(src *image.Gray, radius int) *image.Gray {
	w, h := dims(src)
	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var m uint8
			for dy := -radius; dy <= radius && m < 255; dy++ {
				ny := y + dy
				if ny < 0 || ny >= h {
					continue
				}
				for dx := -radius; dx <= radius; dx++ {
					nx := x + dx
					if nx < 0 || nx >= w {
						continue
					}
					if v := src.Pix[ny*src.Stride+nx]; v > m {
						m = v
					}
				}
			}
			dst.Pix[y*dst.Stride+x] = m
		}
	}
	return dst
}
