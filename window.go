package ssim

import (
	"fmt"
	"math"
)

// Window describes the Gaussian weighting used for local statistics.
type Window struct {
	// Size is the kernel support along each axis. Must be odd and positive.
	Size int
	// Sigma is the Gaussian standard deviation in pixels. Must be positive.
	Sigma float64
}

// DefaultWindow is the 11x11, sigma 1.5 window of Wang et al.
var DefaultWindow = Window{Size: 11, Sigma: 1.5}

func (w Window) validate() error {
	if w.Size <= 0 || w.Size%2 == 0 {
		return fmt.Errorf("%w: size %d must be odd and positive", ErrInvalidWindow, w.Size)
	}
	if !(w.Sigma > 0) || math.IsInf(w.Sigma, 0) {
		return fmt.Errorf("%w: sigma %v must be positive", ErrInvalidWindow, w.Sigma)
	}
	return nil
}

// kernel returns the normalized 1-D Gaussian. The 2-D window is its outer
// product, so it sums to 1 as well.
func (w Window) kernel() []float64 {
	half := w.Size / 2
	k := make([]float64, w.Size)
	var sum float64
	for i := range k {
		d := float64(i - half)
		k[i] = math.Exp(-d * d / (2 * w.Sigma * w.Sigma))
		sum += k[i]
	}
	for i := range k {
		k[i] /= sum
	}
	return k
}

// Border selects how the window samples pixels past the plane edge.
type Border int

const (
	// BorderReflect101 mirrors around the edge sample without repeating it
	// (dcb|abcd|cba). This is the default.
	BorderReflect101 Border = iota
	// BorderReflect mirrors including the edge sample (cba|abc).
	BorderReflect
	// BorderReplicate repeats the edge sample (aaa|abc).
	BorderReplicate
)

func (b Border) String() string {
	switch b {
	case BorderReflect:
		return "reflect"
	case BorderReplicate:
		return "replicate"
	default:
		return "reflect101"
	}
}

// ParseBorder maps a border name (as printed by Border.String) to a Border.
func ParseBorder(s string) (Border, error) {
	switch s {
	case "", "reflect101", "reflect_101", "default":
		return BorderReflect101, nil
	case "reflect", "mirror":
		return BorderReflect, nil
	case "replicate", "clamp":
		return BorderReplicate, nil
	default:
		return BorderReflect101, fmt.Errorf("ssim: unknown border %q", s)
	}
}

// index maps a possibly out-of-range coordinate into [0, size).
func (b Border) index(i, size int) int {
	if i >= 0 && i < size {
		return i
	}
	if size == 1 {
		return 0
	}
	switch b {
	case BorderReplicate:
		if i < 0 {
			return 0
		}
		return size - 1
	case BorderReflect:
		period := 2 * size
		i %= period
		if i < 0 {
			i += period
		}
		if i >= size {
			i = period - 1 - i
		}
		return i
	default:
		period := 2 * (size - 1)
		i %= period
		if i < 0 {
			i += period
		}
		if i >= size {
			i = period - i
		}
		return i
	}
}

// blurrer applies a separable Gaussian to w*h float planes. The border
// lookup tables are computed once and shared by all five passes.
type blurrer struct {
	k    []float64
	w, h int
	colX [][]int
	rowY [][]int
	tmp  []float64
}

func newBlurrer(win Window, border Border, w, h int) *blurrer {
	k := win.kernel()
	half := len(k) / 2
	b := &blurrer{k: k, w: w, h: h, tmp: make([]float64, w*h)}

	b.colX = make([][]int, w)
	for x := range b.colX {
		idx := make([]int, len(k))
		for j := range idx {
			idx[j] = border.index(x+j-half, w)
		}
		b.colX[x] = idx
	}
	b.rowY = make([][]int, h)
	for y := range b.rowY {
		idx := make([]int, len(k))
		for j := range idx {
			idx[j] = border.index(y+j-half, h)
		}
		b.rowY[y] = idx
	}
	return b
}

// blur writes the smoothed src into a new slice.
func (b *blurrer) blur(src []float64) []float64 {
	w, h := b.w, b.h

	for y := 0; y < h; y++ {
		row := src[y*w : (y+1)*w]
		out := b.tmp[y*w : (y+1)*w]
		for x := 0; x < w; x++ {
			var s float64
			for j, xi := range b.colX[x] {
				s += b.k[j] * row[xi]
			}
			out[x] = s
		}
	}

	dst := make([]float64, w*h)
	for y := 0; y < h; y++ {
		out := dst[y*w : (y+1)*w]
		for j, yi := range b.rowY[y] {
			kj := b.k[j]
			in := b.tmp[yi*w : (yi+1)*w]
			for x := range out {
				out[x] += kj * in[x]
			}
		}
	}
	return dst
}

// localStats holds the five per-pixel maps SSIM needs.
type localStats struct {
	muA, muB   []float64
	varA, varB []float64
	cov        []float64
}

// estimateStats computes Gaussian-weighted local means, variances and
// covariance of two same-shaped planes.
func estimateStats(a, b Plane, win Window, border Border) localStats {
	w, h := a.Width, a.Height
	fa := a.floats()
	fb := b.floats()

	n := w * h
	aa := make([]float64, n)
	bb := make([]float64, n)
	ab := make([]float64, n)
	for i := 0; i < n; i++ {
		aa[i] = fa[i] * fa[i]
		bb[i] = fb[i] * fb[i]
		ab[i] = fa[i] * fb[i]
	}

	bl := newBlurrer(win, border, w, h)
	s := localStats{
		muA:  bl.blur(fa),
		muB:  bl.blur(fb),
		varA: bl.blur(aa),
		varB: bl.blur(bb),
		cov:  bl.blur(ab),
	}
	for i := 0; i < n; i++ {
		ma, mb := s.muA[i], s.muB[i]
		s.varA[i] -= ma * ma
		s.varB[i] -= mb * mb
		s.cov[i] -= ma * mb
	}
	return s
}
