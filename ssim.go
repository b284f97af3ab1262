package ssim

import (
	"fmt"
	"math"
)

// SSIM stabilization parameters from Wang et al.
const (
	defaultK1    = 0.01
	defaultK2    = 0.03
	dynamicRange = 255.0
)

// Constants are the additive terms that keep the SSIM ratio finite when
// local means or variances approach zero. Both must be positive.
type Constants struct {
	C1 float64
	C2 float64
}

// DefaultConstants returns C1 = (0.01·255)² and C2 = (0.03·255)², the values
// for 8-bit samples.
func DefaultConstants() Constants {
	return NewConstants(defaultK1, defaultK2, dynamicRange)
}

// NewConstants derives C1 = (k1·L)² and C2 = (k2·L)² for a dynamic range L.
func NewConstants(k1, k2, l float64) Constants {
	return Constants{C1: (k1 * l) * (k1 * l), C2: (k2 * l) * (k2 * l)}
}

func (c Constants) validate() error {
	if !(c.C1 > 0) || math.IsInf(c.C1, 0) {
		return fmt.Errorf("%w: C1 = %v", ErrInvalidStabilizationConstant, c.C1)
	}
	if !(c.C2 > 0) || math.IsInf(c.C2, 0) {
		return fmt.Errorf("%w: C2 = %v", ErrInvalidStabilizationConstant, c.C2)
	}
	return nil
}

// meanSSIM assembles the per-pixel SSIM map from s and returns its mean.
// The result is not clamped: rounding can push it marginally outside [0, 1].
func meanSSIM(s localStats, c Constants) float64 {
	n := len(s.muA)
	if n == 0 {
		return 1.0
	}

	var sum float64
	for i := 0; i < n; i++ {
		ma, mb := s.muA[i], s.muB[i]
		num := (2*ma*mb + c.C1) * (2*s.cov[i] + c.C2)
		den := (ma*ma + mb*mb + c.C1) * (s.varA[i] + s.varB[i] + c.C2)
		sum += num / den
	}
	return sum / float64(n)
}

// PlaneSSIM computes the mean SSIM of two single-channel planes.
// Inputs are validated first; nothing is computed on failure.
func PlaneSSIM(a, b Plane, opts Options) (float64, error) {
	opts.normalize()
	if err := opts.Constants.validate(); err != nil {
		return 0, err
	}
	if err := opts.Window.validate(); err != nil {
		return 0, err
	}
	if err := checkPlanes(a, b); err != nil {
		return 0, err
	}

	return scorePlanes(a, b, opts), nil
}
