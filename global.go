package ssim

import "gonum.org/v1/gonum/stat"

// GlobalPlaneSSIM computes SSIM with a single uniform window covering the
// whole plane. It is the classic formula on global statistics and serves as
// a cheap approximation when local structure does not matter.
func GlobalPlaneSSIM(a, b Plane, c Constants) (float64, error) {
	if c == (Constants{}) {
		c = DefaultConstants()
	}
	if err := c.validate(); err != nil {
		return 0, err
	}
	if err := checkPlanes(a, b); err != nil {
		return 0, err
	}
	return globalSSIM(a, b, c), nil
}

func globalSSIM(a, b Plane, c Constants) float64 {
	fa, fb := a.floats(), b.floats()
	muA, varA := stat.PopMeanVariance(fa, nil)
	muB, varB := stat.PopMeanVariance(fb, nil)

	// stat.Covariance is the unbiased estimate; rescale to match the
	// population variances above.
	var cov float64
	if n := float64(len(fa)); n > 1 {
		cov = stat.Covariance(fa, fb, nil) * (n - 1) / n
	}

	num := (2*muA*muB + c.C1) * (2*cov + c.C2)
	den := (muA*muA + muB*muB + c.C1) * (varA + varB + c.C2)
	return num / den
}
