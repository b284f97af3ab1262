// Package ssim measures perceptual similarity between images with the
// Structural Similarity Index (Wang et al., 2004).
//
// Local statistics are estimated with a Gaussian-weighted window (11x11,
// sigma 1.5 by default), combined per pixel into an SSIM map and averaged.
// Multi-channel images are compared plane by plane and the channel scores
// are averaged into a single figure:
//
//	res, err := ssim.CompareFiles(ctx, "original.png", "decoded.jpg", ssim.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Mean)
//
// Inputs are validated before anything is computed. Mismatched shapes,
// mismatched channel counts and non-8-bit samples are reported as errors
// (ErrShapeMismatch, ErrChannelCountUnsupported, ErrInvalidSampleType) and
// never produce a partial result.
//
// Beyond the metric the package offers batch comparison of file pairs,
// JPEG quality sweeps and synthetic degradation ladders for calibration.
package ssim

import (
	"bytes"
	"context"
	"image"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// Compare splits two decoded images into planes using opts.Layout and
// compares them channel by channel. LayoutAuto is resolved for each image
// on its own, so a grayscale image against a colour one fails with
// ErrChannelCountUnsupported. Pass LayoutGray to compare luma to luma.
func Compare(ctx context.Context, a, b image.Image, opts Options) (*Result, error) {
	pa, err := Split(a, opts.Layout)
	if err != nil {
		return nil, err
	}
	pb, err := Split(b, opts.Layout)
	if err != nil {
		return nil, err
	}
	return CompareImages(ctx, pa, pb, opts)
}

// CompareFiles decodes two image files and compares them.
func CompareFiles(ctx context.Context, reference, candidate string, opts Options) (*Result, error) {
	a, err := Open(reference)
	if err != nil {
		return nil, err
	}
	b, err := Open(candidate)
	if err != nil {
		return nil, err
	}
	return Compare(ctx, a, b, opts)
}

// CompareBytes decodes two encoded images held in memory and compares them.
func CompareBytes(ctx context.Context, reference, candidate []byte, opts Options) (*Result, error) {
	a, err := Decode(bytes.NewReader(reference))
	if err != nil {
		return nil, err
	}
	b, err := Decode(bytes.NewReader(candidate))
	if err != nil {
		return nil, err
	}
	return Compare(ctx, a, b, opts)
}

// CompareImages scores each channel pair of a and b and averages the scores.
//
// The whole input is validated before the first channel is scored, so a
// failure never yields partial data. With opts.Parallel the channels are
// scored concurrently.
func CompareImages(ctx context.Context, a, b Image, opts Options) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	opts.normalize()
	log := opts.logger()

	if err := opts.Constants.validate(); err != nil {
		return nil, err
	}
	if err := opts.Window.validate(); err != nil {
		return nil, err
	}
	if err := checkImages(a, b, opts.Channels); err != nil {
		log.Debug().Err(err).Int("channels_a", a.Channels()).Int("channels_b", b.Channels()).Msg("input rejected")
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	n := a.Channels()
	scores := make([]float64, n)
	score := func(i int) {
		scores[i] = scorePlanes(a.Planes[i], b.Planes[i], opts)
		log.Debug().Int("channel", i).Str("name", a.name(i)).Float64("ssim", scores[i]).Msg("channel scored")
	}

	if opts.Parallel && n > 1 {
		g, gctx := errgroup.WithContext(ctx)
		for i := 0; i < n; i++ {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				score(i)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i := 0; i < n; i++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			score(i)
		}
	}

	res := &Result{
		Channels:   make([]ChannelScore, n),
		Mean:       lo.Sum(scores) / float64(n),
		Dimensions: a.Bounds(),
	}
	for i, s := range scores {
		res.Channels[i] = ChannelScore{Name: a.name(i), SSIM: s}
	}
	log.Debug().Float64("mean", res.Mean).Int("channels", n).Msg("comparison done")
	return res, nil
}

// scorePlanes runs the configured estimator on an already validated pair.
func scorePlanes(a, b Plane, opts Options) float64 {
	if opts.Global {
		return globalSSIM(a, b, opts.Constants)
	}
	return meanSSIM(estimateStats(a, b, opts.Window, opts.Border), opts.Constants)
}

