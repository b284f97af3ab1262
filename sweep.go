package ssim

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
)

// SweepPoint is the outcome of re-encoding an image at one JPEG quality.
type SweepPoint struct {
	// Quality is the JPEG quality used (1-100).
	Quality int

	// Result compares the original against the decoded JPEG.
	Result *Result

	// Data holds the encoded JPEG bytes. Use WriteTo to persist them.
	Data []byte
}

// WriteTo writes the encoded JPEG to w.
func (p *SweepPoint) WriteTo(w io.Writer) (int64, error) {
	if len(p.Data) == 0 {
		return 0, fmt.Errorf("ssim: no encoded data for quality %d", p.Quality)
	}
	n, err := w.Write(p.Data)
	return int64(n), err
}

// Sweep re-encodes img as JPEG at each quality level, decodes it back and
// scores it against the original. Levels are processed in the given order;
// nil levels means DefaultQualityLevels.
//
// The levels, options and img itself are checked before any encoding
// happens. The first failure
// aborts the sweep and no points are returned.
func Sweep(ctx context.Context, img image.Image, levels []int, opts Options) ([]SweepPoint, error) {
	if img == nil {
		return nil, fmt.Errorf("ssim: nil image")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if levels == nil {
		levels = DefaultQualityLevels
	}
	for _, q := range levels {
		if q < 1 || q > 100 {
			return nil, fmt.Errorf("%w: %d (want 1-100)", ErrInvalidQuality, q)
		}
	}

	opts.normalize()
	if err := opts.Constants.validate(); err != nil {
		return nil, err
	}
	if err := opts.Window.validate(); err != nil {
		return nil, err
	}
	opts.Layout = ResolveLayout(img, opts.Layout)
	ref, err := Split(img, opts.Layout)
	if err != nil {
		return nil, err
	}
	if err := checkImages(ref, ref, opts.Channels); err != nil {
		return nil, err
	}
	log := opts.logger()

	points := make([]SweepPoint, 0, len(levels))
	for _, q := range levels {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var buf bytes.Buffer
		if err := encodeJPEG(&buf, img, q); err != nil {
			return nil, err
		}

		decoded, err := Decode(bytes.NewReader(buf.Bytes()))
		if err != nil {
			return nil, fmt.Errorf("ssim: quality %d: %w", q, err)
		}
		cand, err := Split(decoded, opts.Layout)
		if err != nil {
			return nil, err
		}
		res, err := CompareImages(ctx, ref, cand, opts)
		if err != nil {
			return nil, fmt.Errorf("ssim: quality %d: %w", q, err)
		}

		log.Debug().Int("quality", q).Float64("ssim", res.Mean).Msg("sweep point")
		points = append(points, SweepPoint{Quality: q, Result: res, Data: buf.Bytes()})
	}
	return points, nil
}
