package ssim

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/gift"
	"github.com/nfnt/resize"
)

// DegradationKind selects a synthetic distortion.
type DegradationKind int

const (
	// Blur applies a Gaussian blur; Strength is sigma in pixels.
	Blur DegradationKind = iota
	// Resample shrinks by Strength (>= 1) and scales back up bilinearly.
	Resample
	// Quantize drops the Strength (0-7) low bits of every colour sample.
	Quantize
)

func (k DegradationKind) String() string {
	switch k {
	case Blur:
		return "blur"
	case Resample:
		return "resample"
	case Quantize:
		return "quantize"
	default:
		return fmt.Sprintf("DegradationKind(%d)", int(k))
	}
}

// ParseDegradationKind maps a kind name to a DegradationKind.
func ParseDegradationKind(s string) (DegradationKind, error) {
	switch s {
	case "blur":
		return Blur, nil
	case "resample", "scale":
		return Resample, nil
	case "quantize", "posterize":
		return Quantize, nil
	default:
		return Blur, fmt.Errorf("ssim: unknown degradation %q", s)
	}
}

// Degradation is a distortion of a given kind and strength. Larger strengths
// lose more information.
type Degradation struct {
	Kind     DegradationKind
	Strength float64
}

func (d Degradation) String() string {
	return fmt.Sprintf("%s(%g)", d.Kind, d.Strength)
}

// Degrade returns a distorted copy of img. The input is never modified and
// the output has the same size, so it can be compared directly.
func Degrade(img image.Image, d Degradation) (*image.NRGBA, error) {
	if img == nil {
		return nil, fmt.Errorf("ssim: nil image")
	}
	if math.IsNaN(d.Strength) || math.IsInf(d.Strength, 0) {
		return nil, fmt.Errorf("ssim: %s: strength must be finite", d.Kind)
	}
	src := toNRGBARef(img)

	switch d.Kind {
	case Blur:
		if d.Strength < 0 {
			return nil, fmt.Errorf("ssim: blur sigma %g must not be negative", d.Strength)
		}
		if d.Strength == 0 {
			return toNRGBA(src), nil
		}
		g := gift.New(gift.GaussianBlur(float32(d.Strength)))
		dst := image.NewNRGBA(g.Bounds(src.Bounds()))
		g.Draw(dst, src)
		return dst, nil

	case Resample:
		if d.Strength < 1 {
			return nil, fmt.Errorf("ssim: resample factor %g must be >= 1", d.Strength)
		}
		w, h := src.Bounds().Dx(), src.Bounds().Dy()
		sw := uint(math.Max(1, math.Round(float64(w)/d.Strength)))
		sh := uint(math.Max(1, math.Round(float64(h)/d.Strength)))
		small := resize.Resize(sw, sh, src, resize.Bilinear)
		return toNRGBA(resize.Resize(uint(w), uint(h), small, resize.Bilinear)), nil

	case Quantize:
		bits := int(d.Strength)
		if float64(bits) != d.Strength || bits < 0 || bits > 7 {
			return nil, fmt.Errorf("ssim: quantize bits %g must be an integer in 0-7", d.Strength)
		}
		dst := toNRGBA(src)
		mask := uint8(0xff << bits)
		for i := 0; i < len(dst.Pix); i += 4 {
			dst.Pix[i] &= mask
			dst.Pix[i+1] &= mask
			dst.Pix[i+2] &= mask
		}
		return dst, nil

	default:
		return nil, fmt.Errorf("ssim: unsupported degradation %s", d.Kind)
	}
}

// Ladder applies kind at each strength, producing progressively worse
// copies of img when strengths are increasing.
func Ladder(img image.Image, kind DegradationKind, strengths []float64) ([]*image.NRGBA, error) {
	out := make([]*image.NRGBA, len(strengths))
	for i, s := range strengths {
		d, err := Degrade(img, Degradation{Kind: kind, Strength: s})
		if err != nil {
			return nil, err
		}
		out[i] = d
	}
	return out, nil
}
