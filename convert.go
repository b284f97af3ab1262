package ssim

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// toNRGBA converts any image.Image to *image.NRGBA, always returning a new copy
// anchored at the origin. Use this when the result will be mutated.
func toNRGBA(img image.Image) *image.NRGBA {
	return imaging.Clone(img)
}

// toNRGBARef converts any image.Image to *image.NRGBA without copying if the
// input is already an origin-anchored NRGBA. The caller must NOT modify the
// returned image.
func toNRGBARef(img image.Image) *image.NRGBA {
	if nrgba, ok := img.(*image.NRGBA); ok && nrgba.Rect.Min == (image.Point{}) {
		return nrgba
	}
	return imaging.Clone(img)
}

// toGrayPlane converts img to a BT.601 luma plane. *image.Gray input is
// copied as-is.
func toGrayPlane(img image.Image) Plane {
	if g, ok := img.(*image.Gray); ok {
		return PlaneFromGray(g)
	}

	src := toNRGBARef(img)
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	p := NewPlane(w, h)
	for y := 0; y < h; y++ {
		off := y * src.Stride
		for x := 0; x < w; x++ {
			i := off + x*4
			lum := 0.299*float64(src.Pix[i]) + 0.587*float64(src.Pix[i+1]) + 0.114*float64(src.Pix[i+2])
			p.Pix[y*w+x] = uint16(clampF(lum))
		}
	}
	return p
}

// clampF clamps a float64 to uint8 range [0, 255].
func clampF(x float64) uint8 {
	v := int64(math.Round(x))
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return uint8(v)
}
