package ssim

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// ── Test Helpers ────────────────────────────────────────────────────────────

func ctx() context.Context { return context.Background() }

// makeTestImage is a smooth colour gradient.
func makeTestImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			off := y*img.Stride + x*4
			img.Pix[off] = uint8(x * 255 / w)
			img.Pix[off+1] = uint8(y * 255 / h)
			img.Pix[off+2] = uint8((x + y) % 256)
			img.Pix[off+3] = 0xff
		}
	}
	return img
}

// makeTexturedImage adds seeded noise and a checkerboard to the gradient so
// that blur, resampling and quantization all visibly destroy structure.
func makeTexturedImage(w, h int, seed int64) *image.NRGBA {
	img := makeTestImage(w, h)
	rng := rand.New(rand.NewSource(seed))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			off := y*img.Stride + x*4
			check := 0
			if (x/4+y/4)%2 == 0 {
				check = 40
			}
			for c := 0; c < 3; c++ {
				v := int(img.Pix[off+c])/2 + check + rng.Intn(80)
				img.Pix[off+c] = clampF(float64(v))
			}
		}
	}
	return img
}

func makeSolidImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
	return img
}

func filledPlane(w, h int, v uint16) Plane {
	p := NewPlane(w, h)
	p.Fill(v)
	return p
}

// noisePlane is a deterministic plane of uniformly distributed samples.
func noisePlane(w, h int, seed int64) Plane {
	rng := rand.New(rand.NewSource(seed))
	p := NewPlane(w, h)
	for i := range p.Pix {
		p.Pix[i] = uint16(rng.Intn(256))
	}
	return p
}

func mustSplit(t *testing.T, img image.Image, layout Layout) Image {
	t.Helper()
	m, err := Split(img, layout)
	require.NoError(t, err)
	return m
}

func writePNG(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}
