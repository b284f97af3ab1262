package ssim

import (
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"

	// Extra decoders beyond the standard library's GIF, JPEG and PNG.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Open loads an image from a file path. EXIF orientation is applied so that
// a rotated camera JPEG lines up with its re-encoded copy.
func Open(filename string) (image.Image, error) {
	img, err := imaging.Open(filename, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("ssim: open %q: %w", filename, err)
	}
	return img, nil
}

// Decode reads an image from r, applying EXIF orientation.
func Decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("ssim: decode: %w", err)
	}
	return img, nil
}

// encodeJPEG writes img as a baseline JPEG at the given quality.
func encodeJPEG(w io.Writer, img image.Image, quality int) error {
	if quality < 1 || quality > 100 {
		return fmt.Errorf("%w: %d (want 1-100)", ErrInvalidQuality, quality)
	}
	if err := imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return fmt.Errorf("ssim: JPEG encode at quality %d: %w", quality, err)
	}
	return nil
}
