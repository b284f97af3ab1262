package ssim

import "fmt"

// checkPlane rejects planes that are not well-formed 8-bit data.
func checkPlane(p Plane) error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("%w: empty plane %dx%d", ErrShapeMismatch, p.Width, p.Height)
	}
	if p.Type != Uint8 {
		return fmt.Errorf("%w: got %s samples, want uint8", ErrInvalidSampleType, p.Type)
	}
	if len(p.Pix) != p.Width*p.Height {
		return fmt.Errorf("%w: %d samples for a %dx%d plane", ErrInvalidSampleType, len(p.Pix), p.Width, p.Height)
	}
	for i, v := range p.Pix {
		if v > 0xff {
			return fmt.Errorf("%w: sample %d at (%d,%d) exceeds 255", ErrInvalidSampleType, v, i%p.Width, i/p.Width)
		}
	}
	return nil
}

// checkPlanes validates a plane pair for comparison.
func checkPlanes(a, b Plane) error {
	if a.Width != b.Width || a.Height != b.Height {
		return fmt.Errorf("%w: %dx%d vs %dx%d", ErrShapeMismatch, a.Width, a.Height, b.Width, b.Height)
	}
	if err := checkPlane(a); err != nil {
		return err
	}
	return checkPlane(b)
}

// checkImages validates an image pair as a whole before any channel is
// scored. want > 0 requires exactly that many channels.
func checkImages(a, b Image, want int) error {
	ca, cb := a.Channels(), b.Channels()
	if ca == 0 || cb == 0 {
		return fmt.Errorf("%w: image has no channels", ErrChannelCountUnsupported)
	}
	if ca != cb {
		return fmt.Errorf("%w: %d vs %d channels", ErrChannelCountUnsupported, ca, cb)
	}
	if want > 0 && ca != want {
		return fmt.Errorf("%w: got %d channels, want %d", ErrChannelCountUnsupported, ca, want)
	}

	for _, m := range []Image{a, b} {
		size := m.Bounds()
		for i, p := range m.Planes {
			if p.Width != size.X || p.Height != size.Y {
				return &ChannelError{Index: i, Name: m.name(i), Err: fmt.Errorf("%w: plane is %dx%d, image is %dx%d",
					ErrShapeMismatch, p.Width, p.Height, size.X, size.Y)}
			}
		}
	}
	if a.Bounds() != b.Bounds() {
		sa, sb := a.Bounds(), b.Bounds()
		return fmt.Errorf("%w: %dx%d vs %dx%d", ErrShapeMismatch, sa.X, sa.Y, sb.X, sb.Y)
	}

	for i := range a.Planes {
		if err := checkPlanes(a.Planes[i], b.Planes[i]); err != nil {
			return &ChannelError{Index: i, Name: a.name(i), Err: err}
		}
	}
	return nil
}
