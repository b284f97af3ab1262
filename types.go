package ssim

import (
	"fmt"
	"image"
	"strings"

	"github.com/rs/zerolog"
)

// Version is the library version.
const Version = "1.0.0"

// DefaultQualityLevels are the JPEG qualities Sweep uses when none are given.
var DefaultQualityLevels = []int{100, 75, 50}

// Options configures a comparison.
// The zero value is usable: unset fields fall back to DefaultOptions.
type Options struct {
	// Window is the Gaussian window (default: 11x11, sigma 1.5).
	Window Window

	// Border is the edge policy for the window (default: BorderReflect101).
	Border Border

	// Constants are the stabilization terms (default: 8-bit C1, C2).
	// A zero value means default; any other non-positive value is an error.
	Constants Constants

	// Layout controls how Compare splits decoded images into planes.
	Layout Layout

	// Channels, when positive, requires both images to have exactly this
	// many channels. Set to 3 to accept only colour input.
	Channels int

	// Global replaces the sliding window with one window spanning the
	// whole plane. Faster, but blind to local structure.
	Global bool

	// Parallel scores channels concurrently.
	Parallel bool

	// Logger receives debug events. Nil disables logging.
	Logger *zerolog.Logger
}

// DefaultOptions returns the standard SSIM configuration.
func DefaultOptions() Options {
	return Options{
		Window:    DefaultWindow,
		Border:    BorderReflect101,
		Constants: DefaultConstants(),
		Layout:    LayoutAuto,
	}
}

// normalize fills unset fields with defaults.
func (o *Options) normalize() {
	if o.Window == (Window{}) {
		o.Window = DefaultWindow
	}
	if o.Constants == (Constants{}) {
		o.Constants = DefaultConstants()
	}
}

// logger returns the configured logger or a no-op one.
func (o *Options) logger() *zerolog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	nop := zerolog.Nop()
	return &nop
}

// ChannelScore is the SSIM of one channel pair.
type ChannelScore struct {
	Name string
	SSIM float64
}

// Result holds per-channel scores and their mean.
type Result struct {
	// Channels are in the order of the input planes.
	Channels []ChannelScore

	// Mean is the arithmetic mean of the channel scores.
	Mean float64

	// Dimensions is the compared width x height.
	Dimensions image.Point
}

// Channel returns the score of the named channel.
func (r *Result) Channel(name string) (float64, bool) {
	for _, c := range r.Channels {
		if c.Name == name {
			return c.SSIM, true
		}
	}
	return 0, false
}

// String returns a human-readable summary of the result.
func (r *Result) String() string {
	parts := make([]string, len(r.Channels))
	for i, c := range r.Channels {
		parts[i] = fmt.Sprintf("%s: %.4f", c.Name, c.SSIM)
	}
	return fmt.Sprintf("SSIM %.4f | %dx%d | %s",
		r.Mean, r.Dimensions.X, r.Dimensions.Y, strings.Join(parts, " | "))
}
