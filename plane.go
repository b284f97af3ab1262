package ssim

import (
	"fmt"
	"image"
)

// SampleType describes the numeric domain of a plane's samples.
type SampleType int

const (
	// Uint8 samples span 0–255. This is the only type the metric accepts.
	Uint8 SampleType = iota
	// Uint16 samples span 0–65535, as produced by 16-bit PNG and TIFF decoders.
	Uint16
)

func (t SampleType) String() string {
	switch t {
	case Uint8:
		return "uint8"
	case Uint16:
		return "uint16"
	default:
		return fmt.Sprintf("SampleType(%d)", int(t))
	}
}

// Plane is a single-channel grid of intensity samples stored row-major.
type Plane struct {
	Width  int
	Height int
	Type   SampleType
	Pix    []uint16
}

// NewPlane returns a zeroed 8-bit plane of the given size.
func NewPlane(w, h int) Plane {
	if w <= 0 || h <= 0 {
		return Plane{Type: Uint8}
	}
	return Plane{Width: w, Height: h, Type: Uint8, Pix: make([]uint16, w*h)}
}

// PlaneFromGray copies an 8-bit grayscale image into a plane.
func PlaneFromGray(img *image.Gray) Plane {
	b := img.Bounds()
	p := NewPlane(b.Dx(), b.Dy())
	for y := 0; y < p.Height; y++ {
		off := y * img.Stride
		row := p.Pix[y*p.Width : (y+1)*p.Width]
		for x := range row {
			row[x] = uint16(img.Pix[off+x])
		}
	}
	return p
}

// PlaneFromGray16 copies a 16-bit grayscale image into a Uint16 plane.
func PlaneFromGray16(img *image.Gray16) Plane {
	b := img.Bounds()
	p := NewPlane(b.Dx(), b.Dy())
	p.Type = Uint16
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			p.Pix[(y-b.Min.Y)*p.Width+(x-b.Min.X)] = img.Gray16At(x, y).Y
		}
	}
	return p
}

// At returns the sample at (x, y), or 0 outside the plane.
func (p Plane) At(x, y int) uint16 {
	if x < 0 || x >= p.Width || y < 0 || y >= p.Height {
		return 0
	}
	return p.Pix[y*p.Width+x]
}

// Set stores v at (x, y). Out-of-range coordinates are ignored.
func (p Plane) Set(x, y int, v uint16) {
	if x < 0 || x >= p.Width || y < 0 || y >= p.Height {
		return
	}
	p.Pix[y*p.Width+x] = v
}

// Fill sets every sample to v.
func (p Plane) Fill(v uint16) {
	for i := range p.Pix {
		p.Pix[i] = v
	}
}

// Clone returns a deep copy of the plane.
func (p Plane) Clone() Plane {
	c := p
	c.Pix = make([]uint16, len(p.Pix))
	copy(c.Pix, p.Pix)
	return c
}

// floats promotes the samples to float64 for the statistics pass.
func (p Plane) floats() []float64 {
	out := make([]float64, len(p.Pix))
	for i, v := range p.Pix {
		out[i] = float64(v)
	}
	return out
}

// Image is an ordered set of same-shaped planes, one per channel.
type Image struct {
	Planes []Plane
	Names  []string
}

// NewGrayImage wraps a single plane as a one-channel image.
func NewGrayImage(p Plane) Image {
	return Image{Planes: []Plane{p}, Names: []string{"Y"}}
}

// Channels returns the number of planes.
func (m Image) Channels() int {
	return len(m.Planes)
}

// Bounds returns the shared plane size, or the zero point for an empty image.
func (m Image) Bounds() image.Point {
	if len(m.Planes) == 0 {
		return image.Point{}
	}
	return image.Pt(m.Planes[0].Width, m.Planes[0].Height)
}

// name returns the channel name for index i, falling back to "C<i>".
func (m Image) name(i int) string {
	if i < len(m.Names) && m.Names[i] != "" {
		return m.Names[i]
	}
	return fmt.Sprintf("C%d", i)
}

// Layout selects how a decoded image is decomposed into planes.
type Layout int

const (
	// LayoutAuto yields one plane for grayscale images and R,G,B otherwise.
	LayoutAuto Layout = iota
	// LayoutGray converts to BT.601 luma and yields one plane.
	LayoutGray
	// LayoutRGB yields R, G, B.
	LayoutRGB
	// LayoutBGR yields B, G, R, the channel order OpenCV-decoded images use.
	LayoutBGR
	// LayoutRGBA yields R, G, B, A.
	LayoutRGBA
)

func (l Layout) String() string {
	switch l {
	case LayoutGray:
		return "gray"
	case LayoutRGB:
		return "rgb"
	case LayoutBGR:
		return "bgr"
	case LayoutRGBA:
		return "rgba"
	default:
		return "auto"
	}
}

// ParseLayout maps a layout name (as printed by Layout.String) to a Layout.
func ParseLayout(s string) (Layout, error) {
	switch s {
	case "", "auto":
		return LayoutAuto, nil
	case "gray", "grey", "y":
		return LayoutGray, nil
	case "rgb":
		return LayoutRGB, nil
	case "bgr":
		return LayoutBGR, nil
	case "rgba":
		return LayoutRGBA, nil
	default:
		return LayoutAuto, fmt.Errorf("ssim: unknown layout %q", s)
	}
}

// Split decomposes img into per-channel planes following layout.
// 16-bit source images produce Uint16 planes, which Compare rejects
// with ErrInvalidSampleType rather than silently truncating them.
func Split(img image.Image, layout Layout) (Image, error) {
	if img == nil {
		return Image{}, fmt.Errorf("ssim: nil image")
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return Image{}, fmt.Errorf("ssim: empty image (%dx%d): %w", b.Dx(), b.Dy(), ErrShapeMismatch)
	}

	layout = ResolveLayout(img, layout)

	if is16Bit(img) {
		return split16(img, layout), nil
	}

	switch layout {
	case LayoutGray:
		return NewGrayImage(toGrayPlane(img)), nil
	default:
		return splitNRGBA(toNRGBARef(img), layout), nil
	}
}

// ResolveLayout returns layout, or for LayoutAuto the layout Split would
// pick for img: LayoutGray for grayscale types, LayoutRGB otherwise.
func ResolveLayout(img image.Image, layout Layout) Layout {
	if layout != LayoutAuto {
		return layout
	}
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return LayoutGray
	default:
		return LayoutRGB
	}
}

func is16Bit(img image.Image) bool {
	switch img.(type) {
	case *image.Gray16, *image.RGBA64, *image.NRGBA64:
		return true
	}
	return false
}

// channelIndex maps a layout to NRGBA byte offsets and names.
func channelIndex(layout Layout) ([]int, []string) {
	switch layout {
	case LayoutBGR:
		return []int{2, 1, 0}, []string{"B", "G", "R"}
	case LayoutRGBA:
		return []int{0, 1, 2, 3}, []string{"R", "G", "B", "A"}
	default:
		return []int{0, 1, 2}, []string{"R", "G", "B"}
	}
}

func splitNRGBA(src *image.NRGBA, layout Layout) Image {
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	offsets, names := channelIndex(layout)

	out := Image{Planes: make([]Plane, len(offsets)), Names: names}
	for c := range out.Planes {
		out.Planes[c] = NewPlane(w, h)
	}
	for y := 0; y < h; y++ {
		row := y * src.Stride
		for x := 0; x < w; x++ {
			i := row + x*4
			for c, off := range offsets {
				out.Planes[c].Pix[y*w+x] = uint16(src.Pix[i+off])
			}
		}
	}
	return out
}

func split16(img image.Image, layout Layout) Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	if layout == LayoutGray {
		p := NewPlane(w, h)
		p.Type = Uint16
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
				p.Pix[y*w+x] = uint16((19595*r + 38470*g + 7471*bl + 1<<15) >> 16)
			}
		}
		return NewGrayImage(p)
	}

	offsets, names := channelIndex(layout)
	out := Image{Planes: make([]Plane, len(offsets)), Names: names}
	for c := range out.Planes {
		out.Planes[c] = NewPlane(w, h)
		out.Planes[c].Type = Uint16
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bl, a := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			px := [4]uint32{r, g, bl, a}
			for c, off := range offsets {
				out.Planes[c].Pix[y*w+x] = uint16(px[off])
			}
		}
	}
	return out
}
