package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/CamCamInnitFam/ssim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI executes the command tree in-process and returns stdout and the log.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, logs bytes.Buffer
	root := newRootCmd(&logs)
	root.SetOut(&out)
	root.SetErr(&logs)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), logs.String(), err
}

func writeFixture(t *testing.T, dir, name string, seed int64, shift uint8) string {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	img := image.NewNRGBA(image.Rect(0, 0, 40, 30))
	for y := 0; y < 30; y++ {
		for x := 0; x < 40; x++ {
			v := uint8(x*6) + uint8(rng.Intn(40))
			img.SetNRGBA(x, y, color.NRGBA{R: v, G: v / 2, B: 255 - v + shift, A: 255})
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func writeGrayFixture(t *testing.T, dir, name string) string {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 40, 30))
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 13)
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func TestCLINoArgs(t *testing.T) {
	_, _, err := runCLI(t, "compare")
	assert.Error(t, err)
}

func TestCLICompareIdentical(t *testing.T) {
	dir := t.TempDir()
	a := writeFixture(t, dir, "a.png", 1, 0)
	b := writeFixture(t, dir, "b.png", 1, 0)

	out, _, err := runCLI(t, "compare", a, b)
	require.NoError(t, err)
	assert.Contains(t, out, "SSIM (R): 1.000000")
	assert.Contains(t, out, "SSIM (G): 1.000000")
	assert.Contains(t, out, "SSIM (B): 1.000000")
	assert.Contains(t, out, "Average SSIM: 1.000000")
}

func TestCLICompareBGR(t *testing.T) {
	dir := t.TempDir()
	a := writeFixture(t, dir, "a.png", 1, 0)
	b := writeFixture(t, dir, "b.png", 2, 9)

	out, _, err := runCLI(t, "--layout", "bgr", "--channels", "3", "--parallel", "compare", a, b)
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "SSIM (B)"), strings.Index(out, "SSIM (R)"))
	assert.NotContains(t, out, "Average SSIM: 1.000000")
}

func TestCLICompareMany(t *testing.T) {
	dir := t.TempDir()
	ref := writeFixture(t, dir, "ref.png", 1, 0)
	c1 := writeFixture(t, dir, "c1.png", 1, 0)
	c2 := writeFixture(t, dir, "c2.png", 3, 0)

	out, _, err := runCLI(t, "compare", "-j", "2", ref, c1, c2)
	require.NoError(t, err)
	assert.Contains(t, out, "c1.png")
	assert.Contains(t, out, "c2.png")
	assert.Contains(t, out, "2/2 succeeded")

	_, logs, err := runCLI(t, "compare", ref, c1, filepath.Join(dir, "nope.png"))
	assert.Error(t, err)
	assert.Contains(t, logs, "comparison failed")
}

func TestCLICompareFailureReportedOnce(t *testing.T) {
	dir := t.TempDir()
	a := writeFixture(t, dir, "a.png", 1, 0)
	missing := filepath.Join(dir, "nope.png")

	_, logs, err := runCLI(t, "compare", a, missing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.png")
	assert.Empty(t, logs)
}

func TestCLICompareGrayAgainstColour(t *testing.T) {
	dir := t.TempDir()
	colour := writeFixture(t, dir, "colour.png", 1, 0)
	gray := writeGrayFixture(t, dir, "gray.png")

	_, _, err := runCLI(t, "compare", gray, colour)
	assert.ErrorIs(t, err, ssim.ErrChannelCountUnsupported)

	out, _, err := runCLI(t, "--layout", "gray", "compare", gray, colour)
	require.NoError(t, err)
	assert.Contains(t, out, "SSIM (Y)")
}

func TestCLIBadFlags(t *testing.T) {
	dir := t.TempDir()
	a := writeFixture(t, dir, "a.png", 1, 0)

	for _, args := range [][]string{
		{"--layout", "cmyk", "compare", a, a},
		{"--border", "wrap", "compare", a, a},
		{"--window", "4", "compare", a, a},
		{"--channels", "1", "compare", a, a},
	} {
		_, _, err := runCLI(t, args...)
		assert.Error(t, err, strings.Join(args, " "))
	}
}

func TestCLISweep(t *testing.T) {
	dir := t.TempDir()
	in := writeFixture(t, dir, "photo.png", 4, 0)
	outDir := filepath.Join(dir, "out")

	out, _, err := runCLI(t, "sweep", "-q", "90,40", "-o", outDir, in)
	require.NoError(t, err)
	assert.Contains(t, out, "Quality  90")
	assert.Contains(t, out, "Quality  40")
	assert.FileExists(t, filepath.Join(outDir, "photo_q90.jpg"))
	assert.FileExists(t, filepath.Join(outDir, "photo_q40.jpg"))

	_, _, err = runCLI(t, "sweep", "-q", "0", in)
	assert.Error(t, err)
}

func TestCLILadder(t *testing.T) {
	dir := t.TempDir()
	in := writeFixture(t, dir, "photo.png", 5, 0)

	out, _, err := runCLI(t, "ladder", "--kind", "blur", "-s", "1,3", in)
	require.NoError(t, err)
	assert.Contains(t, out, "blur(1)")
	assert.Contains(t, out, "blur(3)")

	gray := writeGrayFixture(t, dir, "gray.png")
	out, _, err = runCLI(t, "ladder", "--kind", "quantize", "-s", "2,4", gray)
	require.NoError(t, err)
	assert.Contains(t, out, "quantize(2)")

	_, _, err = runCLI(t, "ladder", "--kind", "sharpen", in)
	assert.Error(t, err)
}

func TestCLIVerboseLogsDebug(t *testing.T) {
	dir := t.TempDir()
	a := writeFixture(t, dir, "a.png", 1, 0)

	_, logs, err := runCLI(t, "-v", "compare", a, a)
	require.NoError(t, err)
	assert.Contains(t, logs, "comparison done")
}
