package ssim_test

import (
	"context"
	"fmt"
	"image"
	"os"

	"github.com/CamCamInnitFam/ssim"
)

func ExamplePlaneSSIM() {
	a := ssim.NewPlane(16, 16)
	a.Fill(200)
	b := a.Clone()
	b.Set(8, 8, 0)

	same, _ := ssim.PlaneSSIM(a, a, ssim.DefaultOptions())
	diff, _ := ssim.PlaneSSIM(a, b, ssim.DefaultOptions())
	fmt.Printf("%.4f %.4f\n", same, diff)
	// Output: 1.0000 0.7859
}

func ExampleCompareFiles() {
	ctx := context.Background()

	res, err := ssim.CompareFiles(ctx, "original.png", "decoded.jpg", ssim.DefaultOptions())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	fmt.Println(res)
}

func ExampleCompare() {
	ctx := context.Background()
	img := image.NewNRGBA(image.Rect(0, 0, 32, 32))
	for i := range img.Pix {
		img.Pix[i] = uint8(i)
	}

	opts := ssim.DefaultOptions()
	opts.Layout = ssim.LayoutBGR
	opts.Channels = 3

	res, err := ssim.Compare(ctx, img, img, opts)
	if err != nil {
		panic(err)
	}
	for _, c := range res.Channels {
		fmt.Printf("%s %.4f\n", c.Name, c.SSIM)
	}
	// Output:
	// B 1.0000
	// G 1.0000
	// R 1.0000
}

func ExampleSweep() {
	ctx := context.Background()

	img, err := ssim.Open("photo.png")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	points, err := ssim.Sweep(ctx, img, []int{90, 75, 50}, ssim.DefaultOptions())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	for _, p := range points {
		fmt.Printf("q%d: %.4f\n", p.Quality, p.Result.Mean)
	}
}

func ExampleCompareBatch() {
	ctx := context.Background()

	items := []ssim.BatchItem{
		{Reference: "a.png", Candidate: "a.jpg"},
		{Reference: "b.png", Candidate: "b.jpg"},
	}
	results := ssim.CompareBatch(ctx, items, ssim.BatchOptions{
		Workers:     4,
		DefaultOpts: ssim.DefaultOptions(),
	})
	fmt.Println(ssim.Summarize(results))
}
