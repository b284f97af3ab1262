package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/CamCamInnitFam/ssim"
	"github.com/spf13/cobra"
)

func (a *app) sweepCmd() *cobra.Command {
	var (
		qualities []int
		outDir    string
	)

	cmd := &cobra.Command{
		Use:   "sweep <input>...",
		Short: "Re-encode images as JPEG at several qualities and score each",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.options()
			if err != nil {
				return err
			}
			if outDir != "" {
				if err := os.MkdirAll(outDir, 0o755); err != nil {
					return fmt.Errorf("create %q: %w", outDir, err)
				}
			}
			out := cmd.OutOrStdout()

			var failed int
			bar := newBar(len(args), "sweeping")
			for _, input := range args {
				points, err := a.sweepOne(cmd, input, qualities, outDir, opts)
				_ = bar.Add(1)
				if err != nil {
					a.log.Error().Err(err).Str("input", input).Msg("sweep failed")
					failed++
					continue
				}

				fmt.Fprintf(out, "%s\n", input)
				for _, p := range points {
					fmt.Fprintf(out, "  Quality %3d: SSIM %.6f", p.Quality, p.Result.Mean)
					for _, c := range p.Result.Channels {
						fmt.Fprintf(out, "  %s %.4f", c.Name, c.SSIM)
					}
					fmt.Fprintln(out)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d inputs failed", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().IntSliceVarP(&qualities, "quality", "q", ssim.DefaultQualityLevels, "JPEG quality levels (1-100)")
	cmd.Flags().StringVarP(&outDir, "out-dir", "o", "", "Also save each re-encoded JPEG into this directory")
	return cmd
}

func (a *app) sweepOne(cmd *cobra.Command, input string, qualities []int, outDir string, opts ssim.Options) ([]ssim.SweepPoint, error) {
	img, err := ssim.Open(input)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	a.log.Debug().Str("input", input).Int("width", b.Dx()).Int("height", b.Dy()).Msg("loaded")

	points, err := ssim.Sweep(cmd.Context(), img, qualities, opts)
	if err != nil {
		return nil, err
	}

	if outDir != "" {
		base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
		for i := range points {
			path := filepath.Join(outDir, fmt.Sprintf("%s_q%d.jpg", base, points[i].Quality))
			if err := os.WriteFile(path, points[i].Data, 0o644); err != nil {
				return nil, fmt.Errorf("write %q: %w", path, err)
			}
			a.log.Debug().Str("path", path).Msg("saved")
		}
	}
	return points, nil
}
