package main

import (
	"fmt"

	"github.com/CamCamInnitFam/ssim"
	"github.com/spf13/cobra"
)

func (a *app) ladderCmd() *cobra.Command {
	var (
		kind      string
		strengths []float64
	)

	cmd := &cobra.Command{
		Use:   "ladder <input>",
		Short: "Score progressively degraded copies of an image",
		Long:  `Applies a synthetic degradation at increasing strengths and prints the SSIM of each copy against the input. Useful for calibrating score thresholds.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.options()
			if err != nil {
				return err
			}
			k, err := ssim.ParseDegradationKind(kind)
			if err != nil {
				return err
			}

			img, err := ssim.Open(args[0])
			if err != nil {
				return err
			}
			// Degraded copies are always colour; score them in the input's layout.
			opts.Layout = ssim.ResolveLayout(img, opts.Layout)
			rungs, err := ssim.Ladder(img, k, strengths)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			prev := 2.0
			for i, rung := range rungs {
				res, err := ssim.Compare(cmd.Context(), img, rung, opts)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%-16s SSIM %.6f\n", ssim.Degradation{Kind: k, Strength: strengths[i]}, res.Mean)
				if res.Mean > prev {
					a.log.Warn().Float64("strength", strengths[i]).Msg("score increased with strength")
				}
				prev = res.Mean
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", "blur", "Degradation: blur|resample|quantize")
	cmd.Flags().Float64SliceVarP(&strengths, "strengths", "s", []float64{0.5, 1, 2, 4}, "Increasing degradation strengths")
	return cmd
}
