package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/CamCamInnitFam/ssim"
	"github.com/samber/lo"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func (a *app) compareCmd() *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "compare <reference> <candidate> [candidate...]",
		Short: "Compare one or more candidates against a reference image",
		Long:  `Prints the SSIM of every channel and their mean. Several candidates are compared concurrently and summarised.`,
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.options()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			ref, candidates := args[0], args[1:]

			if len(candidates) == 1 {
				res, err := ssim.CompareFiles(cmd.Context(), ref, candidates[0], opts)
				if err != nil {
					return fmt.Errorf("%s: %w", candidates[0], err)
				}
				printResult(out, candidates[0], res)
				return nil
			}

			items := lo.Map(candidates, func(c string, _ int) ssim.BatchItem {
				return ssim.BatchItem{Reference: ref, Candidate: c}
			})
			bar := newBar(len(items), "comparing")
			results := ssim.CompareBatch(cmd.Context(), items, ssim.BatchOptions{
				Workers:     workers,
				DefaultOpts: opts,
				OnItem: func(completed, total int) {
					_ = bar.Set(completed)
				},
			})

			for _, r := range results {
				if r.Err != nil {
					a.log.Error().Err(r.Err).Str("candidate", r.Item.Candidate).Msg("comparison failed")
					continue
				}
				printResult(out, r.Item.Candidate, r.Result)
			}
			summary := ssim.Summarize(results)
			fmt.Fprintln(out, summary)
			if summary.Failed > 0 {
				return fmt.Errorf("%d of %d comparisons failed", summary.Failed, summary.Total)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&workers, "workers", "j", 0, "Concurrent comparisons (0 = number of CPUs)")
	return cmd
}

func printResult(w io.Writer, name string, res *ssim.Result) {
	fmt.Fprintf(w, "%s (%dx%d)\n", name, res.Dimensions.X, res.Dimensions.Y)
	for _, c := range res.Channels {
		fmt.Fprintf(w, "  SSIM (%s): %.6f\n", c.Name, c.SSIM)
	}
	fmt.Fprintf(w, "  Average SSIM: %.6f\n", res.Mean)
}

// newBar renders progress on stderr.
func newBar(total int, desc string) *progressbar.ProgressBar {
	return progressbar.NewOptions(
		total,
		progressbar.OptionSetDescription(desc),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetWidth(15),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)
}
