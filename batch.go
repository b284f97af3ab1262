package ssim

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// BatchItem names a reference image and a candidate to score against it.
type BatchItem struct {
	Reference string
	Candidate string
	// Opts overrides BatchOptions.DefaultOpts for this pair when non-nil.
	Opts *Options
}

// BatchResult is the outcome of one pair. Exactly one of Result and Err is set.
type BatchResult struct {
	Item   BatchItem
	Result *Result
	Err    error
	// Index is the position of Item in the input slice.
	Index int
}

// BatchOptions configures CompareBatch.
type BatchOptions struct {
	// Workers bounds concurrent comparisons. 0 = runtime.NumCPU().
	Workers int
	// DefaultOpts applies to every item without its own Opts.
	DefaultOpts Options
	// OnItem reports progress after each pair finishes. Calls are serialized.
	OnItem func(completed, total int)
}

// CompareBatch scores many file pairs concurrently and returns one result
// per item, in input order. A failing pair never stops the others.
// Once ctx is cancelled, pairs that have not started yet fail with ctx.Err().
func CompareBatch(ctx context.Context, items []BatchItem, batchOpts BatchOptions) []BatchResult {
	if len(items) == 0 {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	limit := batchOpts.Workers
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	var (
		g    errgroup.Group
		mu   sync.Mutex
		done int
	)
	g.SetLimit(min(limit, len(items)))

	results := make([]BatchResult, len(items))
	for i, item := range items {
		g.Go(func() error {
			results[i] = compareItem(ctx, i, item, batchOpts.DefaultOpts)
			if batchOpts.OnItem != nil {
				mu.Lock()
				done++
				batchOpts.OnItem(done, len(items))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func compareItem(ctx context.Context, i int, item BatchItem, def Options) BatchResult {
	r := BatchResult{Item: item, Index: i}
	if r.Err = ctx.Err(); r.Err != nil {
		return r
	}
	opts := def
	if item.Opts != nil {
		opts = *item.Opts
	}
	r.Result, r.Err = CompareFiles(ctx, item.Reference, item.Candidate, opts)
	return r
}

// BatchSummary aggregates the successful scores of a batch.
type BatchSummary struct {
	Total     int
	Succeeded int
	Failed    int
	// MeanSSIM and MinSSIM are taken over successful pairs. MinSSIM is NaN
	// when nothing succeeded.
	MeanSSIM float64
	MinSSIM  float64
	// Worst is the candidate with the lowest score.
	Worst string
}

// Summarize reduces batch results to totals and score extremes.
func Summarize(results []BatchResult) BatchSummary {
	ok := lo.Filter(results, func(r BatchResult, _ int) bool {
		return r.Err == nil && r.Result != nil
	})
	s := BatchSummary{
		Total:     len(results),
		Succeeded: len(ok),
		Failed:    len(results) - len(ok),
		MinSSIM:   math.NaN(),
	}
	if len(ok) == 0 {
		return s
	}

	worst := lo.MinBy(ok, func(a, b BatchResult) bool {
		return a.Result.Mean < b.Result.Mean
	})
	s.MinSSIM = worst.Result.Mean
	s.Worst = worst.Item.Candidate
	s.MeanSSIM = lo.SumBy(ok, func(r BatchResult) float64 { return r.Result.Mean }) / float64(len(ok))
	return s
}

func (s BatchSummary) String() string {
	if s.Succeeded == 0 {
		return fmt.Sprintf("Batch: 0/%d succeeded", s.Total)
	}
	return fmt.Sprintf("Batch: %d/%d succeeded | Mean SSIM: %.4f | Min SSIM: %.4f (%s)",
		s.Succeeded, s.Total, s.MeanSSIM, s.MinSSIM, s.Worst)
}
