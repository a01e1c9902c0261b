package hist

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// FillBatch is one partition's worth of coordinates, optionally weighted or
// sampled, for FillConcurrent.
type FillBatch struct {
	Coords [][]any
	Opts   [][]FillOption
}

// FillConcurrent fills len(partitions) independent histograms concurrently —
// one per partition, each owned by exactly one goroutine so no bin is ever
// written from two goroutines at once — then folds them together
// sequentially via Add, preserving the single-threaded cooperative core of
// spec.md §5. newHistogram must return histograms of identical shape.
func FillConcurrent(ctx context.Context, partitions []FillBatch, newHistogram func() *Histogram) (*Histogram, error) {
	partial := make([]*Histogram, len(partitions))

	g, _ := errgroup.WithContext(ctx)
	for i, p := range partitions {
		i, p := i, p
		g.Go(func() error {
			h := newHistogram()
			for j, coords := range p.Coords {
				var opts []FillOption
				if j < len(p.Opts) {
					opts = p.Opts[j]
				}
				if err := h.Fill(coords, opts...); err != nil {
					return err
				}
			}
			partial[i] = h
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := newHistogram()
	for _, h := range partial {
		if err := out.Add(h); err != nil {
			return nil, err
		}
		out.dropped += h.dropped
	}
	return out, nil
}
