package pipeline

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/objectfs/objectfs/internal/store"
	"github.com/objectfs/objectfs/pkg/stream"
	"github.com/objectfs/objectfs/pkg/types"
)

// Pointers reads every pointer in list directly, skipping the listing
// stage entirely. Spawns are bucketed so that every PointerBatchSize tasks
// the pipeline joins before spawning the next bucket, bounding peak
// in-flight task cardinality for very large lists. Equivalent to
// PointersWithOptions(ctx, adapter, list, DefaultOptions()).
func Pointers(ctx context.Context, adapter store.Adapter, list []types.FilePointer) (*stream.Stream, error) {
	return PointersWithOptions(ctx, adapter, list, DefaultOptions())
}

// PointersWithOptions is Pointers with caller-supplied bounds and an
// optional metrics collector. Zero-valued fields in opts fall back to the
// spec-normative defaults.
func PointersWithOptions(ctx context.Context, adapter store.Adapter, list []types.FilePointer, opts Options) (*stream.Stream, error) {
	opts = opts.withDefaults()

	runCtx, cancel := context.WithCancel(ctx)
	resultCh := make(chan stream.Result, opts.ResultQueueDepth)

	go runPointers(runCtx, adapter, list, resultCh, opts)

	return stream.New(resultCh, cancel), nil
}

// runPointers reads list in PointerBatchSize-wide batches. ctx is the
// consumer-abandonment signal (Stream.Close); it is only ever cancelled by
// the consumer walking away, never by an internal error, so every resultCh
// send below is gated on ctx.Done() rather than a batch's own derived gctx
// — an error in one batch must still be able to reach a consumer that is
// still reading.
func runPointers(ctx context.Context, adapter store.Adapter, list []types.FilePointer, resultCh chan stream.Result, opts Options) {
	defer adapter.Close()
	defer close(resultCh)

	for start := 0; start < len(list); start += opts.PointerBatchSize {
		end := start + opts.PointerBatchSize
		if end > len(list) {
			end = len(list)
		}
		batch := list[start:end]

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(opts.ReadConcurrency)
		for _, ptr := range batch {
			ptr := ptr
			g.Go(func() error {
				return readOne(gctx, ctx, adapter, ptr, resultCh, opts.Metrics)
			})
		}
		if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
			select {
			case resultCh <- stream.Result{Err: err}:
			case <-ctx.Done():
			}
			return
		}

		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}
