package pipeline

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/objectfs/objectfs/internal/store"
	"github.com/objectfs/objectfs/pkg/objectglob"
	"github.com/objectfs/objectfs/pkg/objerrors"
	"github.com/objectfs/objectfs/pkg/stream"
)

// Prefix lists prefix on adapter and reads every entry that passes matcher,
// returning a Stream of the resulting Files in read-completion order. The
// returned Stream owns adapter for its lifetime: adapter.Close is called
// exactly once, when the pipeline finishes or the Stream is closed early.
// Equivalent to PrefixWithOptions(ctx, adapter, prefix, matcher, DefaultOptions()).
func Prefix(ctx context.Context, adapter store.Adapter, prefix string, matcher *objectglob.Matcher) (*stream.Stream, error) {
	return PrefixWithOptions(ctx, adapter, prefix, matcher, DefaultOptions())
}

// PrefixWithOptions is Prefix with caller-supplied bounds and an optional
// metrics collector. Zero-valued fields in opts fall back to the
// spec-normative defaults.
func PrefixWithOptions(ctx context.Context, adapter store.Adapter, prefix string, matcher *objectglob.Matcher, opts Options) (*stream.Stream, error) {
	opts = opts.withDefaults()
	prefix = normalizePrefix(prefix)

	runCtx, cancel := context.WithCancel(ctx)
	pageCh := make(chan store.Page, opts.PageQueueDepth)
	resultCh := make(chan stream.Result, opts.ResultQueueDepth)

	go runPrefix(runCtx, adapter, prefix, matcher, pageCh, resultCh, opts)

	return stream.New(resultCh, cancel), nil
}

// runPrefix drives the listing/read pipeline to completion. abandonCtx is
// cancelled exactly once, by the consumer's Stream.Close (or the caller's
// own ctx) — it is never cancelled by an internal pipeline error, which
// matters because resultCh sends are gated on abandonCtx, not on the
// derived workCtx below: an internal error must still be able to deliver
// its result to a consumer that is still reading, while an abandoned
// consumer must never be waited on.
func runPrefix(
	abandonCtx context.Context,
	adapter store.Adapter,
	prefix string,
	matcher *objectglob.Matcher,
	pageCh chan store.Page,
	resultCh chan stream.Result,
	opts Options,
) {
	// workCtx governs in-flight listing/reads; it is cancelled either by
	// abandonCtx (cascading) or explicitly when a listing or processing
	// error aborts the run, so work stops promptly in every case.
	workCtx, cancelWork := context.WithCancel(abandonCtx)
	defer cancelWork()
	defer adapter.Close()
	defer close(resultCh)

	listErrCh := make(chan error, 1)
	go func() {
		defer close(pageCh)
		err := adapter.ListPages(workCtx, prefix, pageCh)
		if err != nil && !errors.Is(err, context.Canceled) {
			cancelWork()
		}
		listErrCh <- err
	}()

	readGroup, rctx := errgroup.WithContext(workCtx)
	readGroup.SetLimit(opts.ReadConcurrency)

	var found bool
	var procErr error

pageLoop:
	for {
		select {
		case page, open := <-pageCh:
			if !open {
				break pageLoop
			}
			opts.Metrics.SetPagesQueued(len(pageCh))
			if len(page.Entries) > 0 {
				found = true
			}
			for _, entry := range page.Entries {
				if !objectglob.ShouldRead(entry.Key, matcher) {
					continue
				}
				ptr, err := adapter.EntryToPointer(rctx, entry)
				if err != nil {
					procErr = err
					break pageLoop
				}
				readGroup.Go(func() error {
					return readOne(rctx, abandonCtx, adapter, ptr, resultCh, opts.Metrics)
				})
			}
		case <-workCtx.Done():
			procErr = workCtx.Err()
			break pageLoop
		}
	}

	if procErr != nil {
		cancelWork()
	}
	for range pageCh {
		// drain so the list producer's blocked send, if any, can complete
		// and it can observe cancellation and exit.
	}

	_ = readGroup.Wait() // per-read errors already delivered via resultCh

	listErr := <-listErrCh
	abandoned := abandonCtx.Err() != nil

	var result *stream.Result
	switch {
	case procErr != nil && !errors.Is(procErr, context.Canceled):
		result = &stream.Result{Err: procErr}
	case listErr != nil && !errors.Is(listErr, context.Canceled):
		result = &stream.Result{Err: listErr}
	case !found && !abandoned:
		result = &stream.Result{Err: objerrors.New(objerrors.NotFoundPrefix, "list_pages", prefix, "prefix returned no entries")}
	}
	if result != nil {
		select {
		case resultCh <- *result:
		case <-abandonCtx.Done():
		}
	}
}
