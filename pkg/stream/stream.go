// Package stream exposes the fetch pipeline's asynchronous result channel as
// a blocking, pull-based iterator. This is the Go-native replacement for a
// background-event-loop sync bridge: the pipeline's producer goroutines
// already communicate with the consumer's goroutine purely by way of a
// channel, so there is no separate bridge to drive.
package stream

import (
	"context"
	"sync"

	"github.com/objectfs/objectfs/pkg/types"
)

// Result is one item delivered by the pipeline: either a completed File, or
// the error that aborted the pipeline or a single read task.
type Result struct {
	File types.File
	Err  error
}

// Stream is a pull-based iterator over a pipeline's results. The zero value
// is not usable; construct one with New.
type Stream struct {
	results <-chan Result
	cancel  context.CancelFunc

	once sync.Once
}

// New wraps results and cancel into a Stream. cancel is called at most once,
// by Close, and should tear down whatever goroutines and queues are feeding
// results.
func New(results <-chan Result, cancel context.CancelFunc) *Stream {
	return &Stream{results: results, cancel: cancel}
}

// Next blocks until a File is available, the pipeline finishes, the
// pipeline fails, or ctx is done. ok is false once the pipeline has
// finished delivering results (whether successfully or via a terminal
// error already returned from a prior Next).
func (s *Stream) Next(ctx context.Context) (file types.File, ok bool, err error) {
	select {
	case r, open := <-s.results:
		if !open {
			return types.File{}, false, nil
		}
		if r.Err != nil {
			return types.File{}, false, r.Err
		}
		return r.File, true, nil
	case <-ctx.Done():
		return types.File{}, false, ctx.Err()
	}
}

// Close abandons the stream before exhaustion, cancelling the pipeline.
// Safe to call multiple times and safe to call after the stream has already
// been fully drained.
func (s *Stream) Close() {
	s.once.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
	})
}
