package pipeline

import (
	"context"
	"errors"

	"github.com/objectfs/objectfs/internal/metrics"
	"github.com/objectfs/objectfs/internal/store"
	"github.com/objectfs/objectfs/pkg/objerrors"
	"github.com/objectfs/objectfs/pkg/stream"
	"github.com/objectfs/objectfs/pkg/types"
)

// readOne downloads one object and emits the resulting File, or its error,
// onto resultCh. It always returns a nil error itself: a failed read is
// reported through resultCh, not through the errgroup it runs under,
// because one read's failure must never cancel its siblings. m may be nil.
//
// readCtx governs the read itself: it is cancelled both by consumer
// abandonment and by an internal pipeline error that aborts the whole run,
// so a read in flight stops promptly either way. sendCtx governs only the
// resultCh send and is cancelled solely by consumer abandonment (Stream
// Close); an internal pipeline error elsewhere must never suppress a result
// the consumer is still waiting to read, so the send does not key off
// readCtx. Without this split, a send racing a full, undrained resultCh
// after abandonment would block forever and the adapter would never close.
func readOne(readCtx, sendCtx context.Context, adapter store.Adapter, ptr types.FilePointer, resultCh chan<- stream.Result, m *metrics.Collector) error {
	select {
	case <-readCtx.Done():
		return nil
	default:
	}

	m.ReadStarted()
	data, err := adapter.Read(readCtx, ptr.Path, ptr.Version)
	m.ReadFinished()

	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		if kind, ok := objerrors.KindOf(err); ok {
			m.RecordReadError(string(kind))
		} else {
			m.RecordReadError("unknown")
		}
		select {
		case resultCh <- stream.Result{Err: err}:
		case <-sendCtx.Done():
		}
		return nil
	}

	select {
	case resultCh <- stream.Result{File: types.File{FilePointer: ptr, Contents: data}}:
	case <-sendCtx.Done():
	}
	return nil
}
