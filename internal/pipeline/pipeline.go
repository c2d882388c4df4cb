// Package pipeline implements the shared fetch engine driven by every store
// adapter: a listing stage that paginates the remote catalog, a
// page-processing stage that filters entries and spawns read tasks, and a
// bounded pool of read tasks that downloads object bodies. Two entry points
// are exposed: Prefix, which lists a prefix before reading, and Pointers,
// which reads a caller-supplied list of pointers directly.
//
// Both entry points return a *stream.Stream: a goroutine owns the adapter
// session and the pipeline's internal queues for the lifetime of the
// Stream, and is torn down — calling the adapter's Close exactly once —
// whether the pipeline runs to completion, fails, or the consumer abandons
// the Stream early.
package pipeline

import (
	"strings"

	"github.com/objectfs/objectfs/internal/metrics"
)

// Bounds normative per spec: memory stays bounded under arbitrarily large
// prefixes only if these defaults are honored.
const (
	// PageQueueDepth is how many listing pages may be buffered ahead of the
	// page processor.
	PageQueueDepth = 2

	// ReadConcurrency is how many read tasks may have their body running
	// concurrently.
	ReadConcurrency = 32

	// ResultQueueDepth is how many completed Files may be buffered waiting
	// for the consumer to pull them.
	ResultQueueDepth = 200

	// PointerBatchSize is how many pointer-mode read tasks are spawned
	// before the pipeline joins, bounding peak in-flight task cardinality
	// for very large pointer lists.
	PointerBatchSize = 5000
)

// Options bounds and instruments one Prefix or Pointers run. Any bound left
// at zero (or negative) falls back to its normative default, so the zero
// value runs with the same bounds as DefaultOptions.
type Options struct {
	ReadConcurrency  int
	PageQueueDepth   int
	ResultQueueDepth int
	PointerBatchSize int

	// Metrics, if non-nil, receives in-flight read counts, page queue
	// depth, and per-kind read error counts. A nil Metrics (the zero
	// value) is a safe no-op.
	Metrics *metrics.Collector
}

// DefaultOptions returns the spec-normative bounds with no metrics
// collector attached.
func DefaultOptions() Options {
	return Options{
		ReadConcurrency:  ReadConcurrency,
		PageQueueDepth:   PageQueueDepth,
		ResultQueueDepth: ResultQueueDepth,
		PointerBatchSize: PointerBatchSize,
	}
}

func (o Options) withDefaults() Options {
	if o.ReadConcurrency <= 0 {
		o.ReadConcurrency = ReadConcurrency
	}
	if o.PageQueueDepth <= 0 {
		o.PageQueueDepth = PageQueueDepth
	}
	if o.ResultQueueDepth <= 0 {
		o.ResultQueueDepth = ResultQueueDepth
	}
	if o.PointerBatchSize <= 0 {
		o.PointerBatchSize = PointerBatchSize
	}
	return o
}

// normalizePrefix strips a leading delimiter and appends a single trailing
// delimiter, unless prefix is empty (which lists the whole bucket).
func normalizePrefix(prefix string) string {
	prefix = strings.TrimPrefix(prefix, "/")
	if prefix == "" {
		return ""
	}
	return strings.TrimSuffix(prefix, "/") + "/"
}
