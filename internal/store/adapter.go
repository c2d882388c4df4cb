// Package store defines the contract shared by the S3, GCS, and Azure Blob
// adapters, and the small set of types the fetch pipeline exchanges with
// them: catalog pages, raw entries, and the adapter interface itself.
package store

import (
	"context"

	"github.com/objectfs/objectfs/pkg/types"
)

// Entry is one store-native listing record, carried from an adapter's
// ListPages into its EntryToPointer projection. Fields beyond Key are
// adapter-specific and stashed in Raw so each adapter can recover whatever
// it put there without the pipeline having to know its shape.
type Entry struct {
	Key string
	Raw any
}

// Page is one ordered batch of listing entries, as produced by a single
// catalog round-trip.
type Page struct {
	Entries []Entry
}

// Adapter is the per-protocol contract the fetch pipeline drives. Each
// concrete adapter (internal/store/s3, internal/store/gcs,
// internal/store/azure) owns exactly one store session, constructed once per
// Open call and released by Close.
type Adapter interface {
	// ParseURL splits "<scheme>://<bucket>/<path>" into the canonical
	// source ("<scheme>://<bucket>") and the path suffix.
	ParseURL(uri string) (source, relPath string, err error)

	// ListPages paginates the catalog under prefix, putting each page on
	// sink in store order. It returns once every page has been sent,
	// whether that is because listing finished, the context was canceled,
	// or listing failed; a non-nil error aborts the pipeline.
	ListPages(ctx context.Context, prefix string, sink chan<- Page) error

	// EntryToPointer projects one native listing entry into a FilePointer,
	// applying any store-specific version cleaning. Some backends need a
	// second round-trip here to fill in fields the listing page omitted;
	// callers must treat this as a blocking, possibly-network call.
	EntryToPointer(ctx context.Context, entry Entry) (types.FilePointer, error)

	// Read downloads the full body for a specific (path, version). Returns
	// an *objerrors.Error of kind NotFoundObject if the store reports the
	// object no longer exists.
	Read(ctx context.Context, path, version string) ([]byte, error)

	// Close releases the adapter's session and any HTTP client. Idempotent,
	// and safe to call after a partially consumed iteration.
	Close() error
}
