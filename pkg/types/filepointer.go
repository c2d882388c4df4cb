/*
Package types defines the core data structures shared across the object-store
adapters, the fetch pipeline, and the stream consumer surface.

A FilePointer is immutable metadata for a remote object: the bucket/container
it lives in, its key, size, version, and last-modified time. A File extends a
FilePointer with the object's downloaded bytes. The pipeline produces
FilePointers during listing and turns each into a File once its read task
completes; from that point the File belongs to the consumer and the pipeline
keeps no reference to it.
*/
package types

import (
	"path/filepath"
	"time"
)

// FilePointer is immutable metadata for a single (path, version) object in a
// remote bucket or container. It carries no bytes.
type FilePointer struct {
	// Source is the canonical URI of the containing bucket/container,
	// e.g. "s3://my-bucket", "gs://my-bucket", "az://my-container". It never
	// contains the listing prefix.
	Source string `json:"source"`

	// Path is the object key relative to the bucket/container root, with no
	// leading delimiter.
	Path string `json:"path"`

	// Size is the object's byte length as reported by the store.
	Size int64 `json:"size"`

	// Version is the store's opaque version identifier. Empty when the
	// store has no versioning, or when the store reported the sentinel
	// "null" version (S3's convention for an unversioned object).
	Version string `json:"version"`

	// LastModified is the object's last-modified timestamp. Stores that
	// omit this field report the Unix epoch rather than a zero time, so
	// callers never have to special-case an unset timestamp.
	LastModified time.Time `json:"last_modified"`
}

// File is a FilePointer plus the object's full body. Contents.length is
// usually equal to Size, but callers must not assume that equality: a store
// that lied about size in its listing will produce a File whose Contents
// disagrees with Size, and the pipeline makes no attempt to reconcile them.
type File struct {
	FilePointer
	Contents []byte `json:"-"`
}

// LocalPath joins the object's path onto root, giving consumers a
// conventional local mirror path for an ingest loop that wants to write the
// object's contents to disk under its remote key.
func (p FilePointer) LocalPath(root string) string {
	return filepath.Join(root, filepath.FromSlash(p.Path))
}
