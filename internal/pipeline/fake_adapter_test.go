package pipeline

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/objectfs/objectfs/internal/store"
	"github.com/objectfs/objectfs/pkg/objerrors"
	"github.com/objectfs/objectfs/pkg/types"
)

// fakeEntry is the native listing record produced by fakeAdapter.
type fakeEntry struct {
	key     string
	version string
	body    []byte
}

// fakeAdapter is an in-memory store.Adapter used to exercise the pipeline
// without any network I/O.
type fakeAdapter struct {
	source      string
	pages       [][]fakeEntry
	failReadKey string // path that fails on Read with a NotFoundObject error
	closeCount  int32
	readStarted int32 // count of reads that entered the read body
}

func (f *fakeAdapter) ParseURL(uri string) (string, string, error) {
	return f.source, "", nil
}

func (f *fakeAdapter) ListPages(ctx context.Context, prefix string, sink chan<- store.Page) error {
	for _, page := range f.pages {
		entries := make([]store.Entry, len(page))
		for i, e := range page {
			entries[i] = store.Entry{Key: e.key, Raw: e}
		}
		select {
		case sink <- store.Page{Entries: entries}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (f *fakeAdapter) EntryToPointer(ctx context.Context, entry store.Entry) (types.FilePointer, error) {
	e := entry.Raw.(fakeEntry)
	return types.FilePointer{
		Source:       f.source,
		Path:         e.key,
		Version:      e.version,
		Size:         int64(len(e.body)),
		LastModified: time.Unix(0, 0),
	}, nil
}

func (f *fakeAdapter) Read(ctx context.Context, path, version string) ([]byte, error) {
	atomic.AddInt32(&f.readStarted, 1)
	if path == f.failReadKey {
		return nil, objerrors.New(objerrors.NotFoundObject, "read", path, "object deleted between listing and read")
	}
	for _, page := range f.pages {
		for _, e := range page {
			if e.key == path && e.version == version {
				return e.body, nil
			}
		}
	}
	return nil, fmt.Errorf("fake adapter: no such object %s", path)
}

func (f *fakeAdapter) Close() error {
	atomic.AddInt32(&f.closeCount, 1)
	return nil
}

// pointerAdapter is a minimal store.Adapter for exercising Pointers mode; it
// never lists, it only reads.
type pointerAdapter struct {
	source     string
	bodies     map[string][]byte
	closeCount int32
	blockCh    chan struct{} // if non-nil, Read blocks until this is closed
}

func (p *pointerAdapter) ParseURL(uri string) (string, string, error) { return p.source, "", nil }
func (p *pointerAdapter) ListPages(ctx context.Context, prefix string, sink chan<- store.Page) error {
	return nil
}
func (p *pointerAdapter) EntryToPointer(ctx context.Context, entry store.Entry) (types.FilePointer, error) {
	return types.FilePointer{}, nil
}
func (p *pointerAdapter) Read(ctx context.Context, path, version string) ([]byte, error) {
	if p.blockCh != nil {
		select {
		case <-p.blockCh:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	body, ok := p.bodies[path]
	if !ok {
		return nil, fmt.Errorf("pointerAdapter: no such object %s", path)
	}
	return body, nil
}
func (p *pointerAdapter) Close() error {
	atomic.AddInt32(&p.closeCount, 1)
	return nil
}
