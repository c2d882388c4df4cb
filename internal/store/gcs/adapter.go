// Package gcs implements the store.Adapter contract against Google Cloud
// Storage using cloud.google.com/go/storage.
package gcs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/objectfs/objectfs/internal/store"
	"github.com/objectfs/objectfs/pkg/objerrors"
	"github.com/objectfs/objectfs/pkg/types"
)

// Config carries the GCS session options (GCS has no scheme-specific options
// of its own, unlike S3 and Azure): forced anonymous access plus an Extra
// map, which Open does not read.
type Config struct {
	Anon  bool
	Extra map[string]string
}

// Adapter implements store.Adapter against one GCS bucket.
type Adapter struct {
	client *storage.Client
	bucket *storage.BucketHandle
	source string
	logger *slog.Logger
}

// Open parses uri, builds a session for the bucket it names, and returns the
// bound Adapter along with the path suffix from the URI.
func Open(ctx context.Context, uri string, cfg Config) (*Adapter, string, error) {
	source, relPath, bucketName, err := parseURL(uri)
	if err != nil {
		return nil, "", err
	}

	var opts []option.ClientOption
	if cfg.Anon {
		opts = append(opts, option.WithoutAuthentication())
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		if cfg.Anon {
			return nil, "", objerrors.Wrap(objerrors.TransportFailure, "open", uri, err)
		}
		// No credentials discoverable through Application Default
		// Credentials: fall back to anonymous, matching the S3 adapter's
		// session-setup fallback.
		client, err = storage.NewClient(ctx, option.WithoutAuthentication())
		if err != nil {
			return nil, "", objerrors.Wrap(objerrors.AuthMissing, "open", uri, err)
		}
	}

	return &Adapter{
		client: client,
		bucket: client.Bucket(bucketName),
		source: source,
		logger: slog.Default().With("component", "gcs-adapter", "bucket", bucketName),
	}, relPath, nil
}

// parseURL splits "gs://bucket/path" into the canonical source, the path
// suffix, and the bare bucket name.
func parseURL(uri string) (source, relPath, bucket string, err error) {
	const scheme = "gs://"
	if !strings.HasPrefix(uri, scheme) {
		return "", "", "", objerrors.New(objerrors.UnsupportedScheme, "parse_url", uri, "not a gs:// URI")
	}
	rest := strings.TrimPrefix(uri, scheme)
	bucket, relPath, _ = strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", "", objerrors.New(objerrors.UnsupportedScheme, "parse_url", uri, "missing bucket name")
	}
	return scheme + bucket, relPath, bucket, nil
}

// ParseURL implements store.Adapter.
func (a *Adapter) ParseURL(uri string) (string, string, error) {
	source, relPath, _, err := parseURL(uri)
	return source, relPath, err
}

// objectEntry is the native listing record stashed in store.Entry.Raw.
type objectEntry struct {
	attrs *storage.ObjectAttrs
}

// ListPages implements store.Adapter. The bucket iterator is queried with
// Versions: true so every generation of every object is yielded as a
// separate entry, mirroring the S3 adapter's "list object versions" mode.
// GCS's iterator does not page in discrete batches the way S3's paginator
// does, so entries are grouped into pages of up to 1000 to keep the page
// queue's back-pressure meaningful.
func (a *Adapter) ListPages(ctx context.Context, prefix string, sink chan<- store.Page) error {
	const pageSize = 1000

	it := a.bucket.Objects(ctx, &storage.Query{Prefix: prefix, Versions: true})

	var entries []store.Entry
	flush := func() error {
		if len(entries) == 0 {
			return nil
		}
		select {
		case sink <- store.Page{Entries: entries}:
		case <-ctx.Done():
			return ctx.Err()
		}
		entries = nil
		return nil
	}

	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return a.translateError(err, "list_pages", prefix)
		}

		entries = append(entries, store.Entry{Key: attrs.Name, Raw: objectEntry{attrs: attrs}})
		if len(entries) >= pageSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}

	return flush()
}

// EntryToPointer implements store.Adapter. GCS's iterator already returns
// full ObjectAttrs, so this never round-trips.
func (a *Adapter) EntryToPointer(ctx context.Context, entry store.Entry) (types.FilePointer, error) {
	e := entry.Raw.(objectEntry)
	return types.FilePointer{
		Source:       a.source,
		Path:         e.attrs.Name,
		Size:         e.attrs.Size,
		Version:      strconv.FormatInt(e.attrs.Generation, 10),
		LastModified: e.attrs.Updated,
	}, nil
}

// Read implements store.Adapter. version, if non-empty, is parsed back into
// a GCS object generation.
func (a *Adapter) Read(ctx context.Context, path, version string) ([]byte, error) {
	obj := a.bucket.Object(path)
	if version != "" {
		generation, err := strconv.ParseInt(version, 10, 64)
		if err != nil {
			return nil, objerrors.New(objerrors.NotFoundObject, "read", path, "invalid generation: "+version)
		}
		obj = obj.Generation(generation)
	}

	reader, err := obj.NewReader(ctx)
	if err != nil {
		return nil, a.translateError(err, "read", path)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, objerrors.Wrap(objerrors.TransportFailure, "read", path, err)
	}
	return data, nil
}

// Close implements store.Adapter, releasing the underlying gRPC/HTTP client.
func (a *Adapter) Close() error {
	if a.client == nil {
		return nil
	}
	return a.client.Close()
}

func (a *Adapter) translateError(err error, op, path string) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
		return objerrors.Wrap(objerrors.NotFoundObject, op, path, err)
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case 404:
			return objerrors.Wrap(objerrors.NotFoundObject, op, path, err)
		case 401:
			return objerrors.Wrap(objerrors.AuthMissing, op, path, err)
		case 403:
			return objerrors.Wrap(objerrors.AuthRejected, op, path, err)
		}
	}

	a.logger.Warn("gcs request failed", "op", op, "path", path, "error", err)
	return objerrors.Wrap(objerrors.TransportFailure, op, path, err)
}
