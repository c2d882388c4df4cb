// Package objectfs is the dispatch facade: it parses a store URI, selects
// the adapter for its scheme, opens a session with forwarded configuration,
// and hands the pipeline's resulting Stream to the caller. This is the only
// package most consumers need to import.
package objectfs

import (
	"context"
	"strings"

	"github.com/objectfs/objectfs/internal/metrics"
	"github.com/objectfs/objectfs/internal/pipeline"
	"github.com/objectfs/objectfs/internal/store"
	"github.com/objectfs/objectfs/internal/store/azure"
	"github.com/objectfs/objectfs/internal/store/gcs"
	"github.com/objectfs/objectfs/internal/store/s3"
	"github.com/objectfs/objectfs/pkg/objectglob"
	"github.com/objectfs/objectfs/pkg/objerrors"
	"github.com/objectfs/objectfs/pkg/stream"
	"github.com/objectfs/objectfs/pkg/types"
)

// Metrics, if non-nil, is attached to every pipeline Stream this package
// opens, so a process that wants Prometheus instrumentation can construct
// one collector and share it across every IterFiles/IterPointers call.
// A nil Metrics (the default) is a safe no-op per internal/metrics.
var Metrics *metrics.Collector

// IterFiles parses uri, opens the adapter for its scheme with cfg, and
// returns a Stream over every object under the URI's path that passes glob
// (an empty glob matches everything). The returned Stream owns the adapter
// session: closing the Stream, draining it to exhaustion, or it failing all
// release the session via the adapter's Close exactly once.
func IterFiles(ctx context.Context, uri string, glob string, cfg Config) (*stream.Stream, error) {
	matcher, err := objectglob.Compile(glob)
	if err != nil {
		return nil, err
	}

	adapter, relPath, err := open(ctx, uri, cfg)
	if err != nil {
		return nil, err
	}

	opts := pipeline.DefaultOptions()
	opts.Metrics = Metrics
	return pipeline.PrefixWithOptions(ctx, adapter, relPath, matcher, opts)
}

// IterPointers opens the adapter named by source (a bare "<scheme>://<bucket>"
// URI, as found on FilePointer.Source) and returns a Stream that reads every
// pointer in list directly, skipping the listing stage. Every pointer in
// list must share the same Source; IterPointers does not partition by
// bucket.
func IterPointers(ctx context.Context, source string, list []types.FilePointer, cfg Config) (*stream.Stream, error) {
	adapter, _, err := open(ctx, source, cfg)
	if err != nil {
		return nil, err
	}

	opts := pipeline.DefaultOptions()
	opts.Metrics = Metrics
	return pipeline.PointersWithOptions(ctx, adapter, list, opts)
}

// open selects and constructs the adapter for uri's scheme. On systems
// where a URI parser has prefixed an extra leading slash (observed on
// Windows per spec.md §4.5), it is stripped before scheme matching.
func open(ctx context.Context, uri string, cfg Config) (store.Adapter, string, error) {
	uri = strings.TrimPrefix(uri, "/")

	scheme, _, ok := strings.Cut(uri, "://")
	if !ok {
		return nil, "", objerrors.New(objerrors.UnsupportedScheme, "open", uri, "missing scheme")
	}

	switch scheme {
	case "s3":
		adapter, relPath, err := s3.Open(ctx, uri, s3.Config{
			Anon:        cfg.Anon,
			EndpointURL: cfg.AWSEndpointURL,
			Key:         cfg.AWSKey,
			Secret:      cfg.AWSSecret,
			Token:       cfg.AWSToken,
			Region:      cfg.RegionName,
			Extra:       cfg.Extra,
		})
		if err != nil {
			return nil, "", err
		}
		return adapter, relPath, nil
	case "gs":
		adapter, relPath, err := gcs.Open(ctx, uri, gcs.Config{
			Anon:  cfg.Anon,
			Extra: cfg.Extra,
		})
		if err != nil {
			return nil, "", err
		}
		return adapter, relPath, nil
	case "az":
		adapter, relPath, err := azure.Open(ctx, uri, azure.Config{
			Anon:        cfg.Anon,
			AccountName: cfg.AzureAccountName,
			AccountKey:  cfg.AzureAccountKey,
			Extra:       cfg.Extra,
		})
		if err != nil {
			return nil, "", err
		}
		return adapter, relPath, nil
	default:
		return nil, "", objerrors.New(objerrors.UnsupportedScheme, "open", uri, "unsupported scheme: "+scheme)
	}
}
