/*
Package objectfs is the entry point for consumers: it parses a
"<scheme>://<bucket>[/<prefix>]" URI, selects the S3, GCS, or Azure Blob
adapter by scheme, opens a session with forwarded configuration, and returns
a *stream.Stream of the resulting Files.

	s, err := objectfs.IterFiles(ctx, "s3://my-bucket/raw/", "*.jpg", objectfs.Config{
		RegionName: "us-west-2",
	})
	if err != nil {
		log.Fatal(err)
	}
	defer s.Close()

	for {
		f, ok, err := s.Next(ctx)
		if err != nil {
			log.Fatal(err)
		}
		if !ok {
			break
		}
		process(f)
	}

IterPointers skips listing entirely and reads a caller-supplied list of
FilePointers directly, useful when the caller already has an index (e.g.
from a prior listing, or a database) and only wants the read stage's
bounded concurrency.

This package does not expose a distinct "async" entry point: a *stream.Stream
is already a non-blocking-capable channel reader from the caller's
perspective (Next accepts a context and can be polled from any goroutine),
so a single IterFiles serves both the blocking- and async-iterator surfaces
spec.md §6 describes for the source language.
*/
package objectfs
