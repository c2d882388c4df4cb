/*
Package metrics provides Prometheus instrumentation for the fetch pipeline.

It tracks exactly the signals the pipeline needs to reason about
back-pressure and failure rate in production:

  - objectfs_pipeline_reads_inflight: a gauge of reads currently running
    against the read-concurrency semaphore.
  - objectfs_pipeline_pages_queued: a gauge of listing pages buffered ahead
    of the page processor.
  - objectfs_store_read_errors_total: a counter of failed reads, labeled by
    objerrors.Kind.

Usage:

	collector, err := metrics.NewCollector(&metrics.Config{
		Enabled: true,
		Port:    8080,
	})
	if err != nil {
		log.Fatal(err)
	}
	if err := collector.Start(ctx); err != nil {
		log.Fatal(err)
	}
	defer collector.Stop(context.Background())

A Collector built with Enabled: false (or a nil *Collector) is a safe
no-op: every Record/Set method checks first, so callers never need a nil
check of their own.
*/
package metrics
