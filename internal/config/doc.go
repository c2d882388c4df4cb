/*
Package config provides the on-disk defaults file for ObjectFS: logging
level, pipeline bound overrides, metrics exposure, and one BackendConfig per
supported scheme (S3, GCS, Azure Blob).

# Configuration Structure

	global:
	  log_level: INFO
	  log_file: ""

	performance:
	  read_concurrency: 32
	  page_queue_depth: 2
	  result_queue_depth: 200
	  pointer_batch_size: 5000

	monitoring:
	  metrics:
	    enabled: true
	    port: 8080

	s3:
	  anon: false
	  endpoint_url: ""
	  region: us-east-1
	  extra: {}

	gcs:
	  anon: false

	azure:
	  anon: false

The performance section is loaded, saved and validated (no negative
values), but nothing in this module applies it to a pipeline run:
pkg/objectfs always uses pipeline.DefaultOptions.

# Usage

	cfg := config.NewDefault()
	if err := cfg.LoadFromFile("/etc/objectfs/config.yaml"); err != nil {
		log.Fatal(err)
	}
	if err := cfg.LoadFromEnv(); err != nil {
		log.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

pkg/objectfs.Config.FromDefaults builds a per-call Config from one of this
file's BackendConfig sections, for callers constructing many Configs from a
single on-disk defaults file.

# Environment Variables

	OBJECTFS_LOG_LEVEL
	OBJECTFS_LOG_FILE
	OBJECTFS_READ_CONCURRENCY
	OBJECTFS_METRICS_ENABLED
	OBJECTFS_METRICS_PORT
*/
package config
