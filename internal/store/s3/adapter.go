// Package s3 implements the store.Adapter contract against Amazon S3 (and
// S3-compatible stores) using aws-sdk-go-v2.
package s3

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	smithy "github.com/aws/smithy-go"

	"github.com/objectfs/objectfs/internal/store"
	"github.com/objectfs/objectfs/pkg/objerrors"
	"github.com/objectfs/objectfs/pkg/types"
)

// Config carries the S3 session options spec.md §6 names: an alternate
// endpoint for S3-compatible stores, static credentials, a region, and an
// Extra map of which only "force_path_style" is read; other keys are ignored.
type Config struct {
	Anon        bool
	EndpointURL string
	Key         string
	Secret      string
	Token       string
	Region      string
	Extra       map[string]string
}

// Adapter implements store.Adapter against one S3 bucket.
type Adapter struct {
	client *s3.Client
	bucket string
	source string
	logger *slog.Logger
}

// Open parses uri, builds a session for the bucket it names, and returns the
// bound Adapter along with the path suffix (the would-be prefix or object
// key) from the URI.
func Open(ctx context.Context, uri string, cfg Config) (*Adapter, string, error) {
	source, relPath, bucket, err := parseURL(uri)
	if err != nil {
		return nil, "", err
	}

	awsCfg, err := buildAWSConfig(ctx, cfg)
	if err != nil {
		return nil, "", err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
		}
		if cfg.Extra["force_path_style"] == "true" {
			o.UsePathStyle = true
		}
	})

	return &Adapter{
		client: client,
		bucket: bucket,
		source: source,
		logger: slog.Default().With("component", "s3-adapter", "bucket", bucket),
	}, relPath, nil
}

// buildAWSConfig applies spec.md §4.2's session forwarding table: an
// explicit Anon wins over everything, an explicit key/secret/token pair wins
// over the default credential chain, and a default-chain failure to discover
// any credentials falls back to anonymous rather than erroring. Signature
// version is always s3v4, which is the aws-sdk-go-v2 default and needs no
// explicit option.
func buildAWSConfig(ctx context.Context, cfg Config) (aws.Config, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}

	switch {
	case cfg.Anon:
		opts = append(opts, awsconfig.WithCredentialsProvider(aws.AnonymousCredentials{}))
	case cfg.Key != "" && cfg.Secret != "":
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.Key, cfg.Secret, cfg.Token),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, objerrors.Wrap(objerrors.TransportFailure, "load_config", "", err)
	}

	if !cfg.Anon && cfg.Key == "" {
		if _, credErr := awsCfg.Credentials.Retrieve(ctx); credErr != nil {
			awsCfg.Credentials = aws.AnonymousCredentials{}
		}
	}

	return awsCfg, nil
}

// parseURL splits "s3://bucket/path" into the canonical source, the path
// suffix, and the bare bucket name.
func parseURL(uri string) (source, relPath, bucket string, err error) {
	const scheme = "s3://"
	if !strings.HasPrefix(uri, scheme) {
		return "", "", "", objerrors.New(objerrors.UnsupportedScheme, "parse_url", uri, "not an s3:// URI")
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

// versionEntry is the native listing record stashed in store.Entry.Raw.
type versionEntry struct {
	key          string
	version      string
	size         int64
	lastModified time.Time
}

// ListPages implements store.Adapter using "list object versions" so every
// version of every key (plus delete markers) is yielded as a separate
// entry, per spec.md §4.2.
func (a *Adapter) ListPages(ctx context.Context, prefix string, sink chan<- store.Page) error {
	input := &s3.ListObjectVersionsInput{
		Bucket: aws.String(a.bucket),
	}
	if prefix != "" {
		input.Prefix = aws.String(prefix)
	}

	paginator := s3.NewListObjectVersionsPaginator(a.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return a.translateError(err, "list_pages", prefix)
		}

		entries := make([]store.Entry, 0, len(page.Versions)+len(page.DeleteMarkers))
		for _, v := range page.Versions {
			entries = append(entries, store.Entry{
				Key: aws.ToString(v.Key),
				Raw: versionEntry{
					key:          aws.ToString(v.Key),
					version:      normalizeVersion(v.VersionId),
					size:         aws.ToInt64(v.Size),
					lastModified: aws.ToTime(v.LastModified),
				},
			})
		}
		for _, d := range page.DeleteMarkers {
			entries = append(entries, store.Entry{
				Key: aws.ToString(d.Key),
				Raw: versionEntry{
					key:          aws.ToString(d.Key),
					version:      normalizeVersion(d.VersionId),
					lastModified: aws.ToTime(d.LastModified),
				},
			})
		}

		if len(entries) == 0 {
			continue
		}
		select {
		case sink <- store.Page{Entries: entries}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return nil
}

// normalizeVersion maps S3's literal "null" VersionId (returned for objects
// in an unversioned or suspended-versioning bucket) and an absent VersionId
// to the empty string, per spec.md §4.2.
func normalizeVersion(v *string) string {
	s := aws.ToString(v)
	if s == "null" {
		return ""
	}
	return s
}

// EntryToPointer implements store.Adapter. S3's listing page already
// carries every field a FilePointer needs, so this never round-trips.
func (a *Adapter) EntryToPointer(ctx context.Context, entry store.Entry) (types.FilePointer, error) {
	e := entry.Raw.(versionEntry)
	return types.FilePointer{
		Source:       a.source,
		Path:         e.key,
		Size:         e.size,
		Version:      e.version,
		LastModified: e.lastModified,
	}, nil
}

// Read implements store.Adapter.
func (a *Adapter) Read(ctx context.Context, path, version string) ([]byte, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(path),
	}
	if version != "" {
		input.VersionId = aws.String(version)
	}

	result, err := a.client.GetObject(ctx, input)
	if err != nil {
		return nil, a.translateError(err, "read", path)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, objerrors.Wrap(objerrors.TransportFailure, "read", path, err)
	}
	return data, nil
}

// Close implements store.Adapter. The SDK's HTTP client has no explicit
// teardown; Close is a no-op kept to satisfy the interface and give future
// connection-pooling a home.
func (a *Adapter) Close() error {
	return nil
}

func (a *Adapter) translateError(err error, op, path string) error {
	if errors.Is(err, context.Canceled) {
		return err
	}

	var nsk *s3types.NoSuchKey
	var nsb *s3types.NoSuchBucket
	switch {
	case errors.As(err, &nsk):
		return objerrors.Wrap(objerrors.NotFoundObject, op, path, err)
	case errors.As(err, &nsb):
		return objerrors.Wrap(objerrors.NotFoundObject, op, path, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return objerrors.Wrap(objerrors.NotFoundObject, op, path, err)
		case "AccessDenied":
			return objerrors.Wrap(objerrors.AuthRejected, op, path, err)
		}
	}

	a.logger.Warn("s3 request failed", "op", op, "path", path, "error", err)
	return objerrors.Wrap(objerrors.TransportFailure, op, path, err)
}
