package s3

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	smithy "github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/objectfs/objectfs/internal/store"
	"github.com/objectfs/objectfs/pkg/objerrors"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParseURL(t *testing.T) {
	t.Run("bucket and path", func(t *testing.T) {
		source, relPath, bucket, err := parseURL("s3://my-bucket/a/b.txt")
		require.NoError(t, err)
		assert.Equal(t, "s3://my-bucket", source)
		assert.Equal(t, "a/b.txt", relPath)
		assert.Equal(t, "my-bucket", bucket)
	})

	t.Run("bucket only, no trailing path", func(t *testing.T) {
		source, relPath, bucket, err := parseURL("s3://my-bucket")
		require.NoError(t, err)
		assert.Equal(t, "s3://my-bucket", source)
		assert.Equal(t, "", relPath)
		assert.Equal(t, "my-bucket", bucket)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		_, _, _, err := parseURL("gs://my-bucket/x")
		require.Error(t, err)
		assert.True(t, objerrors.Is(err, objerrors.UnsupportedScheme))
	})

	t.Run("missing bucket", func(t *testing.T) {
		_, _, _, err := parseURL("s3://")
		require.Error(t, err)
		assert.True(t, objerrors.Is(err, objerrors.UnsupportedScheme))
	})
}

func TestAdapter_ParseURL(t *testing.T) {
	a := &Adapter{}
	source, relPath, err := a.ParseURL("s3://bucket/key.txt")
	require.NoError(t, err)
	assert.Equal(t, "s3://bucket", source)
	assert.Equal(t, "key.txt", relPath)
}

func TestNormalizeVersion(t *testing.T) {
	null := "null"
	v1 := "v1"
	assert.Equal(t, "", normalizeVersion(nil))
	assert.Equal(t, "", normalizeVersion(&null))
	assert.Equal(t, "v1", normalizeVersion(&v1))
}

func TestAdapter_translateError(t *testing.T) {
	a := &Adapter{bucket: "b", logger: discardLogger()}

	t.Run("context canceled passes through unwrapped", func(t *testing.T) {
		err := a.translateError(context.Canceled, "read", "k")
		assert.True(t, errors.Is(err, context.Canceled))
	})

	t.Run("NoSuchKey maps to NotFoundObject", func(t *testing.T) {
		err := a.translateError(&s3types.NoSuchKey{}, "read", "k")
		assert.True(t, objerrors.Is(err, objerrors.NotFoundObject))
	})

	t.Run("NoSuchBucket maps to NotFoundObject", func(t *testing.T) {
		err := a.translateError(&s3types.NoSuchBucket{}, "list_pages", "")
		assert.True(t, objerrors.Is(err, objerrors.NotFoundObject))
	})

	t.Run("AccessDenied API error maps to AuthRejected", func(t *testing.T) {
		err := a.translateError(&smithy.GenericAPIError{Code: "AccessDenied"}, "read", "k")
		assert.True(t, objerrors.Is(err, objerrors.AuthRejected))
	})

	t.Run("unrecognized error maps to TransportFailure", func(t *testing.T) {
		err := a.translateError(errors.New("timeout"), "read", "k")
		assert.True(t, objerrors.Is(err, objerrors.TransportFailure))
	})
}

func TestAdapter_EntryToPointer(t *testing.T) {
	a := &Adapter{source: "s3://bucket"}
	now := time.Now()

	entry := store.Entry{
		Key: "a/b.txt",
		Raw: versionEntry{key: "a/b.txt", version: "v2", size: 42, lastModified: now},
	}

	ptr, err := a.EntryToPointer(context.Background(), entry)
	require.NoError(t, err)
	assert.Equal(t, "s3://bucket", ptr.Source)
	assert.Equal(t, "a/b.txt", ptr.Path)
	assert.Equal(t, "v2", ptr.Version)
	assert.Equal(t, int64(42), ptr.Size)
	assert.True(t, ptr.LastModified.Equal(now))
}

func TestAdapter_Close(t *testing.T) {
	a := &Adapter{}
	assert.NoError(t, a.Close())
}
