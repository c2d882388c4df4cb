package azure

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/objectfs/objectfs/pkg/objerrors"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParseURL(t *testing.T) {
	t.Run("container and path", func(t *testing.T) {
		source, relPath, container, err := parseURL("az://my-container/a/b.txt")
		require.NoError(t, err)
		assert.Equal(t, "az://my-container", source)
		assert.Equal(t, "a/b.txt", relPath)
		assert.Equal(t, "my-container", container)
	})

	t.Run("container only, no trailing path", func(t *testing.T) {
		source, relPath, container, err := parseURL("az://my-container")
		require.NoError(t, err)
		assert.Equal(t, "az://my-container", source)
		assert.Equal(t, "", relPath)
		assert.Equal(t, "my-container", container)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		_, _, _, err := parseURL("gs://my-container/x")
		require.Error(t, err)
		assert.True(t, objerrors.Is(err, objerrors.UnsupportedScheme))
	})

	t.Run("missing container", func(t *testing.T) {
		_, _, _, err := parseURL("az://")
		require.Error(t, err)
		assert.True(t, objerrors.Is(err, objerrors.UnsupportedScheme))
	})
}

func TestAdapter_ParseURL(t *testing.T) {
	a := &Adapter{}
	source, relPath, err := a.ParseURL("az://container/key.txt")
	require.NoError(t, err)
	assert.Equal(t, "az://container", source)
	assert.Equal(t, "key.txt", relPath)
}

func TestAdapter_translateError(t *testing.T) {
	a := &Adapter{logger: discardLogger()}

	t.Run("context canceled passes through unwrapped", func(t *testing.T) {
		err := a.translateError(context.Canceled, "read", "k")
		assert.True(t, errors.Is(err, context.Canceled))
	})

	t.Run("404 ResponseError maps to NotFoundObject", func(t *testing.T) {
		err := a.translateError(&azcore.ResponseError{StatusCode: 404, ErrorCode: "BlobNotFound"}, "read", "k")
		assert.True(t, objerrors.Is(err, objerrors.NotFoundObject))
	})

	t.Run("403 ResponseError maps to AuthRejected", func(t *testing.T) {
		err := a.translateError(&azcore.ResponseError{StatusCode: 403, ErrorCode: "AuthorizationFailure"}, "read", "k")
		assert.True(t, objerrors.Is(err, objerrors.AuthRejected))
	})

	t.Run("unrecognized error maps to TransportFailure", func(t *testing.T) {
		err := a.translateError(errors.New("boom"), "read", "k")
		assert.True(t, objerrors.Is(err, objerrors.TransportFailure))
	})
}

func TestAdapter_Close(t *testing.T) {
	a := &Adapter{}
	assert.NoError(t, a.Close())
}

func TestEpoch_IsUnixZero(t *testing.T) {
	assert.Equal(t, int64(0), epoch.Unix())
}
