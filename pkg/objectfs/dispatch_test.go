package objectfs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/objectfs/objectfs/pkg/objerrors"
)

func TestIterFiles_UnsupportedScheme(t *testing.T) {
	_, err := IterFiles(context.Background(), "ftp://bucket/prefix", "", Config{})
	assert.True(t, objerrors.Is(err, objerrors.UnsupportedScheme))
}

func TestIterFiles_MissingScheme(t *testing.T) {
	_, err := IterFiles(context.Background(), "not-a-uri", "", Config{})
	assert.True(t, objerrors.Is(err, objerrors.UnsupportedScheme))
}

func TestIterFiles_InvalidGlob(t *testing.T) {
	_, err := IterFiles(context.Background(), "s3://bucket/prefix", "[", Config{})
	assert.Error(t, err)
}

func TestOpen_StripsWindowsLeadingSlash(t *testing.T) {
	// A leading slash (observed on Windows URI parsers per spec.md §4.5)
	// must be stripped before scheme matching, not treated as part of an
	// unrecognized scheme.
	_, _, err := open(context.Background(), "/gs://bucket", Config{Anon: true})
	if err != nil {
		assert.False(t, objerrors.Is(err, objerrors.UnsupportedScheme))
	}
}
