package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsoumyadip/tb-update-handles/internal/models"
)

func TestBlobSource_ListHandles(t *testing.T) {
	blob := &fakeBlob{content: []byte("alice\n bob \n")}
	src := NewBlobSource(blob, "bucket", "twitter_handles.txt", discard)

	handles, err := src.ListHandles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.Handle{"alice", "bob"}, handles)
	assert.Equal(t, 1, blob.reads)
}

func TestBlobSource_Unavailable(t *testing.T) {
	cause := errors.New("object does not exist")
	src := NewBlobSource(&fakeBlob{err: cause}, "bucket", "missing.txt", discard)

	_, err := src.ListHandles(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSourceUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "bucket/missing.txt")
	assert.Equal(t, "source_unavailable", Kind(err))
}
