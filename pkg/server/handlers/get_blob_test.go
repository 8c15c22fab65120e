package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dskvich/ai-gallery/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBlobGetter struct {
	blobs map[string]*domain.Blob
}

func (f *fakeBlobGetter) Get(_ context.Context, ref string) (*domain.Blob, error) {
	blob, ok := f.blobs[ref]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return blob, nil
}

func TestGetBlob(t *testing.T) {
	blobs := &fakeBlobGetter{blobs: map[string]*domain.Blob{
		"abc": {Ref: "abc", ContentType: "image/png", Data: []byte{1, 2, 3}},
	}}

	mux := http.NewServeMux()
	mux.Handle("GET /blobs/{ref}", GetBlob(blobs))

	req := httptest.NewRequest(http.MethodGet, "/blobs/abc", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, []byte{1, 2, 3}, rec.Body.Bytes())
}

func TestGetBlob_Deleted(t *testing.T) {
	mux := http.NewServeMux()
	mux.Handle("GET /blobs/{ref}", GetBlob(&fakeBlobGetter{blobs: map[string]*domain.Blob{}}))

	req := httptest.NewRequest(http.MethodGet, "/blobs/gone", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
