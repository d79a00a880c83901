package storage

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicIDFromURL(t *testing.T) {
	tests := map[string]string{
		"/uploads/products/abc-123.png":                    "abc-123",
		"https://cdn.example.com/v1/products/photo.jpg?x=1": "photo",
		"https://cdn.example.com/plain":                     "plain",
		"":                                                  "",
	}
	for in, want := range tests {
		assert.Equal(t, want, PublicIDFromURL(in), in)
	}
}

func TestLocalStore_UploadAndDelete(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "/uploads/")
	require.NoError(t, err)

	image := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("fake-png"))
	url, err := store.Upload(ctx, image)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/products/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	id := PublicIDFromURL(url)
	stored, err := os.ReadFile(filepath.Join(dir, "products", id+".png"))
	require.NoError(t, err)
	assert.Equal(t, "fake-png", string(stored))

	require.NoError(t, store.Delete(ctx, id))
	assert.ErrorIs(t, store.Delete(ctx, id), ErrAssetNotFound)
}

func TestLocalStore_UploadRejectsUnsupportedPayloads(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "/uploads")
	require.NoError(t, err)

	_, err = store.Upload(context.Background(), "not-an-image")
	assert.ErrorIs(t, err, ErrUnsupportedImage)

	_, err = store.Upload(context.Background(), "data:text/plain;base64,aGVsbG8=")
	assert.ErrorIs(t, err, ErrUnsupportedImage)

	remote := "https://cdn.example.com/a.png"
	url, err := store.Upload(context.Background(), remote)
	require.NoError(t, err)
	assert.Equal(t, remote, url)
}

func TestLocalStore_DeleteRejectsTraversal(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "/uploads")
	require.NoError(t, err)

	assert.ErrorIs(t, store.Delete(context.Background(), "../secret"), ErrAssetNotFound)
	assert.ErrorIs(t, store.Delete(context.Background(), "*"), ErrAssetNotFound)
}

func TestLocalStore_Owns(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "/uploads/")
	require.NoError(t, err)

	tests := map[string]bool{
		"/uploads/products/abc-123.png":                  true,
		"https://cdn.example.com/a/abc-123.png":          false,
		"https://cdn.example.com/uploads/products/x.png": false,
		"/uploads/products/":                             false,
		"/uploads/products/nested/x.png":                 false,
		"/uploads/other/x.png":                           false,
		"":                                               false,
	}
	for in, want := range tests {
		assert.Equal(t, want, store.Owns(in), in)
	}
}
