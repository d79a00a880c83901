// Package storage holds product images. The local implementation writes to a
// directory that the router serves under assets.base_url.
package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrUnsupportedImage = errors.New("unsupported image payload")
	ErrImageTooLarge    = errors.New("image exceeds the size limit")
	ErrAssetNotFound    = errors.New("asset not found")
)

// MaxImageSize bounds a decoded upload.
const MaxImageSize = 10 << 20

const productsFolder = "products"

// AssetStore uploads product images and removes them by public id.
type AssetStore interface {
	Upload(ctx context.Context, image string) (string, error)
	Delete(ctx context.Context, publicID string) error
	// Owns reports whether imageURL was produced by this store's Upload.
	// Images hosted elsewhere must never be passed to Delete.
	Owns(imageURL string) bool
}

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// PublicIDFromURL derives the asset id from the last path segment of an image
// URL, without its extension: ".../products/ab12.png" -> "ab12".
func PublicIDFromURL(imageURL string) string {
	if i := strings.IndexAny(imageURL, "?#"); i >= 0 {
		imageURL = imageURL[:i]
	}
	base := path.Base(imageURL)
	if base == "." || base == "/" {
		return ""
	}
	return strings.TrimSuffix(base, path.Ext(base))
}

// LocalStore keeps images under Dir/products and builds URLs from BaseURL.
type LocalStore struct {
	Dir     string
	BaseURL string
}

func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(filepath.Join(dir, productsFolder), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create asset directory: %w", err)
	}
	return &LocalStore{Dir: dir, BaseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

// Upload accepts a base64 data URI ("data:image/png;base64,...") and returns
// the public URL of the stored file. Plain http(s) URLs are already hosted and
// are returned unchanged.
func (s *LocalStore) Upload(_ context.Context, image string) (string, error) {
	if strings.HasPrefix(image, "http://") || strings.HasPrefix(image, "https://") {
		return image, nil
	}

	mimeType, data, err := decodeDataURI(image)
	if err != nil {
		return "", err
	}
	ext, ok := imageExtensions[mimeType]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedImage, mimeType)
	}

	name := uuid.NewString() + ext
	dest := filepath.Join(s.Dir, productsFolder, name)
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to save image: %w", err)
	}

	return s.BaseURL + "/" + productsFolder + "/" + name, nil
}

// Owns accepts only URLs of the form BaseURL/products/<name>.
func (s *LocalStore) Owns(imageURL string) bool {
	name, ok := strings.CutPrefix(imageURL, s.BaseURL+"/"+productsFolder+"/")
	return ok && name != "" && !strings.ContainsAny(name, `/\?#`)
}

// Delete removes the stored file whose name (minus extension) is publicID.
func (s *LocalStore) Delete(_ context.Context, publicID string) error {
	if publicID == "" || publicID == "." || publicID == ".." || strings.ContainsAny(publicID, `/\*?[`) {
		return fmt.Errorf("%w: %q", ErrAssetNotFound, publicID)
	}

	matches, err := filepath.Glob(filepath.Join(s.Dir, productsFolder, publicID+".*"))
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		return fmt.Errorf("%w: %q", ErrAssetNotFound, publicID)
	}
	for _, m := range matches {
		if err := os.Remove(m); err != nil {
			return fmt.Errorf("failed to remove image: %w", err)
		}
	}
	return nil
}

func decodeDataURI(s string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return "", nil, ErrUnsupportedImage
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, ErrUnsupportedImage
	}
	mimeType, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return "", nil, ErrUnsupportedImage
	}
	if base64.StdEncoding.DecodedLen(len(payload)) > MaxImageSize {
		return "", nil, ErrImageTooLarge
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	return mimeType, data, nil
}
