// Package storage provides object storage for meal photos.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
)

// ImageRepository defines the interface for image storage operations
type ImageRepository interface {
	Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error)
	Delete(ctx context.Context, objectPath string) error
	GeneratePresignedURL(ctx context.Context, objectPath string, expiry time.Duration) (string, error)
}

// GenerateObjectPath creates a unique object path for an uploaded image,
// namespaced by user and category (e.g. "diary", "food").
func GenerateObjectPath(userID uuid.UUID, category string, ext string) string {
	filename := uuid.New().String() + ext
	return path.Join("users", userID.String(), category, filename)
}

// ExtFromContentType maps the image content types the API accepts to a file
// extension. Unknown types fall back to .bin so uploads never fail on naming.
func ExtFromContentType(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".bin"
	}
}

// ErrObjectNotFound is returned when an object path does not exist.
var ErrObjectNotFound = fmt.Errorf("storage: object not found")
