package service

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"image"
	"testing"

	"github.com/google/uuid"

	"github.com/caloria-app/caloria-backend/internal/testutil"
)

// 60x60 solid-color lossless WebP
const webpFixtureHex = "5249464618000000574542505650384c0c0000002f3bc00e002872f10ad5ff00"

func makeTestWebP(t *testing.T) []byte {
	t.Helper()
	data, err := hex.DecodeString(webpFixtureHex)
	if err != nil {
		t.Fatalf("Failed to decode webp fixture: %v", err)
	}
	return data
}

func TestValidateImage_TooLarge(t *testing.T) {
	svc := NewImageService(testutil.NewMockImageStore())

	data := make([]byte, MaxImageSize+1)
	err := svc.ValidateImage(data, "big.jpg")
	if !errors.Is(err, ErrImageTooLarge) {
		t.Errorf("Expected ErrImageTooLarge, got %v", err)
	}
}

func TestValidateImage_BadExtension(t *testing.T) {
	svc := NewImageService(testutil.NewMockImageStore())

	err := svc.ValidateImage(makeTestJPEG(t, 100, 100), "document.pdf")
	if !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("Expected ErrInvalidFormat, got %v", err)
	}
}

func TestValidateImage_TooSmall(t *testing.T) {
	svc := NewImageService(testutil.NewMockImageStore())

	err := svc.ValidateImage(makeTestJPEG(t, 10, 10), "tiny.jpg")
	if !errors.Is(err, ErrImageTooSmall) {
		t.Errorf("Expected ErrImageTooSmall, got %v", err)
	}
}

func TestValidateImage_Garbage(t *testing.T) {
	svc := NewImageService(testutil.NewMockImageStore())

	err := svc.ValidateImage([]byte("definitely not an image"), "fake.jpg")
	if !errors.Is(err, ErrInvalidImageData) {
		t.Errorf("Expected ErrInvalidImageData, got %v", err)
	}
}

func TestCompressAndUpload_DownscalesWideImages(t *testing.T) {
	store := testutil.NewMockImageStore()
	svc := NewImageService(store)

	path, err := svc.CompressAndUpload(context.Background(), uuid.New(), "diary", makeTestJPEG(t, 2400, 1200), "wide.jpg")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	stored, ok := store.Objects[path]
	if !ok {
		t.Fatal("Expected image in storage")
	}

	img, _, err := image.Decode(bytes.NewReader(stored))
	if err != nil {
		t.Fatalf("Expected stored image to decode, got %v", err)
	}
	if img.Bounds().Dx() != MaxUploadWidth {
		t.Errorf("Expected width %d after downscale, got %d", MaxUploadWidth, img.Bounds().Dx())
	}
}

func TestCompressAndUpload_KeepsSmallImages(t *testing.T) {
	store := testutil.NewMockImageStore()
	svc := NewImageService(store)

	path, err := svc.CompressAndUpload(context.Background(), uuid.New(), "food", makeTestJPEG(t, 400, 300), "small.jpg")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	img, _, err := image.Decode(bytes.NewReader(store.Objects[path]))
	if err != nil {
		t.Fatalf("Expected stored image to decode, got %v", err)
	}
	if img.Bounds().Dx() != 400 {
		t.Errorf("Expected width 400, got %d", img.Bounds().Dx())
	}
}

func TestValidateImage_WebP(t *testing.T) {
	svc := NewImageService(testutil.NewMockImageStore())

	if err := svc.ValidateImage(makeTestWebP(t), "food.webp"); err != nil {
		t.Errorf("Expected webp to validate, got %v", err)
	}
}

func TestCompressAndUpload_WebPStoredAsJPEG(t *testing.T) {
	store := testutil.NewMockImageStore()
	svc := NewImageService(store)

	path, err := svc.CompressAndUpload(context.Background(), uuid.New(), "food", makeTestWebP(t), "food.webp")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	img, format, err := image.Decode(bytes.NewReader(store.Objects[path]))
	if err != nil {
		t.Fatalf("Expected stored image to decode, got %v", err)
	}
	if format != "jpeg" {
		t.Errorf("Expected re-encoded jpeg, got %s", format)
	}
	if img.Bounds().Dx() != 60 {
		t.Errorf("Expected width 60, got %d", img.Bounds().Dx())
	}
}

func TestImageService_NotConfigured(t *testing.T) {
	svc := NewImageService(nil)

	_, err := svc.CompressAndUpload(context.Background(), uuid.New(), "diary", makeTestJPEG(t, 100, 100), "a.jpg")
	if !errors.Is(err, ErrImageStorageNotConfigured) {
		t.Errorf("Expected ErrImageStorageNotConfigured, got %v", err)
	}

	if err := svc.Delete(context.Background(), "some/path.jpg"); !errors.Is(err, ErrImageStorageNotConfigured) {
		t.Errorf("Expected ErrImageStorageNotConfigured, got %v", err)
	}

	// Empty path is a no-op even without storage
	if err := svc.Delete(context.Background(), ""); err != nil {
		t.Errorf("Expected nil for empty path, got %v", err)
	}
}

func TestGetContentType(t *testing.T) {
	if ct := GetContentType("photo.JPG"); ct != "image/jpeg" {
		t.Errorf("Expected image/jpeg, got %s", ct)
	}
	if ct := GetContentType("file.bin"); ct != "application/octet-stream" {
		t.Errorf("Expected fallback content type, got %s", ct)
	}
}
