package storage

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestGenerateObjectPath(t *testing.T) {
	userID := uuid.New()

	p1 := GenerateObjectPath(userID, "diary", ".jpg")
	p2 := GenerateObjectPath(userID, "diary", ".jpg")

	if p1 == p2 {
		t.Error("Expected unique object paths")
	}
	if !strings.HasPrefix(p1, "users/"+userID.String()+"/diary/") {
		t.Errorf("Expected path under user namespace, got %s", p1)
	}
	if !strings.HasSuffix(p1, ".jpg") {
		t.Errorf("Expected .jpg suffix, got %s", p1)
	}
}

func TestExtFromContentType(t *testing.T) {
	cases := map[string]string{
		"image/jpeg":      ".jpg",
		"image/png":       ".png",
		"image/webp":      ".webp",
		"image/gif":       ".gif",
		"application/pdf": ".bin",
	}
	for contentType, want := range cases {
		if got := ExtFromContentType(contentType); got != want {
			t.Errorf("Expected %s for %s, got %s", want, contentType, got)
		}
	}
}
