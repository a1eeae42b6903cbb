package main

import (
	"bytes"
	"errors"
	"image"
	"mime/multipart"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/gamedex/catalog_backend/utils"
)

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestValidateUploadFile(t *testing.T) {
	maxBytes := int64(5 * 1024 * 1024)

	for _, name := range []string{"box.png", "box.jpg", "box.JPEG", "box.gif"} {
		fh := &multipart.FileHeader{Filename: name, Size: 1024}
		if err := validateUploadFile(fh, maxBytes); err != nil {
			t.Fatalf("%s: expected accepted, got %v", name, err)
		}
	}

	for _, name := range []string{"box.bmp", "box.svg", "box.pdf", "box"} {
		fh := &multipart.FileHeader{Filename: name, Size: 1024}
		if err := validateUploadFile(fh, maxBytes); !errors.Is(err, utils.ErrorUnsupportedMedia) {
			t.Fatalf("%s: expected unsupported media, got %v", name, err)
		}
	}

	fh := &multipart.FileHeader{Filename: "huge.png", Size: maxBytes + 1}
	if err := validateUploadFile(fh, maxBytes); !errors.Is(err, utils.ErrorPayloadTooLarge) {
		t.Fatalf("oversize: expected payload too large, got %v", err)
	}
}

func TestGenerateThumbnailPreservesAspect(t *testing.T) {
	data := pngBytes(t, 600, 400)

	thumbData, err := generateThumbnail(data, 300, imaging.PNG)
	if err != nil {
		t.Fatalf("generateThumbnail: %v", err)
	}

	thumb, err := imaging.Decode(bytes.NewReader(thumbData))
	if err != nil {
		t.Fatalf("decode thumbnail: %v", err)
	}
	bounds := thumb.Bounds()
	if bounds.Dx() != 300 || bounds.Dy() != 200 {
		t.Fatalf("expected 300x200 (3:2 preserved), got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestGenerateThumbnailKeepsSmallImages(t *testing.T) {
	data := pngBytes(t, 120, 80)

	thumbData, err := generateThumbnail(data, 300, imaging.PNG)
	if err != nil {
		t.Fatalf("generateThumbnail: %v", err)
	}
	thumb, err := imaging.Decode(bytes.NewReader(thumbData))
	if err != nil {
		t.Fatalf("decode thumbnail: %v", err)
	}
	bounds := thumb.Bounds()
	if bounds.Dx() != 120 || bounds.Dy() != 80 {
		t.Fatalf("small images must not be upscaled, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestGenerateThumbnailRejectsGarbage(t *testing.T) {
	if _, err := generateThumbnail([]byte("not an image"), 300, imaging.PNG); !errors.Is(err, utils.ErrorUnsupportedMedia) {
		t.Fatalf("expected unsupported media for undecodable bytes, got %v", err)
	}
}
