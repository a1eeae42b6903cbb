package main

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gamedex/catalog_backend/config"
	"github.com/gamedex/catalog_backend/models"
	"github.com/gamedex/catalog_backend/utils"
)

var allowedImageFormats = map[string]imaging.Format{
	".png":  imaging.PNG,
	".jpg":  imaging.JPEG,
	".jpeg": imaging.JPEG,
	".gif":  imaging.GIF,
}

var imageContentTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
}

// validateUploadFile enforces the media rules before any bytes are read:
// png/jpg/jpeg/gif only, capped at MaxUploadBytes.
func validateUploadFile(fh *multipart.FileHeader, maxBytes int64) error {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if _, ok := allowedImageFormats[ext]; !ok {
		return utils.ErrorUnsupportedMedia
	}
	if fh.Size > maxBytes {
		return utils.ErrorPayloadTooLarge
	}
	return nil
}

func readUploadFile(fh *multipart.FileHeader, maxBytes int64) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	// LimitReader catches clients that lie about Size.
	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxBytes {
		return nil, utils.ErrorPayloadTooLarge
	}
	return data, nil
}

// generateThumbnail downscales into a size x size bounding box preserving
// aspect ratio. Images already inside the box are kept as-is.
func generateThumbnail(originalData []byte, size int, format imaging.Format) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(originalData))
	if err != nil {
		return nil, utils.ErrorUnsupportedMedia
	}

	thumbnail := imaging.Fit(img, size, size, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumbnail, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// processEntityImage runs the whole attachment pipeline: validate, store the
// original and its thumbnail, then swap the entity's image row.
func processEntityImage(ctx context.Context, storage utils.ObjectStorage, settings *config.Settings,
	referenceType string, referenceId int, fh *multipart.FileHeader) (*models.Image, error) {

	if err := validateUploadFile(fh, settings.MaxUploadBytes); err != nil {
		return nil, err
	}

	data, err := readUploadFile(fh, settings.MaxUploadBytes)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	format := allowedImageFormats[ext]
	contentType := imageContentTypes[ext]

	thumbnailData, err := generateThumbnail(data, settings.ThumbnailSize, format)
	if err != nil {
		return nil, err
	}

	uniqueFilename := utils.GenerateUniqueFilename() + ext
	objectKey := filepath.ToSlash(filepath.Join("catalog", referenceType, uniqueFilename))
	thumbnailKey := filepath.ToSlash(filepath.Join("catalog", referenceType, "thumbnails", uniqueFilename))

	imageUrl, err := storage.Save(ctx, objectKey, contentType, data)
	if err != nil {
		return nil, err
	}
	thumbnailUrl, err := storage.Save(ctx, thumbnailKey, contentType, thumbnailData)
	if err != nil {
		// don't leave the original orphaned
		_ = storage.Delete(ctx, objectKey)
		return nil, err
	}

	return models.AttachImage(ctx, storage, referenceType, referenceId, models.StoredImage{
		ObjectKey:    objectKey,
		ThumbnailKey: thumbnailKey,
		ImageUrl:     imageUrl,
		ThumbnailUrl: thumbnailUrl,
	})
}
