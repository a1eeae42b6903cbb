package models

import (
	"context"
	"fmt"

	"github.com/gamedex/catalog_backend/config"
	"github.com/gamedex/catalog_backend/utils"
	"gorm.io/gorm"
)

// Image is the single attachment of a catalog entity. An entity has at
// most one image; attaching again replaces the previous one.
type Image struct {
	ID            int    `gorm:"primary_key" json:"id"`
	ImageUrl      string `gorm:"not null" json:"image_url"`
	ThumbnailUrl  string `gorm:"not null" json:"thumbnail_url"`
	ObjectKey     string `gorm:"size:255;not null" json:"-"`
	ThumbnailKey  string `gorm:"size:255;not null" json:"-"`
	ReferenceType string `gorm:"size:20;not null;index:idx_image_ref" json:"reference_type"`
	ReferenceID   int    `gorm:"not null;index:idx_image_ref" json:"reference_id"`
}

// StoredImage carries the object keys and public URLs of an upload that
// already landed in object storage.
type StoredImage struct {
	ObjectKey    string
	ThumbnailKey string
	ImageUrl     string
	ThumbnailUrl string
}

func validateImageReference(ctx context.Context, referenceType string, referenceId int) error {
	switch referenceType {
	case EntityTypeGame:
		return utils.ValidateActiveResourceId[Game](ctx, referenceType, referenceId)
	case EntityTypeConsole:
		return utils.ValidateActiveResourceId[Console](ctx, referenceType, referenceId)
	case EntityTypeAccessory:
		return utils.ValidateActiveResourceId[Accessory](ctx, referenceType, referenceId)
	}
	return utils.NewValidationError("kind", "is unknown")
}

// AttachImage stores the image row for an entity, replacing any previous
// attachment. The replaced objects are removed from storage after commit;
// that cleanup is best-effort and never fails the request.
func AttachImage(ctx context.Context, storage utils.ObjectStorage, referenceType string, referenceId int, stored StoredImage) (*Image, error) {

	if err := validateImageReference(ctx, referenceType, referenceId); err != nil {
		return nil, err
	}

	image := Image{
		ImageUrl:      stored.ImageUrl,
		ThumbnailUrl:  stored.ThumbnailUrl,
		ObjectKey:     stored.ObjectKey,
		ThumbnailKey:  stored.ThumbnailKey,
		ReferenceType: referenceType,
		ReferenceID:   referenceId,
	}

	var replaced *Image
	db := config.GetDB()
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		var existing Image
		result := tx.Where("reference_type = ? AND reference_id = ?", referenceType, referenceId).
			Limit(1).Find(&existing)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			replaced = &existing
			if err := tx.Delete(&Image{}, existing.ID).Error; err != nil {
				return err
			}
		}

		if err := tx.Create(&image).Error; err != nil {
			return err
		}

		var beforeObj interface{}
		if replaced != nil {
			beforeObj = replaced
		}
		description := fmt.Sprintf("Image attached to %s %d.", referenceType, referenceId)
		if err := createHistory(tx, ActionUpdate, referenceId, referenceType, beforeObj, image, description); err != nil {
			return err
		}
		return publishCatalogEvent(tx, referenceId, referenceType, ActionUpdate, beforeObj, image)
	})
	if err != nil {
		return nil, err
	}

	if replaced != nil {
		replaced.removeObjects(ctx, storage)
	}
	invalidateEntityCache(referenceType, referenceId)

	return &image, nil
}

// RemoveImage detaches an entity's image. Returns false without error when
// the entity has no image.
func RemoveImage(ctx context.Context, storage utils.ObjectStorage, referenceType string, referenceId int) (bool, error) {

	if !IsKnownEntityType(referenceType) {
		return false, utils.NewValidationError("kind", "is unknown")
	}

	db := config.GetDB()

	var existing Image
	result := db.WithContext(ctx).
		Where("reference_type = ? AND reference_id = ?", referenceType, referenceId).
		Limit(1).Find(&existing)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, nil
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&Image{}, existing.ID).Error; err != nil {
			return err
		}
		description := fmt.Sprintf("Image removed from %s %d.", referenceType, referenceId)
		if err := createHistory(tx, ActionUpdate, referenceId, referenceType, existing, nil, description); err != nil {
			return err
		}
		return publishCatalogEvent(tx, referenceId, referenceType, ActionUpdate, existing, nil)
	})
	if err != nil {
		return false, err
	}

	existing.removeObjects(ctx, storage)
	invalidateEntityCache(referenceType, referenceId)

	return true, nil
}

// deleteImagesFor removes image rows on the caller's transaction. Used by
// purge; object cleanup stays with the caller.
func deleteImagesFor(tx *gorm.DB, referenceType string, referenceId int) error {
	return tx.Where("reference_type = ? AND reference_id = ?", referenceType, referenceId).
		Delete(&Image{}).Error
}

func (img *Image) removeObjects(ctx context.Context, storage utils.ObjectStorage) {
	if storage == nil {
		return
	}
	if err := storage.Delete(ctx, img.ObjectKey); err != nil {
		config.LogError(config.GetLogger(), "models", "removeObjects", "delete object", img.ObjectKey, err)
	}
	if err := storage.Delete(ctx, img.ThumbnailKey); err != nil {
		config.LogError(config.GetLogger(), "models", "removeObjects", "delete thumbnail", img.ThumbnailKey, err)
	}
}

func invalidateEntityCache(referenceType string, referenceId int) {
	var err error
	switch referenceType {
	case EntityTypeGame:
		err = utils.RemoveRedis[Game](referenceId)
	case EntityTypeConsole:
		err = utils.RemoveRedis[Console](referenceId)
	case EntityTypeAccessory:
		err = utils.RemoveRedis[Accessory](referenceId)
	}
	if err != nil {
		config.LogError(config.GetLogger(), "models", "invalidateEntityCache", referenceType, referenceId, err)
	}
}
