package models

import (
	"context"

	"github.com/gamedex/catalog_backend/config"
	"github.com/gamedex/catalog_backend/utils"
	"gorm.io/gorm"
)

// Purge physically removes a row along with its compatibility links and
// image rows. The audit trail is append-only, so a row with history
// records cannot be purged; purge exists for rows bulk-imported without
// one. The entity must already be soft-deleted.

func PurgeGame(ctx context.Context, id int) error {
	game, err := utils.FetchModel[Game](ctx, id)
	if err != nil {
		return err
	}
	if *game.IsActive {
		return utils.ErrorConflict
	}
	return purgeEntity(ctx, EntityTypeGame, id, func(tx *gorm.DB) error {
		return tx.Delete(&Game{}, id).Error
	})
}

func PurgeConsole(ctx context.Context, id int) error {
	console, err := utils.FetchModel[Console](ctx, id)
	if err != nil {
		return err
	}
	if *console.IsActive {
		return utils.ErrorConflict
	}
	return purgeEntity(ctx, EntityTypeConsole, id, func(tx *gorm.DB) error {
		return tx.Delete(&Console{}, id).Error
	})
}

func PurgeAccessory(ctx context.Context, id int) error {
	accessory, err := utils.FetchModel[Accessory](ctx, id)
	if err != nil {
		return err
	}
	if *accessory.IsActive {
		return utils.ErrorConflict
	}
	return purgeEntity(ctx, EntityTypeAccessory, id, func(tx *gorm.DB) error {
		return tx.Delete(&Accessory{}, id).Error
	})
}

func purgeEntity(ctx context.Context, referenceType string, id int, deleteRow func(tx *gorm.DB) error) error {

	count, err := historyCountFor(ctx, referenceType, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return utils.ErrorConflict
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := unlinkAllFor(tx, referenceType, id); err != nil {
			return err
		}
		if err := deleteImagesFor(tx, referenceType, id); err != nil {
			return err
		}
		return deleteRow(tx)
	})
	if err != nil {
		return err
	}

	invalidateEntityCache(referenceType, id)
	return nil
}
