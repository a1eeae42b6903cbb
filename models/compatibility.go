package models

import (
	"context"
	"fmt"
	"time"

	"github.com/gamedex/catalog_backend/config"
	"github.com/gamedex/catalog_backend/utils"
	"gorm.io/gorm"
)

// CompatibilityLink records that a game runs on a console, optionally only
// when a particular accessory is present. AccessoryId 0 means the link is
// unscoped; using 0 instead of NULL keeps the tuple unique index effective.
type CompatibilityLink struct {
	ID          int       `gorm:"primary_key" json:"id"`
	GameId      int       `gorm:"not null;uniqueIndex:idx_compat_tuple" json:"game_id"`
	ConsoleId   int       `gorm:"not null;uniqueIndex:idx_compat_tuple" json:"console_id"`
	AccessoryId int       `gorm:"not null;default:0;uniqueIndex:idx_compat_tuple" json:"accessory_id"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// AccessoryConsole records that an accessory works with a console.
type AccessoryConsole struct {
	ID          int       `gorm:"primary_key" json:"id"`
	AccessoryId int       `gorm:"not null;uniqueIndex:idx_accessory_console" json:"accessory_id"`
	ConsoleId   int       `gorm:"not null;uniqueIndex:idx_accessory_console" json:"console_id"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type NewGameConsoleLink struct {
	GameId      int  `json:"game_id" binding:"required"`
	ConsoleId   int  `json:"console_id" binding:"required"`
	AccessoryId *int `json:"accessory_id,omitempty"`
}

type NewAccessoryConsoleLink struct {
	AccessoryId int `json:"accessory_id" binding:"required"`
	ConsoleId   int `json:"console_id" binding:"required"`
}

// LinkGameConsole creates a game-console compatibility link. Both ends must
// exist and be active; a duplicate tuple is rejected.
func LinkGameConsole(ctx context.Context, input *NewGameConsoleLink) (*CompatibilityLink, error) {

	if err := utils.ValidateActiveResourceId[Game](ctx, EntityTypeGame, input.GameId); err != nil {
		return nil, err
	}
	if err := utils.ValidateActiveResourceId[Console](ctx, EntityTypeConsole, input.ConsoleId); err != nil {
		return nil, err
	}

	accessoryId := 0
	if input.AccessoryId != nil && *input.AccessoryId != 0 {
		accessoryId = *input.AccessoryId
		if err := utils.ValidateActiveResourceId[Accessory](ctx, EntityTypeAccessory, accessoryId); err != nil {
			return nil, err
		}
	}

	count, err := utils.ResourceCountWhere[CompatibilityLink](ctx,
		"game_id = ? AND console_id = ? AND accessory_id = ?",
		input.GameId, input.ConsoleId, accessoryId)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, utils.ErrorDuplicateLink
	}

	link := CompatibilityLink{
		GameId:      input.GameId,
		ConsoleId:   input.ConsoleId,
		AccessoryId: accessoryId,
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&link).Error; err != nil {
			return err
		}
		description := fmt.Sprintf("Game %d linked to console %d.", link.GameId, link.ConsoleId)
		if link.AccessoryId != 0 {
			description = fmt.Sprintf("Game %d linked to console %d via accessory %d.", link.GameId, link.ConsoleId, link.AccessoryId)
		}
		if err := createHistory(tx, ActionUpdate, link.GameId, EntityTypeGame, nil, link, description); err != nil {
			return err
		}
		return publishCatalogEvent(tx, link.GameId, EntityTypeGame, ActionUpdate, nil, link)
	})
	if err != nil {
		return nil, err
	}

	return &link, nil
}

// UnlinkGameConsole removes a link by tuple. Returns false without error
// when no such link exists.
func UnlinkGameConsole(ctx context.Context, gameId int, consoleId int, accessoryId int) (bool, error) {

	db := config.GetDB()

	var link CompatibilityLink
	result := db.WithContext(ctx).
		Where("game_id = ? AND console_id = ? AND accessory_id = ?", gameId, consoleId, accessoryId).
		Limit(1).Find(&link)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, nil
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&CompatibilityLink{}, link.ID).Error; err != nil {
			return err
		}
		description := fmt.Sprintf("Game %d unlinked from console %d.", gameId, consoleId)
		if err := createHistory(tx, ActionUpdate, gameId, EntityTypeGame, link, nil, description); err != nil {
			return err
		}
		return publishCatalogEvent(tx, gameId, EntityTypeGame, ActionUpdate, link, nil)
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// LinkAccessoryConsole creates an accessory-console compatibility link.
func LinkAccessoryConsole(ctx context.Context, input *NewAccessoryConsoleLink) (*AccessoryConsole, error) {

	if err := utils.ValidateActiveResourceId[Accessory](ctx, EntityTypeAccessory, input.AccessoryId); err != nil {
		return nil, err
	}
	if err := utils.ValidateActiveResourceId[Console](ctx, EntityTypeConsole, input.ConsoleId); err != nil {
		return nil, err
	}

	count, err := utils.ResourceCountWhere[AccessoryConsole](ctx,
		"accessory_id = ? AND console_id = ?", input.AccessoryId, input.ConsoleId)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, utils.ErrorDuplicateLink
	}

	link := AccessoryConsole{
		AccessoryId: input.AccessoryId,
		ConsoleId:   input.ConsoleId,
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&link).Error; err != nil {
			return err
		}
		description := fmt.Sprintf("Accessory %d linked to console %d.", link.AccessoryId, link.ConsoleId)
		if err := createHistory(tx, ActionUpdate, link.AccessoryId, EntityTypeAccessory, nil, link, description); err != nil {
			return err
		}
		return publishCatalogEvent(tx, link.AccessoryId, EntityTypeAccessory, ActionUpdate, nil, link)
	})
	if err != nil {
		return nil, err
	}

	return &link, nil
}

// UnlinkAccessoryConsole removes an accessory-console link by pair.
func UnlinkAccessoryConsole(ctx context.Context, accessoryId int, consoleId int) (bool, error) {

	db := config.GetDB()

	var link AccessoryConsole
	result := db.WithContext(ctx).
		Where("accessory_id = ? AND console_id = ?", accessoryId, consoleId).
		Limit(1).Find(&link)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, nil
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&AccessoryConsole{}, link.ID).Error; err != nil {
			return err
		}
		description := fmt.Sprintf("Accessory %d unlinked from console %d.", accessoryId, consoleId)
		if err := createHistory(tx, ActionUpdate, accessoryId, EntityTypeAccessory, link, nil, description); err != nil {
			return err
		}
		return publishCatalogEvent(tx, accessoryId, EntityTypeAccessory, ActionUpdate, link, nil)
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// CompatibleConsolesForGame lists active consoles the game is linked to,
// deduplicated across accessory-scoped links.
func CompatibleConsolesForGame(ctx context.Context, gameId int) ([]*Console, error) {

	if err := utils.ValidateActiveResourceId[Game](ctx, EntityTypeGame, gameId); err != nil {
		return nil, err
	}

	db := config.GetDB()
	var consoles []*Console
	err := db.WithContext(ctx).Model(&Console{}).
		Joins("JOIN compatibility_links ON compatibility_links.console_id = consoles.id").
		Where("compatibility_links.game_id = ?", gameId).
		Where("consoles.is_active = ?", true).
		Distinct().
		Order("consoles.name ASC").
		Find(&consoles).Error
	if err != nil {
		return nil, err
	}
	return consoles, nil
}

// CompatibleGamesForConsole lists active games linked to the console.
func CompatibleGamesForConsole(ctx context.Context, consoleId int) ([]*Game, error) {

	if err := utils.ValidateActiveResourceId[Console](ctx, EntityTypeConsole, consoleId); err != nil {
		return nil, err
	}

	db := config.GetDB()
	var games []*Game
	err := db.WithContext(ctx).Model(&Game{}).
		Joins("JOIN compatibility_links ON compatibility_links.game_id = games.id").
		Where("compatibility_links.console_id = ?", consoleId).
		Where("games.is_active = ?", true).
		Distinct().
		Order("games.title ASC").
		Find(&games).Error
	if err != nil {
		return nil, err
	}
	return games, nil
}

// CompatibleConsolesForAccessory lists active consoles linked to the accessory.
func CompatibleConsolesForAccessory(ctx context.Context, accessoryId int) ([]*Console, error) {

	if err := utils.ValidateActiveResourceId[Accessory](ctx, EntityTypeAccessory, accessoryId); err != nil {
		return nil, err
	}

	db := config.GetDB()
	var consoles []*Console
	err := db.WithContext(ctx).Model(&Console{}).
		Joins("JOIN accessory_consoles ON accessory_consoles.console_id = consoles.id").
		Where("accessory_consoles.accessory_id = ?", accessoryId).
		Where("consoles.is_active = ?", true).
		Order("consoles.name ASC").
		Find(&consoles).Error
	if err != nil {
		return nil, err
	}
	return consoles, nil
}

// CompatibleAccessoriesForConsole lists active accessories linked to the console.
func CompatibleAccessoriesForConsole(ctx context.Context, consoleId int) ([]*Accessory, error) {

	if err := utils.ValidateActiveResourceId[Console](ctx, EntityTypeConsole, consoleId); err != nil {
		return nil, err
	}

	db := config.GetDB()
	var accessories []*Accessory
	err := db.WithContext(ctx).Model(&Accessory{}).
		Joins("JOIN accessory_consoles ON accessory_consoles.accessory_id = accessories.id").
		Where("accessory_consoles.console_id = ?", consoleId).
		Where("accessories.is_active = ?", true).
		Order("accessories.name ASC").
		Find(&accessories).Error
	if err != nil {
		return nil, err
	}
	return accessories, nil
}

// unlinkAllFor removes every compatibility row touching the entity, on the
// caller's transaction. Used by purge.
func unlinkAllFor(tx *gorm.DB, referenceType string, referenceId int) error {
	switch referenceType {
	case EntityTypeGame:
		return tx.Where("game_id = ?", referenceId).Delete(&CompatibilityLink{}).Error
	case EntityTypeConsole:
		if err := tx.Where("console_id = ?", referenceId).Delete(&CompatibilityLink{}).Error; err != nil {
			return err
		}
		return tx.Where("console_id = ?", referenceId).Delete(&AccessoryConsole{}).Error
	case EntityTypeAccessory:
		if err := tx.Where("accessory_id = ?", referenceId).Delete(&CompatibilityLink{}).Error; err != nil {
			return err
		}
		return tx.Where("accessory_id = ?", referenceId).Delete(&AccessoryConsole{}).Error
	}
	return utils.NewValidationError("kind", "is unknown")
}
