package models

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gamedex/catalog_backend/config"
	"github.com/gamedex/catalog_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Accessory struct {
	ID          int             `gorm:"primary_key" json:"id"`
	Name        string          `gorm:"size:100;not null;index" json:"name" binding:"required"`
	Type        string          `gorm:"size:50;not null" json:"type"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Description string          `gorm:"type:text" json:"description"`
	IsActive    *bool           `gorm:"not null;default:true" json:"is_active"`
	Image       *Image          `gorm:"polymorphic:Reference;polymorphicValue:accessory" json:"image,omitempty"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewAccessory struct {
	Name        string  `json:"name" form:"name" binding:"required"`
	Type        string  `json:"type" form:"type" binding:"required"`
	Price       float64 `json:"price" form:"price" binding:"required,gt=0"`
	Description string  `json:"description" form:"description"`
}

type UpdateAccessory struct {
	Name        *string  `json:"name,omitempty" form:"name"`
	Type        *string  `json:"type,omitempty" form:"type"`
	Price       *float64 `json:"price,omitempty" form:"price"`
	Description *string  `json:"description,omitempty" form:"description"`
}

type AccessoryFilter struct {
	Q               string `form:"q"`
	Type            string `form:"type"`
	IncludeInactive bool   `form:"-"`
}

func (input *NewAccessory) validate(ctx context.Context) error {
	if strings.TrimSpace(input.Name) == "" {
		return utils.NewValidationError("name", "is required")
	}
	if strings.TrimSpace(input.Type) == "" {
		return utils.NewValidationError("type", "is required")
	}
	if input.Price <= 0 {
		return utils.NewValidationError("price", "must be positive")
	}
	if err := utils.ValidateUnique[Accessory](ctx, "name", strings.TrimSpace(input.Name), 0); err != nil {
		return err
	}
	return nil
}

func CreateAccessory(ctx context.Context, input *NewAccessory) (*Accessory, error) {

	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	accessory := Accessory{
		Name:        strings.TrimSpace(input.Name),
		Type:        strings.TrimSpace(input.Type),
		Price:       decimal.NewFromFloat(input.Price),
		Description: input.Description,
		IsActive:    utils.NewTrue(),
	}

	db := config.GetDB()
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&accessory).Error; err != nil {
			return err
		}
		description := fmt.Sprintf("Accessory %q created.", accessory.Name)
		if err := createHistory(tx, ActionCreate, accessory.ID, EntityTypeAccessory, nil, accessory, description); err != nil {
			return err
		}
		return publishCatalogEvent(tx, accessory.ID, EntityTypeAccessory, ActionCreate, nil, accessory)
	})
	if err != nil {
		return nil, err
	}

	return &accessory, nil
}

func GetAccessory(ctx context.Context, id int, includeInactive bool) (*Accessory, error) {

	if includeInactive {
		return utils.FetchModel[Accessory](ctx, id, "Image")
	}

	cached, err := utils.RetrieveRedis[Accessory](id)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		return cached, nil
	}

	accessory, err := utils.FetchActiveModel[Accessory](ctx, id, "Image")
	if err != nil {
		return nil, err
	}
	if err := utils.StoreRedis[Accessory](accessory, accessory.ID); err != nil {
		return nil, err
	}
	return accessory, nil
}

func GetAccessories(ctx context.Context, filter AccessoryFilter, p Pagination) ([]*Accessory, int64, error) {

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Model(&Accessory{})

	if !filter.IncludeInactive {
		dbCtx = dbCtx.Where("is_active = ?", true)
	}
	if filter.Type != "" {
		dbCtx = dbCtx.Where("LOWER(type) = ?", strings.ToLower(filter.Type))
	}
	if q := strings.TrimSpace(filter.Q); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		dbCtx = dbCtx.Where(
			"LOWER(name) LIKE ? OR LOWER(type) LIKE ? OR LOWER(description) LIKE ?",
			like, like, like,
		)
	}

	var total int64
	if err := dbCtx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var results []*Accessory
	err := dbCtx.
		Preload("Image").
		Order("created_at DESC").
		Order("id DESC").
		Limit(p.Limit()).
		Offset(p.Offset()).
		Find(&results).Error
	if err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func UpdateAccessoryDetail(ctx context.Context, id int, input *UpdateAccessory) (*Accessory, error) {

	before, err := utils.FetchActiveModel[Accessory](ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, utils.NewValidationError("name", "is required")
		}
		if err := utils.ValidateUnique[Accessory](ctx, "name", name, id); err != nil {
			return nil, err
		}
		updates["Name"] = name
	}
	if input.Type != nil {
		if strings.TrimSpace(*input.Type) == "" {
			return nil, utils.NewValidationError("type", "is required")
		}
		updates["Type"] = strings.TrimSpace(*input.Type)
	}
	if input.Price != nil {
		if *input.Price <= 0 {
			return nil, utils.NewValidationError("price", "must be positive")
		}
		updates["Price"] = decimal.NewFromFloat(*input.Price)
	}
	if input.Description != nil {
		updates["Description"] = *input.Description
	}
	if len(updates) == 0 {
		return before, nil
	}

	var after Accessory
	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&Accessory{ID: id}).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.First(&after, id).Error; err != nil {
			return err
		}
		description := fmt.Sprintf("Accessory %q updated.", after.Name)
		if err := createHistory(tx, ActionUpdate, id, EntityTypeAccessory, before, after, description); err != nil {
			return err
		}
		return publishCatalogEvent(tx, id, EntityTypeAccessory, ActionUpdate, before, after)
	})
	if err != nil {
		return nil, err
	}

	if err := utils.RemoveRedis[Accessory](id); err != nil {
		return nil, err
	}
	return &after, nil
}

func SoftDeleteAccessory(ctx context.Context, id int) (bool, error) {
	return setAccessoryActive(ctx, id, false)
}

func RestoreAccessory(ctx context.Context, id int) (bool, error) {
	return setAccessoryActive(ctx, id, true)
}

func setAccessoryActive(ctx context.Context, id int, active bool) (bool, error) {

	before, err := utils.FetchModel[Accessory](ctx, id)
	if errors.Is(err, utils.ErrorRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if *before.IsActive == active {
		return false, nil
	}

	action := ActionDelete
	verb := "deleted"
	if active {
		action = ActionRestore
		verb = "restored"
	}

	var after Accessory
	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&Accessory{ID: id}).Updates(map[string]interface{}{"IsActive": active}).Error; err != nil {
			return err
		}
		if err := tx.First(&after, id).Error; err != nil {
			return err
		}
		description := fmt.Sprintf("Accessory %q %s.", after.Name, verb)
		if err := createHistory(tx, action, id, EntityTypeAccessory, before, after, description); err != nil {
			return err
		}
		return publishCatalogEvent(tx, id, EntityTypeAccessory, action, before, after)
	})
	if err != nil {
		return false, err
	}

	if err := utils.RemoveRedis[Accessory](id); err != nil {
		return false, err
	}
	return true, nil
}
