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

type Console struct {
	ID           int             `gorm:"primary_key" json:"id"`
	Name         string          `gorm:"size:100;not null;index" json:"name" binding:"required"`
	Manufacturer string          `gorm:"size:100;not null" json:"manufacturer"`
	ReleaseYear  int             `gorm:"not null" json:"release_year"`
	Price        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Specs        string          `gorm:"type:text" json:"specs"`
	IsActive     *bool           `gorm:"not null;default:true" json:"is_active"`
	Image        *Image          `gorm:"polymorphic:Reference;polymorphicValue:console" json:"image,omitempty"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewConsole struct {
	Name         string  `json:"name" form:"name" binding:"required"`
	Manufacturer string  `json:"manufacturer" form:"manufacturer" binding:"required"`
	ReleaseYear  int     `json:"release_year" form:"release_year" binding:"required,gt=1970"`
	Price        float64 `json:"price" form:"price" binding:"required,gt=0"`
	Specs        string  `json:"specs" form:"specs"`
}

type UpdateConsole struct {
	Name         *string  `json:"name,omitempty" form:"name"`
	Manufacturer *string  `json:"manufacturer,omitempty" form:"manufacturer"`
	ReleaseYear  *int     `json:"release_year,omitempty" form:"release_year"`
	Price        *float64 `json:"price,omitempty" form:"price"`
	Specs        *string  `json:"specs,omitempty" form:"specs"`
}

type ConsoleFilter struct {
	Q               string `form:"q"`
	Manufacturer    string `form:"manufacturer"`
	ReleaseYear     int    `form:"release_year"`
	IncludeInactive bool   `form:"-"`
}

func (input *NewConsole) validate(ctx context.Context) error {
	if strings.TrimSpace(input.Name) == "" {
		return utils.NewValidationError("name", "is required")
	}
	if strings.TrimSpace(input.Manufacturer) == "" {
		return utils.NewValidationError("manufacturer", "is required")
	}
	if input.ReleaseYear <= 1970 {
		return utils.NewValidationError("release_year", "must be after 1970")
	}
	if input.Price <= 0 {
		return utils.NewValidationError("price", "must be positive")
	}
	if err := utils.ValidateUnique[Console](ctx, "name", strings.TrimSpace(input.Name), 0); err != nil {
		return err
	}
	return nil
}

func CreateConsole(ctx context.Context, input *NewConsole) (*Console, error) {

	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	console := Console{
		Name:         strings.TrimSpace(input.Name),
		Manufacturer: strings.TrimSpace(input.Manufacturer),
		ReleaseYear:  input.ReleaseYear,
		Price:        decimal.NewFromFloat(input.Price),
		Specs:        input.Specs,
		IsActive:     utils.NewTrue(),
	}

	db := config.GetDB()
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&console).Error; err != nil {
			return err
		}
		description := fmt.Sprintf("Console %q created.", console.Name)
		if err := createHistory(tx, ActionCreate, console.ID, EntityTypeConsole, nil, console, description); err != nil {
			return err
		}
		return publishCatalogEvent(tx, console.ID, EntityTypeConsole, ActionCreate, nil, console)
	})
	if err != nil {
		return nil, err
	}

	return &console, nil
}

func GetConsole(ctx context.Context, id int, includeInactive bool) (*Console, error) {

	if includeInactive {
		return utils.FetchModel[Console](ctx, id, "Image")
	}

	cached, err := utils.RetrieveRedis[Console](id)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		return cached, nil
	}

	console, err := utils.FetchActiveModel[Console](ctx, id, "Image")
	if err != nil {
		return nil, err
	}
	if err := utils.StoreRedis[Console](console, console.ID); err != nil {
		return nil, err
	}
	return console, nil
}

func GetConsoles(ctx context.Context, filter ConsoleFilter, p Pagination) ([]*Console, int64, error) {

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Model(&Console{})

	if !filter.IncludeInactive {
		dbCtx = dbCtx.Where("is_active = ?", true)
	}
	if filter.Manufacturer != "" {
		dbCtx = dbCtx.Where("LOWER(manufacturer) = ?", strings.ToLower(filter.Manufacturer))
	}
	if filter.ReleaseYear > 0 {
		dbCtx = dbCtx.Where("release_year = ?", filter.ReleaseYear)
	}
	if q := strings.TrimSpace(filter.Q); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		dbCtx = dbCtx.Where(
			"LOWER(name) LIKE ? OR LOWER(manufacturer) LIKE ? OR LOWER(specs) LIKE ?",
			like, like, like,
		)
	}

	var total int64
	if err := dbCtx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var results []*Console
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

func UpdateConsoleDetail(ctx context.Context, id int, input *UpdateConsole) (*Console, error) {

	before, err := utils.FetchActiveModel[Console](ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, utils.NewValidationError("name", "is required")
		}
		if err := utils.ValidateUnique[Console](ctx, "name", name, id); err != nil {
			return nil, err
		}
		updates["Name"] = name
	}
	if input.Manufacturer != nil {
		if strings.TrimSpace(*input.Manufacturer) == "" {
			return nil, utils.NewValidationError("manufacturer", "is required")
		}
		updates["Manufacturer"] = strings.TrimSpace(*input.Manufacturer)
	}
	if input.ReleaseYear != nil {
		if *input.ReleaseYear <= 1970 {
			return nil, utils.NewValidationError("release_year", "must be after 1970")
		}
		updates["ReleaseYear"] = *input.ReleaseYear
	}
	if input.Price != nil {
		if *input.Price <= 0 {
			return nil, utils.NewValidationError("price", "must be positive")
		}
		updates["Price"] = decimal.NewFromFloat(*input.Price)
	}
	if input.Specs != nil {
		updates["Specs"] = *input.Specs
	}
	if len(updates) == 0 {
		return before, nil
	}

	var after Console
	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&Console{ID: id}).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.First(&after, id).Error; err != nil {
			return err
		}
		description := fmt.Sprintf("Console %q updated.", after.Name)
		if err := createHistory(tx, ActionUpdate, id, EntityTypeConsole, before, after, description); err != nil {
			return err
		}
		return publishCatalogEvent(tx, id, EntityTypeConsole, ActionUpdate, before, after)
	})
	if err != nil {
		return nil, err
	}

	if err := utils.RemoveRedis[Console](id); err != nil {
		return nil, err
	}
	return &after, nil
}

func SoftDeleteConsole(ctx context.Context, id int) (bool, error) {
	return setConsoleActive(ctx, id, false)
}

func RestoreConsole(ctx context.Context, id int) (bool, error) {
	return setConsoleActive(ctx, id, true)
}

func setConsoleActive(ctx context.Context, id int, active bool) (bool, error) {

	before, err := utils.FetchModel[Console](ctx, id)
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

	var after Console
	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&Console{ID: id}).Updates(map[string]interface{}{"IsActive": active}).Error; err != nil {
			return err
		}
		if err := tx.First(&after, id).Error; err != nil {
			return err
		}
		description := fmt.Sprintf("Console %q %s.", after.Name, verb)
		if err := createHistory(tx, action, id, EntityTypeConsole, before, after, description); err != nil {
			return err
		}
		return publishCatalogEvent(tx, id, EntityTypeConsole, action, before, after)
	})
	if err != nil {
		return false, err
	}

	if err := utils.RemoveRedis[Console](id); err != nil {
		return false, err
	}
	return true, nil
}
