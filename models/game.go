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

type Game struct {
	ID          int             `gorm:"primary_key" json:"id"`
	Title       string          `gorm:"size:100;not null;index" json:"title" binding:"required"`
	Developer   string          `gorm:"size:100;not null" json:"developer"`
	Genre       string          `gorm:"size:50;not null" json:"genre"`
	ReleaseYear int             `gorm:"not null" json:"release_year"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Description string          `gorm:"type:text" json:"description"`
	IsActive    *bool           `gorm:"not null;default:true" json:"is_active"`
	Image       *Image          `gorm:"polymorphic:Reference;polymorphicValue:game" json:"image,omitempty"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewGame struct {
	Title       string  `json:"title" form:"title" binding:"required"`
	Developer   string  `json:"developer" form:"developer" binding:"required"`
	Genre       string  `json:"genre" form:"genre" binding:"required"`
	ReleaseYear int     `json:"release_year" form:"release_year" binding:"required,gt=1970"`
	Price       float64 `json:"price" form:"price" binding:"required,gt=0"`
	Description string  `json:"description" form:"description"`
}

type UpdateGame struct {
	Title       *string  `json:"title,omitempty" form:"title"`
	Developer   *string  `json:"developer,omitempty" form:"developer"`
	Genre       *string  `json:"genre,omitempty" form:"genre"`
	ReleaseYear *int     `json:"release_year,omitempty" form:"release_year"`
	Price       *float64 `json:"price,omitempty" form:"price"`
	Description *string  `json:"description,omitempty" form:"description"`
}

type GameFilter struct {
	Q               string `form:"q"`
	Genre           string `form:"genre"`
	Developer       string `form:"developer"`
	ReleaseYear     int    `form:"release_year"`
	IncludeInactive bool   `form:"-"`
}

func (input *NewGame) validate(ctx context.Context) error {
	if strings.TrimSpace(input.Title) == "" {
		return utils.NewValidationError("title", "is required")
	}
	if strings.TrimSpace(input.Developer) == "" {
		return utils.NewValidationError("developer", "is required")
	}
	if strings.TrimSpace(input.Genre) == "" {
		return utils.NewValidationError("genre", "is required")
	}
	if input.ReleaseYear <= 1970 {
		return utils.NewValidationError("release_year", "must be after 1970")
	}
	if input.Price <= 0 {
		return utils.NewValidationError("price", "must be positive")
	}
	if err := utils.ValidateUnique[Game](ctx, "title", strings.TrimSpace(input.Title), 0); err != nil {
		return err
	}
	return nil
}

func CreateGame(ctx context.Context, input *NewGame) (*Game, error) {

	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	game := Game{
		Title:       strings.TrimSpace(input.Title),
		Developer:   strings.TrimSpace(input.Developer),
		Genre:       strings.TrimSpace(input.Genre),
		ReleaseYear: input.ReleaseYear,
		Price:       decimal.NewFromFloat(input.Price),
		Description: input.Description,
		IsActive:    utils.NewTrue(),
	}

	db := config.GetDB()
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&game).Error; err != nil {
			return err
		}
		description := fmt.Sprintf("Game %q created.", game.Title)
		if err := createHistory(tx, ActionCreate, game.ID, EntityTypeGame, nil, game, description); err != nil {
			return err
		}
		return publishCatalogEvent(tx, game.ID, EntityTypeGame, ActionCreate, nil, game)
	})
	if err != nil {
		return nil, err
	}

	return &game, nil
}

func GetGame(ctx context.Context, id int, includeInactive bool) (*Game, error) {

	if includeInactive {
		return utils.FetchModel[Game](ctx, id, "Image")
	}

	// cached copies are dropped on every mutation, so a hit is always live
	cached, err := utils.RetrieveRedis[Game](id)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		return cached, nil
	}

	game, err := utils.FetchActiveModel[Game](ctx, id, "Image")
	if err != nil {
		return nil, err
	}
	if err := utils.StoreRedis[Game](game, game.ID); err != nil {
		return nil, err
	}
	return game, nil
}

func GetGames(ctx context.Context, filter GameFilter, p Pagination) ([]*Game, int64, error) {

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Model(&Game{})

	if !filter.IncludeInactive {
		dbCtx = dbCtx.Where("is_active = ?", true)
	}
	if filter.Genre != "" {
		dbCtx = dbCtx.Where("LOWER(genre) = ?", strings.ToLower(filter.Genre))
	}
	if filter.Developer != "" {
		dbCtx = dbCtx.Where("LOWER(developer) = ?", strings.ToLower(filter.Developer))
	}
	if filter.ReleaseYear > 0 {
		dbCtx = dbCtx.Where("release_year = ?", filter.ReleaseYear)
	}
	if q := strings.TrimSpace(filter.Q); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		dbCtx = dbCtx.Where(
			"LOWER(title) LIKE ? OR LOWER(genre) LIKE ? OR LOWER(developer) LIKE ? OR LOWER(description) LIKE ?",
			like, like, like, like,
		)
	}

	var total int64
	if err := dbCtx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var results []*Game
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

func UpdateGameDetail(ctx context.Context, id int, input *UpdateGame) (*Game, error) {

	before, err := utils.FetchActiveModel[Game](ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, utils.NewValidationError("title", "is required")
		}
		if err := utils.ValidateUnique[Game](ctx, "title", title, id); err != nil {
			return nil, err
		}
		updates["Title"] = title
	}
	if input.Developer != nil {
		if strings.TrimSpace(*input.Developer) == "" {
			return nil, utils.NewValidationError("developer", "is required")
		}
		updates["Developer"] = strings.TrimSpace(*input.Developer)
	}
	if input.Genre != nil {
		if strings.TrimSpace(*input.Genre) == "" {
			return nil, utils.NewValidationError("genre", "is required")
		}
		updates["Genre"] = strings.TrimSpace(*input.Genre)
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
	if input.Description != nil {
		updates["Description"] = *input.Description
	}
	if len(updates) == 0 {
		return before, nil
	}

	var after Game
	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&Game{ID: id}).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.First(&after, id).Error; err != nil {
			return err
		}
		description := fmt.Sprintf("Game %q updated.", after.Title)
		if err := createHistory(tx, ActionUpdate, id, EntityTypeGame, before, after, description); err != nil {
			return err
		}
		return publishCatalogEvent(tx, id, EntityTypeGame, ActionUpdate, before, after)
	})
	if err != nil {
		return nil, err
	}

	if err := utils.RemoveRedis[Game](id); err != nil {
		return nil, err
	}
	return &after, nil
}

// SoftDeleteGame marks the game inactive. Returns false without error when
// the game is missing or already inactive; no history row is written then.
func SoftDeleteGame(ctx context.Context, id int) (bool, error) {
	return setGameActive(ctx, id, false)
}

// RestoreGame is the inverse of SoftDeleteGame.
func RestoreGame(ctx context.Context, id int) (bool, error) {
	return setGameActive(ctx, id, true)
}

func setGameActive(ctx context.Context, id int, active bool) (bool, error) {

	before, err := utils.FetchModel[Game](ctx, id)
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

	var after Game
	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&Game{ID: id}).Updates(map[string]interface{}{"IsActive": active}).Error; err != nil {
			return err
		}
		if err := tx.First(&after, id).Error; err != nil {
			return err
		}
		description := fmt.Sprintf("Game %q %s.", after.Title, verb)
		if err := createHistory(tx, action, id, EntityTypeGame, before, after, description); err != nil {
			return err
		}
		return publishCatalogEvent(tx, id, EntityTypeGame, action, before, after)
	})
	if err != nil {
		return false, err
	}

	if err := utils.RemoveRedis[Game](id); err != nil {
		return false, err
	}
	return true, nil
}
