package utils

import (
	"context"
	"errors"

	"github.com/gamedex/catalog_backend/config"
	"gorm.io/gorm"
)

/* DB fetching */

// fetch model from db by id, active or not
// (may return RecordNotFound)
func FetchModel[T any](ctx context.Context, id int, associations ...string) (*T, error) {

	db := config.GetDB()
	dbCtx := db.WithContext(ctx)
	// preloading
	for _, field := range associations {
		dbCtx = dbCtx.Preload(field)
	}
	var result T
	err := dbCtx.First(&result, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrorRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// fetch model from db, soft-deleted rows excluded
// (may return RecordNotFound)
func FetchActiveModel[T any](ctx context.Context, id int, associations ...string) (*T, error) {

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Where("is_active = ?", true)
	// preloading
	for _, field := range associations {
		dbCtx = dbCtx.Preload(field)
	}
	var result T
	err := dbCtx.First(&result, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrorRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func ResourceCountWhere[T any](ctx context.Context, cond string, values ...interface{}) (int64, error) {
	db := config.GetDB()
	var model T
	var count int64
	err := db.WithContext(ctx).Model(&model).Where(cond, values...).Count(&count).Error
	return count, err
}
