package models

import (
	"context"
	"time"

	"github.com/gamedex/catalog_backend/config"
	"github.com/gamedex/catalog_backend/utils"
	"gorm.io/gorm"
)

// History is the append-only audit trail. Rows are only ever inserted, in
// the same transaction as the mutation they describe; nothing in this
// codebase updates or deletes them.
type History struct {
	ID            int       `gorm:"primary_key" json:"id"`
	ReferenceType string    `gorm:"size:20;not null;index:idx_history_ref" json:"reference_type"`
	ReferenceID   int       `gorm:"not null;index:idx_history_ref" json:"reference_id"`
	ActionType    string    `gorm:"size:10;not null;index" json:"action_type"`
	Before        string    `gorm:"type:text" json:"before"`
	After         string    `gorm:"type:text" json:"after"`
	Description   string    `gorm:"type:text;not null" json:"description"`
	Actor         string    `gorm:"size:100;not null" json:"actor"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// createHistory appends one audit row on the caller's transaction, so the
// row change and its history entry commit or roll back together.
func createHistory(tx *gorm.DB,
	actionType string,
	referenceId int,
	referenceType string,
	before interface{},
	after interface{},
	description string) error {

	ctx := tx.Statement.Context

	history := History{
		ReferenceType: referenceType,
		ReferenceID:   referenceId,
		ActionType:    actionType,
		Before:        snapshotJSON(before),
		After:         snapshotJSON(after),
		Description:   description,
		Actor:         utils.ActorOrSystem(ctx),
	}

	return tx.Create(&history).Error
}

type HistoryFilter struct {
	ReferenceType string     `form:"reference_type"`
	ReferenceID   int        `form:"reference_id"`
	ActionType    string     `form:"action_type"`
	From          *time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To            *time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
}

// GetHistories returns audit rows newest first. All filters are AND'd.
func GetHistories(ctx context.Context, filter HistoryFilter, p Pagination) ([]*History, int64, error) {

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Model(&History{})

	if filter.ReferenceType != "" {
		dbCtx = dbCtx.Where("reference_type = ?", filter.ReferenceType)
	}
	if filter.ReferenceID > 0 {
		dbCtx = dbCtx.Where("reference_id = ?", filter.ReferenceID)
	}
	if filter.ActionType != "" {
		dbCtx = dbCtx.Where("action_type = ?", filter.ActionType)
	}
	if filter.From != nil {
		dbCtx = dbCtx.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		dbCtx = dbCtx.Where("created_at <= ?", *filter.To)
	}

	var total int64
	if err := dbCtx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var results []*History
	err := dbCtx.
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

// historyCountFor is used by purge to refuse removing rows the audit trail
// still references.
func historyCountFor(ctx context.Context, referenceType string, referenceId int) (int64, error) {
	return utils.ResourceCountWhere[History](ctx, "reference_type = ? AND reference_id = ?", referenceType, referenceId)
}
