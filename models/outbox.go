package models

import (
	"context"
	"time"

	"github.com/gamedex/catalog_backend/config"
	"github.com/gamedex/catalog_backend/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogEventRecord implements the transactional outbox: the record is
// written inside the mutation's transaction and published to Pub/Sub
// asynchronously by the dispatcher after commit. Delivery is best-effort;
// the history table, not the outbox, is the system of record.
type CatalogEventRecord struct {
	ID            int        `gorm:"primary_key" json:"id"`
	ReferenceID   int        `gorm:"not null;index" json:"reference_id"`
	ReferenceType string     `gorm:"size:20;not null" json:"reference_type"`
	Action        string     `gorm:"size:10;not null" json:"action"`
	OldObj        []byte     `json:"old_obj"`
	NewObj        []byte     `json:"new_obj"`
	IsProcessed   bool       `gorm:"not null;default:false;index" json:"is_processed"`
	LockedAt      *time.Time `json:"locked_at"`
	LockedBy      *string    `gorm:"size:100" json:"locked_by"`
	CorrelationId string     `gorm:"size:100" json:"correlation_id"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func publishCatalogEvent(tx *gorm.DB, referenceId int, referenceType string, action string, oldObj interface{}, newObj interface{}) error {

	var oldInByte, newInByte []byte
	if s := snapshotJSON(oldObj); s != "" {
		oldInByte = []byte(s)
	}
	if s := snapshotJSON(newObj); s != "" {
		newInByte = []byte(s)
	}

	record := CatalogEventRecord{
		ReferenceID:   referenceId,
		ReferenceType: referenceType,
		Action:        action,
		OldObj:        oldInByte,
		NewObj:        newInByte,
		IsProcessed:   false,
		CorrelationId: correlationIdFromContextOrNew(tx.Statement.Context),
	}
	return tx.Create(&record).Error
}

func correlationIdFromContextOrNew(ctx context.Context) string {
	if ctx != nil {
		if v, ok := utils.GetCorrelationIdFromContext(ctx); ok && v != "" {
			return v
		}
	}
	return uuid.NewString()
}

// ConvertToCatalogEventMessage maps an outbox row to its Pub/Sub form.
func ConvertToCatalogEventMessage(rec CatalogEventRecord) config.CatalogEventMessage {
	return config.CatalogEventMessage{
		ID:            rec.ID,
		ReferenceId:   rec.ReferenceID,
		ReferenceType: rec.ReferenceType,
		Action:        rec.Action,
		OldObj:        rec.OldObj,
		NewObj:        rec.NewObj,
		CorrelationId: rec.CorrelationId,
		OccurredAt:    rec.CreatedAt,
	}
}
