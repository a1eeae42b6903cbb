package main

import (
	"context"
	"time"

	"github.com/bsm/redislock"
	"github.com/gamedex/catalog_backend/config"
	"github.com/gamedex/catalog_backend/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OutboxDispatcher publishes committed catalog events to Pub/Sub. Rows are
// claimed with SKIP LOCKED so multiple replicas never double-claim; the
// redis lock on top is a best-effort optimization to keep one replica
// polling at a time.
type OutboxDispatcher struct {
	DB        *gorm.DB
	Logger    *logrus.Logger
	Topic     string
	WorkerID  string
	BatchSize int
	Interval  time.Duration
	LockTTL   time.Duration
}

func NewOutboxDispatcher(db *gorm.DB, logger *logrus.Logger, topic string) *OutboxDispatcher {
	return &OutboxDispatcher{
		DB:        db,
		Logger:    logger,
		Topic:     topic,
		WorkerID:  "dispatcher-" + time.Now().Format("20060102-150405.000"),
		BatchSize: 50,
		Interval:  2 * time.Second,
		LockTTL:   30 * time.Second,
	}
}

func (d *OutboxDispatcher) Run(ctx context.Context) {
	if d == nil || d.DB == nil || d.Topic == "" {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		d.dispatchOnce(ctx)
		select {
		case <-ctx.Done():
			return
		case <-time.After(d.Interval):
		}
	}
}

func (d *OutboxDispatcher) dispatchOnce(ctx context.Context) {

	var lock *redislock.Lock
	if locker := config.GetRedisLock(); locker != nil {
		var err error
		lock, err = locker.Obtain(ctx, "lock:outbox-dispatcher", d.LockTTL, nil)
		if err == redislock.ErrNotObtained {
			return
		}
		if err != nil {
			lock = nil
		}
	}
	defer func() {
		if lock != nil {
			_ = lock.Release(ctx)
		}
	}()

	now := time.Now().UTC()
	staleBefore := now.Add(-d.LockTTL)

	var claimed []models.CatalogEventRecord
	err := d.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.
			Where("is_processed = ?", false).
			Where("(locked_at IS NULL OR locked_at <= ?)", staleBefore).
			Order("id ASC").
			Limit(d.BatchSize).
			Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"})
		if err := q.Find(&claimed).Error; err != nil {
			return err
		}
		if len(claimed) == 0 {
			return nil
		}
		for i := range claimed {
			claimed[i].LockedAt = &now
			claimed[i].LockedBy = &d.WorkerID
			if err := tx.Model(&models.CatalogEventRecord{}).
				Where("id = ?", claimed[i].ID).
				Updates(map[string]interface{}{
					"locked_at": claimed[i].LockedAt,
					"locked_by": claimed[i].LockedBy,
				}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil || len(claimed) == 0 {
		return
	}

	for _, rec := range claimed {
		msg := models.ConvertToCatalogEventMessage(rec)

		if err := config.PublishCatalogEvent(ctx, d.Topic, msg); err != nil {
			// release the claim; the next pass retries after the lock goes stale
			_ = d.DB.WithContext(ctx).Model(&models.CatalogEventRecord{}).
				Where("id = ?", rec.ID).
				Updates(map[string]interface{}{
					"locked_at": nil,
					"locked_by": nil,
				}).Error
			if d.Logger != nil {
				d.Logger.WithFields(logrus.Fields{
					"field":          "OutboxDispatcher",
					"reference_type": rec.ReferenceType,
					"reference_id":   rec.ReferenceID,
					"record_id":      rec.ID,
				}).Error("publish failed: " + err.Error())
			}
			continue
		}

		_ = d.DB.WithContext(ctx).Model(&models.CatalogEventRecord{}).
			Where("id = ?", rec.ID).
			Updates(map[string]interface{}{
				"is_processed": true,
				"locked_at":    nil,
				"locked_by":    nil,
			}).Error
	}
}
