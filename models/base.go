package models

import (
	"encoding/json"
)

// Entity kinds, used as reference_type on history rows, images,
// compatibility links and outbox records.
const (
	EntityTypeGame      = "game"
	EntityTypeConsole   = "console"
	EntityTypeAccessory = "accessory"
)

// History/outbox action types.
const (
	ActionCreate  = "CREATE"
	ActionUpdate  = "UPDATE"
	ActionDelete  = "DELETE"
	ActionRestore = "RESTORE"
)

func IsKnownEntityType(entityType string) bool {
	switch entityType {
	case EntityTypeGame, EntityTypeConsole, EntityTypeAccessory:
		return true
	}
	return false
}

// snapshotJSON renders a row snapshot for history records. nil stays empty
// so CREATE has no before and DELETE keeps its after (the inactive row).
func snapshotJSON(obj interface{}) string {
	if obj == nil {
		return ""
	}
	b, err := json.Marshal(obj)
	if err != nil {
		return ""
	}
	return string(b)
}
