package models

import (
	"gorm.io/gorm"
)

func MigrateTable(db *gorm.DB) error {
	return db.AutoMigrate(
		&Game{},
		&Console{},
		&Accessory{},
		&Image{},
		&CompatibilityLink{},
		&AccessoryConsole{},
		&History{},
		&CatalogEventRecord{},
		&User{},
	)
}
