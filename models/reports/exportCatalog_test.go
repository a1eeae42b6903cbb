package reports_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/gamedex/catalog_backend/config"
	"github.com/gamedex/catalog_backend/models"
	"github.com/gamedex/catalog_backend/models/reports"
	"github.com/gamedex/catalog_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := models.MigrateTable(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	config.SetDB(db)
	t.Cleanup(func() { config.SetDB(nil) })
	return db
}

func TestExportCatalogExcelIncludesEveryRow(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	// more games than one list page holds
	for i := 0; i < 150; i++ {
		game := models.Game{
			Title:       fmt.Sprintf("Catalog Game %03d", i),
			Developer:   "Pixel Forge",
			Genre:       "RPG",
			ReleaseYear: 2020,
			Price:       decimal.NewFromFloat(9.99),
			IsActive:    utils.NewTrue(),
		}
		if err := db.Create(&game).Error; err != nil {
			t.Fatalf("insert game %d: %v", i, err)
		}
	}
	console := models.Console{
		Name:         "RetroBox",
		Manufacturer: "RetroWorks",
		ReleaseYear:  2019,
		Price:        decimal.NewFromFloat(199.99),
		IsActive:     utils.NewTrue(),
	}
	if err := db.Create(&console).Error; err != nil {
		t.Fatalf("insert console: %v", err)
	}
	accessory := models.Accessory{
		Name:     "Turbo Pad",
		Type:     "controller",
		Price:    decimal.NewFromFloat(29.99),
		IsActive: utils.NewTrue(),
	}
	if err := db.Create(&accessory).Error; err != nil {
		t.Fatalf("insert accessory: %v", err)
	}

	f, err := reports.ExportCatalogExcel(ctx)
	if err != nil {
		t.Fatalf("ExportCatalogExcel: %v", err)
	}

	gameRows, err := f.GetRows("Games")
	if err != nil {
		t.Fatalf("GetRows(Games): %v", err)
	}
	if len(gameRows) != 151 {
		t.Fatalf("expected header + 150 game rows, got %d", len(gameRows))
	}

	consoleRows, err := f.GetRows("Consoles")
	if err != nil {
		t.Fatalf("GetRows(Consoles): %v", err)
	}
	if len(consoleRows) != 2 {
		t.Fatalf("expected header + 1 console row, got %d", len(consoleRows))
	}

	accessoryRows, err := f.GetRows("Accessories")
	if err != nil {
		t.Fatalf("GetRows(Accessories): %v", err)
	}
	if len(accessoryRows) != 2 {
		t.Fatalf("expected header + 1 accessory row, got %d", len(accessoryRows))
	}
}
