package models_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/gamedex/catalog_backend/config"
	"github.com/gamedex/catalog_backend/models"
	"github.com/gamedex/catalog_backend/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB points the shared handle at a fresh in-memory sqlite database.
// Each test gets its own database, named after the test.
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

func testCtx() context.Context {
	return utils.SetActorInContext(context.Background(), "tester")
}

func createTestGame(t *testing.T, ctx context.Context, title string, price float64) *models.Game {
	t.Helper()
	game, err := models.CreateGame(ctx, &models.NewGame{
		Title:       title,
		Developer:   "Pixel Forge",
		Genre:       "RPG",
		ReleaseYear: 2020,
		Price:       price,
	})
	if err != nil {
		t.Fatalf("CreateGame(%s): %v", title, err)
	}
	return game
}

func createTestConsole(t *testing.T, ctx context.Context, name string, price float64) *models.Console {
	t.Helper()
	console, err := models.CreateConsole(ctx, &models.NewConsole{
		Name:         name,
		Manufacturer: "RetroWorks",
		ReleaseYear:  2019,
		Price:        price,
	})
	if err != nil {
		t.Fatalf("CreateConsole(%s): %v", name, err)
	}
	return console
}

func createTestAccessory(t *testing.T, ctx context.Context, name string, price float64) *models.Accessory {
	t.Helper()
	accessory, err := models.CreateAccessory(ctx, &models.NewAccessory{
		Name:  name,
		Type:  "controller",
		Price: price,
	})
	if err != nil {
		t.Fatalf("CreateAccessory(%s): %v", name, err)
	}
	return accessory
}

func historyFor(t *testing.T, ctx context.Context, referenceType string, referenceId int) []*models.History {
	t.Helper()
	histories, _, err := models.GetHistories(ctx, models.HistoryFilter{
		ReferenceType: referenceType,
		ReferenceID:   referenceId,
	}, models.Pagination{Page: 1, PerPage: 100})
	if err != nil {
		t.Fatalf("GetHistories: %v", err)
	}
	return histories
}
