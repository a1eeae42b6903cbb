package models_test

import (
	"errors"
	"testing"
	"time"

	"github.com/gamedex/catalog_backend/models"
	"github.com/gamedex/catalog_backend/utils"
	"github.com/shopspring/decimal"
)

// The full lifecycle: create, price update, soft-delete. Every step must
// leave exactly one audit row, in the same transaction.
func TestGameLifecycleWritesHistory(t *testing.T) {
	setupTestDB(t)
	ctx := testCtx()

	game, err := models.CreateGame(ctx, &models.NewGame{
		Title:       "Test Quest",
		Developer:   "Pixel Forge",
		Genre:       "RPG",
		ReleaseYear: 2020,
		Price:       29.99,
	})
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if game.ID == 0 {
		t.Fatalf("expected assigned id, got 0")
	}
	if game.IsActive == nil || !*game.IsActive {
		t.Fatalf("new game must be active")
	}

	histories := historyFor(t, ctx, models.EntityTypeGame, game.ID)
	if len(histories) != 1 {
		t.Fatalf("expected 1 history record after create, got %d", len(histories))
	}
	if histories[0].ActionType != models.ActionCreate {
		t.Fatalf("expected CREATE, got %s", histories[0].ActionType)
	}
	if histories[0].Before != "" {
		t.Fatalf("CREATE record must have empty before snapshot, got %q", histories[0].Before)
	}
	if histories[0].Actor != "tester" {
		t.Fatalf("expected actor tester, got %q", histories[0].Actor)
	}

	// updated_at must move strictly past created_at
	time.Sleep(5 * time.Millisecond)

	newPrice := 19.99
	updated, err := models.UpdateGameDetail(ctx, game.ID, &models.UpdateGame{Price: &newPrice})
	if err != nil {
		t.Fatalf("UpdateGameDetail: %v", err)
	}
	if !updated.Price.Equal(decimal.NewFromFloat(19.99)) {
		t.Fatalf("expected price 19.99, got %s", updated.Price)
	}
	if !updated.UpdatedAt.After(updated.CreatedAt) {
		t.Fatalf("updated_at (%s) must be after created_at (%s)", updated.UpdatedAt, updated.CreatedAt)
	}

	histories = historyFor(t, ctx, models.EntityTypeGame, game.ID)
	if len(histories) != 2 {
		t.Fatalf("expected 2 history records after update, got %d", len(histories))
	}

	deleted, err := models.SoftDeleteGame(ctx, game.ID)
	if err != nil {
		t.Fatalf("SoftDeleteGame: %v", err)
	}
	if !deleted {
		t.Fatalf("expected soft delete to report true")
	}

	if _, err := models.GetGame(ctx, game.ID, false); !errors.Is(err, utils.ErrorRecordNotFound) {
		t.Fatalf("expected record not found after soft delete, got %v", err)
	}
	inactive, err := models.GetGame(ctx, game.ID, true)
	if err != nil {
		t.Fatalf("GetGame include_inactive: %v", err)
	}
	if *inactive.IsActive {
		t.Fatalf("expected inactive row")
	}

	histories = historyFor(t, ctx, models.EntityTypeGame, game.ID)
	if len(histories) != 3 {
		t.Fatalf("expected 3 history records, got %d", len(histories))
	}
	// newest first
	wantActions := []string{models.ActionDelete, models.ActionUpdate, models.ActionCreate}
	for i, want := range wantActions {
		if histories[i].ActionType != want {
			t.Fatalf("history[%d]: expected %s, got %s", i, want, histories[i].ActionType)
		}
	}
	if histories[1].Before == "" || histories[1].After == "" {
		t.Fatalf("UPDATE record must carry both snapshots")
	}
}

func TestSoftDeleteGameIsIdempotent(t *testing.T) {
	setupTestDB(t)
	ctx := testCtx()

	game := createTestGame(t, ctx, "Idempotency Saga", 10)

	if deleted, err := models.SoftDeleteGame(ctx, game.ID); err != nil || !deleted {
		t.Fatalf("first delete: deleted=%v err=%v", deleted, err)
	}
	deleted, err := models.SoftDeleteGame(ctx, game.ID)
	if err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if deleted {
		t.Fatalf("second delete must report false")
	}

	histories := historyFor(t, ctx, models.EntityTypeGame, game.ID)
	if len(histories) != 2 { // CREATE + one DELETE
		t.Fatalf("expected 2 history records, got %d", len(histories))
	}

	// missing id also reports false without error
	if deleted, err := models.SoftDeleteGame(ctx, 99999); err != nil || deleted {
		t.Fatalf("missing id: deleted=%v err=%v", deleted, err)
	}
}

func TestRestoreGame(t *testing.T) {
	setupTestDB(t)
	ctx := testCtx()

	game := createTestGame(t, ctx, "Phoenix Down", 15)

	if restored, err := models.RestoreGame(ctx, game.ID); err != nil || restored {
		t.Fatalf("restoring an active game must report false, got restored=%v err=%v", restored, err)
	}

	if _, err := models.SoftDeleteGame(ctx, game.ID); err != nil {
		t.Fatalf("SoftDeleteGame: %v", err)
	}
	restored, err := models.RestoreGame(ctx, game.ID)
	if err != nil {
		t.Fatalf("RestoreGame: %v", err)
	}
	if !restored {
		t.Fatalf("expected restore to report true")
	}

	fetched, err := models.GetGame(ctx, game.ID, false)
	if err != nil {
		t.Fatalf("GetGame after restore: %v", err)
	}
	if !*fetched.IsActive {
		t.Fatalf("expected active after restore")
	}

	histories := historyFor(t, ctx, models.EntityTypeGame, game.ID)
	if histories[0].ActionType != models.ActionRestore {
		t.Fatalf("expected RESTORE on top, got %s", histories[0].ActionType)
	}
}

func TestCreateGameValidation(t *testing.T) {
	setupTestDB(t)
	ctx := testCtx()

	cases := []struct {
		name  string
		input models.NewGame
	}{
		{"empty title", models.NewGame{Title: "  ", Developer: "d", Genre: "g", ReleaseYear: 2020, Price: 10}},
		{"zero price", models.NewGame{Title: "A", Developer: "d", Genre: "g", ReleaseYear: 2020, Price: 0}},
		{"negative price", models.NewGame{Title: "B", Developer: "d", Genre: "g", ReleaseYear: 2020, Price: -5}},
		{"ancient release year", models.NewGame{Title: "C", Developer: "d", Genre: "g", ReleaseYear: 1960, Price: 10}},
	}
	for _, tc := range cases {
		if _, err := models.CreateGame(ctx, &tc.input); !utils.IsValidationError(err) {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
	}

	createTestGame(t, ctx, "Unique Quest", 10)
	_, err := models.CreateGame(ctx, &models.NewGame{
		Title: "Unique Quest", Developer: "d", Genre: "g", ReleaseYear: 2020, Price: 10,
	})
	if !utils.IsValidationError(err) {
		t.Fatalf("duplicate title: expected validation error, got %v", err)
	}
}

func TestUpdateGameRejectsInactiveAndMissing(t *testing.T) {
	setupTestDB(t)
	ctx := testCtx()

	game := createTestGame(t, ctx, "Gone Home", 10)
	if _, err := models.SoftDeleteGame(ctx, game.ID); err != nil {
		t.Fatalf("SoftDeleteGame: %v", err)
	}

	price := 12.5
	if _, err := models.UpdateGameDetail(ctx, game.ID, &models.UpdateGame{Price: &price}); !errors.Is(err, utils.ErrorRecordNotFound) {
		t.Fatalf("inactive: expected record not found, got %v", err)
	}
	if _, err := models.UpdateGameDetail(ctx, 99999, &models.UpdateGame{Price: &price}); !errors.Is(err, utils.ErrorRecordNotFound) {
		t.Fatalf("missing: expected record not found, got %v", err)
	}
}

func TestGetGamesFilters(t *testing.T) {
	setupTestDB(t)
	ctx := testCtx()

	rpg := createTestGame(t, ctx, "Dragon Tale", 20)
	_, err := models.CreateGame(ctx, &models.NewGame{
		Title: "Space Racer", Developer: "Orbit Labs", Genre: "Racing", ReleaseYear: 2022, Price: 30,
	})
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	deletedGame := createTestGame(t, ctx, "Hidden Relic", 5)
	if _, err := models.SoftDeleteGame(ctx, deletedGame.ID); err != nil {
		t.Fatalf("SoftDeleteGame: %v", err)
	}

	p := models.Pagination{Page: 1, PerPage: 20}

	games, total, err := models.GetGames(ctx, models.GameFilter{Genre: "rpg"}, p)
	if err != nil {
		t.Fatalf("GetGames genre: %v", err)
	}
	if total != 1 || len(games) != 1 || games[0].ID != rpg.ID {
		t.Fatalf("genre filter: expected only %d, got total=%d", rpg.ID, total)
	}

	_, total, err = models.GetGames(ctx, models.GameFilter{}, p)
	if err != nil {
		t.Fatalf("GetGames: %v", err)
	}
	if total != 2 {
		t.Fatalf("soft-deleted game must be excluded, got total=%d", total)
	}

	_, total, err = models.GetGames(ctx, models.GameFilter{IncludeInactive: true}, p)
	if err != nil {
		t.Fatalf("GetGames include inactive: %v", err)
	}
	if total != 3 {
		t.Fatalf("expected 3 with inactive, got %d", total)
	}
}

func TestStorageFailureIsNotNotFound(t *testing.T) {
	db := setupTestDB(t)
	ctx := testCtx()
	game := createTestGame(t, ctx, "Flaky Disk", 20)

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	if err := sqlDB.Close(); err != nil {
		t.Fatalf("close sqlite: %v", err)
	}

	// an unreachable store must not masquerade as a missing record
	if _, err := models.GetGame(ctx, game.ID, true); err == nil || errors.Is(err, utils.ErrorRecordNotFound) {
		t.Fatalf("expected a storage error, got %v", err)
	}
	if _, err := models.SoftDeleteGame(ctx, game.ID); err == nil {
		t.Fatalf("expected soft delete to surface the storage error")
	}
}
