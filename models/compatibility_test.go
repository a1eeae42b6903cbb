package models_test

import (
	"errors"
	"testing"

	"github.com/gamedex/catalog_backend/models"
	"github.com/gamedex/catalog_backend/utils"
)

func TestLinkGameConsole(t *testing.T) {
	setupTestDB(t)
	ctx := testCtx()

	game := createTestGame(t, ctx, "Port Master", 20)
	console := createTestConsole(t, ctx, "RetroBox", 200)
	accessory := createTestAccessory(t, ctx, "Light Gun", 40)

	link, err := models.LinkGameConsole(ctx, &models.NewGameConsoleLink{
		GameId: game.ID, ConsoleId: console.ID,
	})
	if err != nil {
		t.Fatalf("LinkGameConsole: %v", err)
	}
	if link.AccessoryId != 0 {
		t.Fatalf("unscoped link must store accessory id 0, got %d", link.AccessoryId)
	}

	// same tuple again
	_, err = models.LinkGameConsole(ctx, &models.NewGameConsoleLink{
		GameId: game.ID, ConsoleId: console.ID,
	})
	if !errors.Is(err, utils.ErrorDuplicateLink) {
		t.Fatalf("expected duplicate link error, got %v", err)
	}

	// same pair scoped by an accessory is a different tuple
	scoped, err := models.LinkGameConsole(ctx, &models.NewGameConsoleLink{
		GameId: game.ID, ConsoleId: console.ID, AccessoryId: &accessory.ID,
	})
	if err != nil {
		t.Fatalf("scoped link: %v", err)
	}
	if scoped.AccessoryId != accessory.ID {
		t.Fatalf("expected accessory id %d, got %d", accessory.ID, scoped.AccessoryId)
	}

	// both link rows resolve to one console
	consoles, err := models.CompatibleConsolesForGame(ctx, game.ID)
	if err != nil {
		t.Fatalf("CompatibleConsolesForGame: %v", err)
	}
	if len(consoles) != 1 || consoles[0].ID != console.ID {
		t.Fatalf("expected exactly console %d, got %v", console.ID, consoles)
	}

	games, err := models.CompatibleGamesForConsole(ctx, console.ID)
	if err != nil {
		t.Fatalf("CompatibleGamesForConsole: %v", err)
	}
	if len(games) != 1 || games[0].ID != game.ID {
		t.Fatalf("expected exactly game %d", game.ID)
	}
}

func TestLinkGameConsoleIntegrity(t *testing.T) {
	setupTestDB(t)
	ctx := testCtx()

	game := createTestGame(t, ctx, "Lonely Cartridge", 20)

	_, err := models.LinkGameConsole(ctx, &models.NewGameConsoleLink{
		GameId: game.ID, ConsoleId: 424242,
	})
	if !utils.IsIntegrityError(err) {
		t.Fatalf("missing console: expected integrity error, got %v", err)
	}

	// inactive console counts as missing
	console := createTestConsole(t, ctx, "Mothballed", 100)
	if _, err := models.SoftDeleteConsole(ctx, console.ID); err != nil {
		t.Fatalf("SoftDeleteConsole: %v", err)
	}
	_, err = models.LinkGameConsole(ctx, &models.NewGameConsoleLink{
		GameId: game.ID, ConsoleId: console.ID,
	})
	if !utils.IsIntegrityError(err) {
		t.Fatalf("inactive console: expected integrity error, got %v", err)
	}
}

func TestUnlinkGameConsole(t *testing.T) {
	setupTestDB(t)
	ctx := testCtx()

	game := createTestGame(t, ctx, "Detachable", 20)
	console := createTestConsole(t, ctx, "SwapStation", 150)

	if _, err := models.LinkGameConsole(ctx, &models.NewGameConsoleLink{GameId: game.ID, ConsoleId: console.ID}); err != nil {
		t.Fatalf("LinkGameConsole: %v", err)
	}

	removed, err := models.UnlinkGameConsole(ctx, game.ID, console.ID, 0)
	if err != nil {
		t.Fatalf("UnlinkGameConsole: %v", err)
	}
	if !removed {
		t.Fatalf("expected unlink to report true")
	}

	// second time reports false
	if removed, err := models.UnlinkGameConsole(ctx, game.ID, console.ID, 0); err != nil || removed {
		t.Fatalf("second unlink: removed=%v err=%v", removed, err)
	}

	consoles, err := models.CompatibleConsolesForGame(ctx, game.ID)
	if err != nil {
		t.Fatalf("CompatibleConsolesForGame: %v", err)
	}
	if len(consoles) != 0 {
		t.Fatalf("expected no consoles after unlink, got %d", len(consoles))
	}
}

func TestAccessoryConsoleLinks(t *testing.T) {
	setupTestDB(t)
	ctx := testCtx()

	accessory := createTestAccessory(t, ctx, "Dance Mat", 60)
	console := createTestConsole(t, ctx, "PartyCube", 250)

	if _, err := models.LinkAccessoryConsole(ctx, &models.NewAccessoryConsoleLink{
		AccessoryId: accessory.ID, ConsoleId: console.ID,
	}); err != nil {
		t.Fatalf("LinkAccessoryConsole: %v", err)
	}

	_, err := models.LinkAccessoryConsole(ctx, &models.NewAccessoryConsoleLink{
		AccessoryId: accessory.ID, ConsoleId: console.ID,
	})
	if !errors.Is(err, utils.ErrorDuplicateLink) {
		t.Fatalf("expected duplicate link error, got %v", err)
	}

	consoles, err := models.CompatibleConsolesForAccessory(ctx, accessory.ID)
	if err != nil {
		t.Fatalf("CompatibleConsolesForAccessory: %v", err)
	}
	if len(consoles) != 1 || consoles[0].ID != console.ID {
		t.Fatalf("expected console %d", console.ID)
	}

	accessories, err := models.CompatibleAccessoriesForConsole(ctx, console.ID)
	if err != nil {
		t.Fatalf("CompatibleAccessoriesForConsole: %v", err)
	}
	if len(accessories) != 1 || accessories[0].ID != accessory.ID {
		t.Fatalf("expected accessory %d", accessory.ID)
	}
}

func TestCompatibleConsolesExcludesInactive(t *testing.T) {
	setupTestDB(t)
	ctx := testCtx()

	game := createTestGame(t, ctx, "Survivor", 20)
	alive := createTestConsole(t, ctx, "Alive", 100)
	dying := createTestConsole(t, ctx, "Dying", 100)

	for _, consoleId := range []int{alive.ID, dying.ID} {
		if _, err := models.LinkGameConsole(ctx, &models.NewGameConsoleLink{GameId: game.ID, ConsoleId: consoleId}); err != nil {
			t.Fatalf("LinkGameConsole(%d): %v", consoleId, err)
		}
	}
	if _, err := models.SoftDeleteConsole(ctx, dying.ID); err != nil {
		t.Fatalf("SoftDeleteConsole: %v", err)
	}

	consoles, err := models.CompatibleConsolesForGame(ctx, game.ID)
	if err != nil {
		t.Fatalf("CompatibleConsolesForGame: %v", err)
	}
	if len(consoles) != 1 || consoles[0].ID != alive.ID {
		t.Fatalf("expected only the active console, got %d rows", len(consoles))
	}
}
