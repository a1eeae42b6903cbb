package models_test

import (
	"errors"
	"testing"

	"github.com/gamedex/catalog_backend/models"
	"github.com/gamedex/catalog_backend/utils"
)

func TestCompareGames(t *testing.T) {
	setupTestDB(t)
	ctx := testCtx()

	cheap, err := models.CreateGame(ctx, &models.NewGame{
		Title: "Budget Quest", Developer: "d", Genre: "RPG", ReleaseYear: 2015, Price: 9.99,
	})
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	pricey, err := models.CreateGame(ctx, &models.NewGame{
		Title: "Deluxe Quest", Developer: "d", Genre: "RPG", ReleaseYear: 2023, Price: 69.99,
	})
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}

	shared := createTestConsole(t, ctx, "Shared Station", 200)
	only := createTestConsole(t, ctx, "Exclusive Station", 300)
	for _, gameId := range []int{cheap.ID, pricey.ID} {
		if _, err := models.LinkGameConsole(ctx, &models.NewGameConsoleLink{GameId: gameId, ConsoleId: shared.ID}); err != nil {
			t.Fatalf("LinkGameConsole: %v", err)
		}
	}
	if _, err := models.LinkGameConsole(ctx, &models.NewGameConsoleLink{GameId: pricey.ID, ConsoleId: only.ID}); err != nil {
		t.Fatalf("LinkGameConsole: %v", err)
	}

	comparison, err := models.CompareEntities(ctx, models.ComparisonInput{
		Kind: models.EntityTypeGame,
		Ids:  []int{cheap.ID, pricey.ID},
	})
	if err != nil {
		t.Fatalf("CompareEntities: %v", err)
	}

	if len(comparison.Games) != 2 {
		t.Fatalf("expected 2 games, got %d", len(comparison.Games))
	}
	// requested order is preserved
	if comparison.Games[0].ID != cheap.ID || comparison.Games[1].ID != pricey.ID {
		t.Fatalf("expected input order preserved")
	}
	if comparison.Analysis.CheapestId != cheap.ID {
		t.Fatalf("expected cheapest %d, got %d", cheap.ID, comparison.Analysis.CheapestId)
	}
	if comparison.Analysis.MostExpensiveId != pricey.ID {
		t.Fatalf("expected most expensive %d, got %d", pricey.ID, comparison.Analysis.MostExpensiveId)
	}
	if comparison.Analysis.NewestId != pricey.ID {
		t.Fatalf("expected newest %d, got %d", pricey.ID, comparison.Analysis.NewestId)
	}
	if len(comparison.Analysis.CommonConsoles) != 1 || comparison.Analysis.CommonConsoles[0].ID != shared.ID {
		t.Fatalf("expected only the shared console in common, got %v", comparison.Analysis.CommonConsoles)
	}
}

func TestCompareEntitiesValidation(t *testing.T) {
	setupTestDB(t)
	ctx := testCtx()

	game := createTestGame(t, ctx, "Solo", 10)

	cases := []models.ComparisonInput{
		{Kind: models.EntityTypeGame, Ids: []int{game.ID}},                               // too few
		{Kind: models.EntityTypeGame, Ids: []int{1, 2, 3, 4, 5, 6}},                      // too many
		{Kind: models.EntityTypeGame, Ids: []int{game.ID, game.ID}},                      // repeated
		{Kind: "cartridge", Ids: []int{1, 2}},                                           // unknown kind
	}
	for i, input := range cases {
		if _, err := models.CompareEntities(ctx, input); !utils.IsValidationError(err) {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}
}

func TestCompareEntitiesMissingId(t *testing.T) {
	setupTestDB(t)
	ctx := testCtx()

	game := createTestGame(t, ctx, "Half Pair", 10)

	_, err := models.CompareEntities(ctx, models.ComparisonInput{
		Kind: models.EntityTypeGame,
		Ids:  []int{game.ID, 99999},
	})
	if !errors.Is(err, utils.ErrorRecordNotFound) {
		t.Fatalf("expected record not found, got %v", err)
	}
}

func TestCompareAccessories(t *testing.T) {
	setupTestDB(t)
	ctx := testCtx()

	pad := createTestAccessory(t, ctx, "Pad", 25)
	wheel := createTestAccessory(t, ctx, "Wheel", 90)

	comparison, err := models.CompareEntities(ctx, models.ComparisonInput{
		Kind: models.EntityTypeAccessory,
		Ids:  []int{pad.ID, wheel.ID},
	})
	if err != nil {
		t.Fatalf("CompareEntities: %v", err)
	}
	if comparison.Analysis.CheapestId != pad.ID || comparison.Analysis.MostExpensiveId != wheel.ID {
		t.Fatalf("unexpected analysis: %+v", comparison.Analysis)
	}
	// accessories have no release year
	if comparison.Analysis.NewestId != 0 {
		t.Fatalf("accessories must not report a newest id, got %d", comparison.Analysis.NewestId)
	}
}
