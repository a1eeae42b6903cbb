package models

import (
	"context"

	"github.com/gamedex/catalog_backend/utils"
	"github.com/shopspring/decimal"
)

const (
	minCompareIds = 2
	maxCompareIds = 5
)

type ComparisonInput struct {
	Kind string `form:"kind" json:"kind" binding:"required"`
	Ids  []int  `form:"id" json:"ids" binding:"required"`
}

type ComparisonAnalysis struct {
	CheapestId      int        `json:"cheapest_id"`
	MostExpensiveId int        `json:"most_expensive_id"`
	NewestId        int        `json:"newest_id,omitempty"`
	CommonConsoles  []*Console `json:"common_consoles,omitempty"`
}

type Comparison struct {
	Kind        string             `json:"kind"`
	Games       []*Game            `json:"games,omitempty"`
	Consoles    []*Console         `json:"consoles,omitempty"`
	Accessories []*Accessory       `json:"accessories,omitempty"`
	Analysis    ComparisonAnalysis `json:"analysis"`
}

func (input ComparisonInput) validate() error {
	if !IsKnownEntityType(input.Kind) {
		return utils.NewValidationError("kind", "is unknown")
	}
	if len(input.Ids) < minCompareIds || len(input.Ids) > maxCompareIds {
		return utils.NewValidationError("ids", "must contain between 2 and 5 ids")
	}
	seen := map[int]bool{}
	for _, id := range input.Ids {
		if seen[id] {
			return utils.NewValidationError("ids", "must not repeat")
		}
		seen[id] = true
	}
	return nil
}

// CompareEntities fetches 2..5 active entities of one kind, preserving the
// requested order, and summarizes them: cheapest, most expensive, newest,
// and for games the consoles every one of them runs on.
func CompareEntities(ctx context.Context, input ComparisonInput) (*Comparison, error) {

	if err := input.validate(); err != nil {
		return nil, err
	}

	comparison := Comparison{Kind: input.Kind}

	type priced struct {
		id    int
		price decimal.Decimal
		year  int
	}
	var rows []priced

	switch input.Kind {
	case EntityTypeGame:
		for _, id := range input.Ids {
			game, err := utils.FetchActiveModel[Game](ctx, id, "Image")
			if err != nil {
				return nil, err
			}
			comparison.Games = append(comparison.Games, game)
			rows = append(rows, priced{id: game.ID, price: game.Price, year: game.ReleaseYear})
		}
		common, err := commonConsolesForGames(ctx, input.Ids)
		if err != nil {
			return nil, err
		}
		comparison.Analysis.CommonConsoles = common

	case EntityTypeConsole:
		for _, id := range input.Ids {
			console, err := utils.FetchActiveModel[Console](ctx, id, "Image")
			if err != nil {
				return nil, err
			}
			comparison.Consoles = append(comparison.Consoles, console)
			rows = append(rows, priced{id: console.ID, price: console.Price, year: console.ReleaseYear})
		}

	case EntityTypeAccessory:
		for _, id := range input.Ids {
			accessory, err := utils.FetchActiveModel[Accessory](ctx, id, "Image")
			if err != nil {
				return nil, err
			}
			comparison.Accessories = append(comparison.Accessories, accessory)
			rows = append(rows, priced{id: accessory.ID, price: accessory.Price})
		}
	}

	cheapest, expensive, newest := rows[0], rows[0], rows[0]
	for _, row := range rows[1:] {
		if row.price.Cmp(cheapest.price) < 0 {
			cheapest = row
		}
		if row.price.Cmp(expensive.price) > 0 {
			expensive = row
		}
		if row.year > newest.year {
			newest = row
		}
	}
	comparison.Analysis.CheapestId = cheapest.id
	comparison.Analysis.MostExpensiveId = expensive.id
	if newest.year > 0 {
		comparison.Analysis.NewestId = newest.id
	}

	return &comparison, nil
}

// commonConsolesForGames intersects the compatible console sets of the
// given games.
func commonConsolesForGames(ctx context.Context, gameIds []int) ([]*Console, error) {

	counts := map[int]int{}
	byId := map[int]*Console{}
	var order []int

	for _, gameId := range gameIds {
		consoles, err := CompatibleConsolesForGame(ctx, gameId)
		if err != nil {
			return nil, err
		}
		for _, console := range consoles {
			if counts[console.ID] == 0 {
				byId[console.ID] = console
				order = append(order, console.ID)
			}
			counts[console.ID]++
		}
	}

	var common []*Console
	for _, id := range order {
		if counts[id] == len(gameIds) {
			common = append(common, byId[id])
		}
	}
	return common, nil
}
