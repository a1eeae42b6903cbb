package models

import (
	"context"
	"strings"

	"github.com/gamedex/catalog_backend/utils"
)

type SearchInput struct {
	Q     string   `form:"q"`
	Kinds []string `form:"kind"`
}

// SearchResults groups matches per kind so one query answers "where does
// this string appear anywhere in the catalog".
type SearchResults struct {
	Query          string       `json:"query"`
	Games          []*Game      `json:"games"`
	GameTotal      int64        `json:"game_total"`
	Consoles       []*Console   `json:"consoles"`
	ConsoleTotal   int64        `json:"console_total"`
	Accessories    []*Accessory `json:"accessories"`
	AccessoryTotal int64        `json:"accessory_total"`
}

func (input SearchInput) wantsKind(kind string) bool {
	if len(input.Kinds) == 0 {
		return true
	}
	for _, k := range input.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// SearchCatalog runs a case-insensitive substring search per kind. Each
// kind matches only its own searchable fields: games on title, genre,
// developer and description; consoles on name, manufacturer and specs;
// accessories on name, type and description. Inactive rows never match.
func SearchCatalog(ctx context.Context, input SearchInput, p Pagination) (*SearchResults, error) {

	q := strings.TrimSpace(input.Q)
	if q == "" {
		return nil, utils.NewValidationError("q", "is required")
	}
	for _, k := range input.Kinds {
		if !IsKnownEntityType(k) {
			return nil, utils.NewValidationError("kind", "is unknown")
		}
	}

	results := SearchResults{
		Query:       q,
		Games:       []*Game{},
		Consoles:    []*Console{},
		Accessories: []*Accessory{},
	}

	if input.wantsKind(EntityTypeGame) {
		games, total, err := GetGames(ctx, GameFilter{Q: q}, p)
		if err != nil {
			return nil, err
		}
		results.Games = games
		results.GameTotal = total
	}
	if input.wantsKind(EntityTypeConsole) {
		consoles, total, err := GetConsoles(ctx, ConsoleFilter{Q: q}, p)
		if err != nil {
			return nil, err
		}
		results.Consoles = consoles
		results.ConsoleTotal = total
	}
	if input.wantsKind(EntityTypeAccessory) {
		accessories, total, err := GetAccessories(ctx, AccessoryFilter{Q: q}, p)
		if err != nil {
			return nil, err
		}
		results.Accessories = accessories
		results.AccessoryTotal = total
	}

	return &results, nil
}
