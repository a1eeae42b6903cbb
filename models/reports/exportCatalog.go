package reports

import (
	"context"
	"fmt"

	"github.com/gamedex/catalog_backend/models"
	"github.com/xuri/excelize/v2"
)

const exportPageSize = 100

// collectAll pages through a list function until it runs dry, so the
// export never truncates at the list cap.
func collectAll[T any](fetch func(models.Pagination) ([]T, error)) ([]T, error) {
	var all []T
	p := models.Pagination{Page: 1, PerPage: exportPageSize}
	for {
		page, err := fetch(p)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < exportPageSize {
			return all, nil
		}
		p.Page++
	}
}

// ExportCatalogExcel builds a workbook with one sheet per entity kind,
// active rows only. The caller streams it to the response.
func ExportCatalogExcel(ctx context.Context) (*excelize.File, error) {

	f := excelize.NewFile()

	games, err := collectAll(func(p models.Pagination) ([]*models.Game, error) {
		page, _, err := models.GetGames(ctx, models.GameFilter{}, p)
		return page, err
	})
	if err != nil {
		return nil, err
	}
	consoles, err := collectAll(func(p models.Pagination) ([]*models.Console, error) {
		page, _, err := models.GetConsoles(ctx, models.ConsoleFilter{}, p)
		return page, err
	})
	if err != nil {
		return nil, err
	}
	accessories, err := collectAll(func(p models.Pagination) ([]*models.Accessory, error) {
		page, _, err := models.GetAccessories(ctx, models.AccessoryFilter{}, p)
		return page, err
	})
	if err != nil {
		return nil, err
	}

	gameSheet := "Games"
	f.SetSheetName("Sheet1", gameSheet)
	f.SetCellValue(gameSheet, "A1", "ID")
	f.SetCellValue(gameSheet, "B1", "Title")
	f.SetCellValue(gameSheet, "C1", "Developer")
	f.SetCellValue(gameSheet, "D1", "Genre")
	f.SetCellValue(gameSheet, "E1", "ReleaseYear")
	f.SetCellValue(gameSheet, "F1", "Price")
	for i, g := range games {
		row := fmt.Sprint(i + 2)
		f.SetCellValue(gameSheet, "A"+row, g.ID)
		f.SetCellValue(gameSheet, "B"+row, g.Title)
		f.SetCellValue(gameSheet, "C"+row, g.Developer)
		f.SetCellValue(gameSheet, "D"+row, g.Genre)
		f.SetCellValue(gameSheet, "E"+row, g.ReleaseYear)
		f.SetCellValue(gameSheet, "F"+row, g.Price.InexactFloat64())
	}

	consoleSheet := "Consoles"
	if _, err := f.NewSheet(consoleSheet); err != nil {
		return nil, err
	}
	f.SetCellValue(consoleSheet, "A1", "ID")
	f.SetCellValue(consoleSheet, "B1", "Name")
	f.SetCellValue(consoleSheet, "C1", "Manufacturer")
	f.SetCellValue(consoleSheet, "D1", "ReleaseYear")
	f.SetCellValue(consoleSheet, "E1", "Price")
	for i, c := range consoles {
		row := fmt.Sprint(i + 2)
		f.SetCellValue(consoleSheet, "A"+row, c.ID)
		f.SetCellValue(consoleSheet, "B"+row, c.Name)
		f.SetCellValue(consoleSheet, "C"+row, c.Manufacturer)
		f.SetCellValue(consoleSheet, "D"+row, c.ReleaseYear)
		f.SetCellValue(consoleSheet, "E"+row, c.Price.InexactFloat64())
	}

	accessorySheet := "Accessories"
	if _, err := f.NewSheet(accessorySheet); err != nil {
		return nil, err
	}
	f.SetCellValue(accessorySheet, "A1", "ID")
	f.SetCellValue(accessorySheet, "B1", "Name")
	f.SetCellValue(accessorySheet, "C1", "Type")
	f.SetCellValue(accessorySheet, "D1", "Price")
	for i, a := range accessories {
		row := fmt.Sprint(i + 2)
		f.SetCellValue(accessorySheet, "A"+row, a.ID)
		f.SetCellValue(accessorySheet, "B"+row, a.Name)
		f.SetCellValue(accessorySheet, "C"+row, a.Type)
		f.SetCellValue(accessorySheet, "D"+row, a.Price.InexactFloat64())
	}

	return f, nil
}
