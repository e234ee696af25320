// Package export writes the aggregated neighbourhood table as an xlsx workbook.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/FACorreiaa/go-rental-dashboard/internal/types"
)

// ContentType is the MIME type of xlsx workbooks.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// SheetName is the name of the single sheet of the workbook.
const SheetName = "Quartiers"

// Headers are the column titles of the workbook, in column order.
var Headers = []string{"neighbourhood", "count", "avg_price", "entire_count", "entire_share"}

// WriteNeighbourhoodWorkbook writes one row per neighbourhood. A missing average price
// leaves its cell empty.
func WriteNeighbourhoodWorkbook(w io.Writer, stats []types.NeighbourhoodStat) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]any, len(Headers))
	for i, h := range Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := f.SetColWidth(SheetName, "A", "A", 28); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}

	for i, s := range stats {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		var avg any
		if s.AvgPrice != nil {
			avg = *s.AvgPrice
		}
		row := []any{s.Neighbourhood, s.Count, avg, s.EntireCount, s.EntireShare}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
