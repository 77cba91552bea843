// Package export renders a filtered record view as an xlsx workbook.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"showcase/internal/core"
)

const (
	// SheetName is the worksheet holding the records.
	SheetName = "Records"

	// ContentType is the MIME type of the generated workbook.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var header = []interface{}{"ID", "名前", "カテゴリ", "価値", "ステータス", "作成日"}

// WriteXLSX writes a header row, one row per record in the given order and a
// totals row carrying stats.
func WriteXLSX(w io.Writer, records []core.Record, stats core.Stats) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	yen, err := f.NewStyle(&excelize.Style{CustomNumFmt: ptr(`"¥"#,##0`)})
	if err != nil {
		return fmt.Errorf("value style: %w", err)
	}

	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := f.SetRowStyle(SheetName, 1, 1, bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{r.ID, r.Name, r.Category, r.Value, r.Status.Label(), r.CreatedAt}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	totalsRow := len(records) + 2
	totals := []interface{}{"合計", fmt.Sprintf("%d件", stats.TotalCount), "", stats.TotalValue, fmt.Sprintf("アクティブ %d", stats.ActiveCount), ""}
	cell, err := excelize.CoordinatesToCellName(1, totalsRow)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(SheetName, cell, &totals); err != nil {
		return fmt.Errorf("write totals: %w", err)
	}
	if err := f.SetRowStyle(SheetName, totalsRow, totalsRow, bold); err != nil {
		return fmt.Errorf("style totals: %w", err)
	}

	if err := f.SetCellStyle(SheetName, "D2", fmt.Sprintf("D%d", totalsRow), yen); err != nil {
		return fmt.Errorf("style values: %w", err)
	}
	_ = f.SetColWidth(SheetName, "A", "A", 38)
	_ = f.SetColWidth(SheetName, "B", "C", 20)
	_ = f.SetColWidth(SheetName, "D", "F", 14)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func ptr[T any](v T) *T { return &v }
