package export

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"

	"showcase/internal/core"
)

func TestWriteXLSX(t *testing.T) {
	records := []core.Record{
		{ID: "1", Name: "プロジェクトA", Category: "開発", Value: 125000, Status: core.StatusActive, CreatedAt: "2024-01-15"},
		{ID: "3", Name: "プロジェクトC", Category: "開発", Value: 95000, Status: core.StatusPending, CreatedAt: "2024-02-01"},
	}
	stats := core.Aggregate(records)

	var buf bytes.Buffer
	if err := WriteXLSX(&buf, records, stats); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer func() { _ = f.Close() }()

	if got := f.GetSheetList(); !cmp.Equal(got, []string{SheetName}) {
		t.Fatalf("sheets = %v", got)
	}
	rows, err := f.GetRows(SheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		t.Fatal(err)
	}
	want := [][]string{
		{"ID", "名前", "カテゴリ", "価値", "ステータス", "作成日"},
		{"1", "プロジェクトA", "開発", "125000", "アクティブ", "2024-01-15"},
		{"3", "プロジェクトC", "開発", "95000", "保留中", "2024-02-01"},
		{"合計", "2件", "", "220000", "アクティブ 1"},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteXLSX_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, []core.Record{}, core.Stats{}); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = f.Close() }()
	rows, _ := f.GetRows(SheetName)
	if len(rows) != 2 {
		t.Fatalf("expected header and totals rows, got %d", len(rows))
	}
}
