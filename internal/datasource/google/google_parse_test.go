package google

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"showcase/internal/core"
)

func TestParseRows(t *testing.T) {
	values := [][]interface{}{
		{"ID", "Name", "Category", "Value", "Status", "CreatedAt"},
		{"1", "プロジェクトA", "開発", 125000.0, "active", "2024-01-15"},
		{"2", "プロジェクトB", "マーケティング", "¥85,000", "Active", "2024-02-20"},
		{"", "orphan", "x", 1.0, "active"},
		{"3", "Bad value", "開発", -5.0, "pending"},
		{"4", "Bad status", "開発", 10.0, "archived"},
		{"5", "No date", "サポート", 1.25e6, "inactive"},
		{},
	}

	got, skipped := parseRows(values)
	want := []core.Record{
		{ID: "1", Name: "プロジェクトA", Category: "開発", Value: 125000, Status: core.StatusActive, CreatedAt: "2024-01-15"},
		{ID: "2", Name: "プロジェクトB", Category: "マーケティング", Value: 85000, Status: core.StatusActive, CreatedAt: "2024-02-20"},
		{ID: "5", Name: "No date", Category: "サポート", Value: 1250000, Status: core.StatusInactive},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}
	if skipped != 2 {
		t.Fatalf("expected 2 skipped rows, got %d", skipped)
	}
}

func TestParseRowsWithoutHeader(t *testing.T) {
	got, _ := parseRows([][]interface{}{{"a", "Alpha", "Dev", "10", "pending", "2024-05-01"}})
	if len(got) != 1 || got[0].ID != "a" || got[0].Value != 10 {
		t.Fatalf("unexpected: %+v", got)
	}
}

func TestFindRow(t *testing.T) {
	values := [][]interface{}{{"ID"}, {"a"}, {"b"}}
	if got := findRow(values, "b"); got != 2 {
		t.Fatalf("expected row 2, got %d", got)
	}
	if got := findRow(values, "zzz"); got != -1 {
		t.Fatalf("expected -1, got %d", got)
	}
}
