package core

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func projects() []Record {
	return []Record{
		{ID: "1", Name: "Project A", Category: "Dev", Value: 125000, Status: StatusActive, CreatedAt: "2024-01-15"},
		{ID: "2", Name: "Project B", Category: "Marketing", Value: 85000, Status: StatusPending, CreatedAt: "2024-02-20"},
	}
}

func sampleRecords() []Record {
	return []Record{
		{ID: "1", Name: "プロジェクトA", Category: "開発", Value: 125000, Status: StatusActive, CreatedAt: "2024-01-15"},
		{ID: "2", Name: "プロジェクトB", Category: "マーケティング", Value: 85000, Status: StatusActive, CreatedAt: "2024-02-20"},
		{ID: "3", Name: "Build Pipeline", Category: "開発", Value: 200000, Status: StatusPending, CreatedAt: "2024-03-10"},
		{ID: "4", Name: "Support Desk", Category: "サポート", Value: 45000, Status: StatusInactive, CreatedAt: "2024-01-05"},
		{ID: "5", Name: "build cache", Category: "開発", Value: 175000, Status: StatusActive, CreatedAt: "2024-03-25"},
	}
}

func ids(rs []Record) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.ID
	}
	return out
}

func TestFilterScenarios(t *testing.T) {
	records := projects()

	got, err := Filter(records, Criteria{SearchTerm: "project a", Category: "all", Status: "all"})
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if diff := cmp.Diff(records[:1], got); diff != "" {
		t.Fatalf("search result mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Stats{TotalCount: 1, TotalValue: 125000, ActiveCount: 1}, Aggregate(got)); diff != "" {
		t.Fatalf("stats mismatch (-want +got):\n%s", diff)
	}

	got, err = Filter(records, Criteria{SearchTerm: "", Category: "Dev", Status: "all"})
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if diff := cmp.Diff([]string{"1"}, ids(got)); diff != "" {
		t.Fatalf("category result mismatch (-want +got):\n%s", diff)
	}

	cats, err := DistinctCategories(records)
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	if diff := cmp.Diff(map[string]struct{}{"Dev": {}, "Marketing": {}}, cats); diff != "" {
		t.Fatalf("categories mismatch (-want +got):\n%s", diff)
	}

	got, err = Filter(records, Criteria{SearchTerm: "zzz", Category: "all", Status: "all"})
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil result, got %#v", got)
	}
	if s := Aggregate(got); s != (Stats{}) {
		t.Fatalf("expected zero stats, got %+v", s)
	}
}

func TestFilterCriteria(t *testing.T) {
	tests := []struct {
		name string
		c    Criteria
		want []string
	}{
		{"no constraint", AllCriteria(), []string{"1", "2", "3", "4", "5"}},
		{"zero criteria", Criteria{}, []string{"1", "2", "3", "4", "5"}},
		{"search case-insensitive", Criteria{SearchTerm: "BUILD"}, []string{"3", "5"}},
		{"search substring", Criteria{SearchTerm: "desk"}, []string{"4"}},
		{"search japanese", Criteria{SearchTerm: "プロジェクト"}, []string{"1", "2"}},
		{"category exact", Criteria{Category: "開発"}, []string{"1", "3", "5"}},
		{"status", Criteria{Status: "active"}, []string{"1", "2", "5"}},
		{"all constraints", Criteria{SearchTerm: "build", Category: "開発", Status: "active"}, []string{"5"}},
		{"unknown category", Criteria{Category: "Finance"}, []string{}},
		{"unknown status", Criteria{Status: "archived"}, []string{}},
		{"status is case-sensitive", Criteria{Status: "Active"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Filter(sampleRecords(), tt.c)
			if err != nil {
				t.Fatalf("filter: %v", err)
			}
			if diff := cmp.Diff(tt.want, ids(got)); diff != "" {
				t.Errorf("ids mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCriteriaIsZero(t *testing.T) {
	tests := []struct {
		name string
		c    Criteria
		want bool
	}{
		{"zero value", Criteria{}, true},
		{"explicit all", AllCriteria(), true},
		{"search", Criteria{SearchTerm: "a"}, false},
		{"whitespace search", Criteria{SearchTerm: " "}, false},
		{"category", Criteria{Category: "開発"}, false},
		{"status", Criteria{Status: "active"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.IsZero(); got != tt.want {
				t.Errorf("IsZero() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterCategoryIsCaseSensitive(t *testing.T) {
	got, err := Filter(projects(), Criteria{Category: "dev"})
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no match for lower-case category, got %v", ids(got))
	}
}

func TestFilterLaws(t *testing.T) {
	records := sampleRecords()
	byID := make(map[string]Record, len(records))
	for _, r := range records {
		byID[r.ID] = r
	}

	criteria := []Criteria{
		AllCriteria(),
		{SearchTerm: "b"},
		{SearchTerm: "project", Status: "pending"},
		{Category: "開発", Status: "inactive"},
		{SearchTerm: "nothing here"},
	}
	for _, c := range criteria {
		got, err := Filter(records, c)
		if err != nil {
			t.Fatalf("filter %+v: %v", c, err)
		}
		// Subset of the input, input order preserved.
		last := -1
		for _, r := range got {
			if diff := cmp.Diff(byID[r.ID], r); diff != "" {
				t.Fatalf("result record differs from input (-in +out):\n%s", diff)
			}
			idx := indexOf(records, r.ID)
			if idx <= last {
				t.Fatalf("order not preserved for %+v: %v", c, ids(got))
			}
			last = idx
		}
		if s := Aggregate(got); s.TotalCount != len(got) {
			t.Fatalf("TotalCount %d != len %d", s.TotalCount, len(got))
		}
	}

	all, _ := Filter(records, Criteria{SearchTerm: "", Category: "all", Status: "all"})
	if diff := cmp.Diff(records, all); diff != "" {
		t.Fatalf("identity criteria changed the list (-want +got):\n%s", diff)
	}
}

func TestFilterCaseVariantsAgree(t *testing.T) {
	records := sampleRecords()
	canonical, _ := Filter(records, Criteria{SearchTerm: "build"})
	for _, term := range []string{"BUILD", "Build", "bUiLd"} {
		got, _ := Filter(records, Criteria{SearchTerm: term})
		if diff := cmp.Diff(ids(canonical), ids(got)); diff != "" {
			t.Errorf("term %q mismatch (-want +got):\n%s", term, diff)
		}
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	records := sampleRecords()
	before := sampleRecords()

	got, _ := Filter(records, Criteria{Status: "active"})
	if len(got) > 0 {
		got[0].Name = "changed"
	}
	if diff := cmp.Diff(before, records); diff != "" {
		t.Fatalf("input mutated (-want +got):\n%s", diff)
	}
}

func TestFilterIsDeterministic(t *testing.T) {
	c := Criteria{SearchTerm: "b", Status: "active"}
	first, _ := Filter(sampleRecords(), c)
	second, _ := Filter(sampleRecords(), c)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("repeated calls differ (-first +second):\n%s", diff)
	}
}

func TestNilRecordsFailFast(t *testing.T) {
	if _, err := Filter(nil, AllCriteria()); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if _, err := DistinctCategories(nil); !errors.Is(err, ErrNilRecords) {
		t.Fatalf("expected ErrNilRecords, got %v", err)
	}

	got, err := Filter([]Record{}, AllCriteria())
	if err != nil || got == nil || len(got) != 0 {
		t.Fatalf("empty input: got %#v err=%v", got, err)
	}
}

func TestAggregate(t *testing.T) {
	if s := Aggregate(nil); s != (Stats{}) {
		t.Fatalf("nil aggregate: %+v", s)
	}
	want := Stats{TotalCount: 5, TotalValue: 630000, ActiveCount: 3}
	if diff := cmp.Diff(want, Aggregate(sampleRecords())); diff != "" {
		t.Fatalf("stats mismatch (-want +got):\n%s", diff)
	}
}

func TestDistinctCategoriesFollowData(t *testing.T) {
	records := sampleRecords()
	set, _ := DistinctCategories(records)
	if diff := cmp.Diff([]string{"サポート", "マーケティング", "開発"}, SortedCategories(set)); diff != "" {
		t.Fatalf("categories mismatch (-want +got):\n%s", diff)
	}

	// Dropping the only support record removes its category.
	trimmed := append([]Record(nil), records[:3]...)
	trimmed = append(trimmed, records[4])
	set, _ = DistinctCategories(trimmed)
	if _, ok := set["サポート"]; ok {
		t.Fatalf("stale category survived deletion: %v", SortedCategories(set))
	}

	empty, _ := DistinctCategories([]Record{})
	if len(empty) != 0 {
		t.Fatalf("expected empty set, got %v", empty)
	}
}

func indexOf(rs []Record, id string) int {
	for i, r := range rs {
		if r.ID == id {
			return i
		}
	}
	return -1
}
