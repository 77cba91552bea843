package gallery

import (
	"testing"

	"showcase/internal/core"
)

func TestComponents(t *testing.T) {
	got := Components()
	if len(got) != 8 {
		t.Fatalf("expected 8 components, got %d", len(got))
	}
	seen := map[string]bool{}
	for _, c := range got {
		if seen[c.ID] {
			t.Errorf("duplicate id %s", c.ID)
		}
		seen[c.ID] = true
	}

	got[0].Name = "changed"
	if Components()[0].Name == "changed" {
		t.Error("Components must return a copy")
	}
}

func TestLookup(t *testing.T) {
	d, ok := Lookup("button")
	if !ok || d.Name != "Button" || len(d.Props) != 3 || len(d.Examples) != 3 {
		t.Fatalf("unexpected button detail %+v", d)
	}

	d, ok = Lookup("input")
	if !ok || d.Name != "Input" || len(d.Props) != 4 || len(d.Examples) != 2 {
		t.Fatalf("unexpected input detail %+v", d)
	}

	for _, id := range []string{"menu", "dialog", "tabs"} {
		if _, ok := Lookup(id); ok {
			t.Errorf("%s has no written content and must not resolve", id)
		}
	}

	if _, ok := Lookup("carousel"); ok {
		t.Fatal("unknown id must not resolve")
	}
}

func TestCategoryOptions(t *testing.T) {
	opts := CategoryOptions(Components())
	want := map[string]int{"all": 8, "form": 3, "layout": 1, "feedback": 1, "navigation": 2, "overlay": 1}
	if len(opts) != len(want) {
		t.Fatalf("expected %d options, got %d", len(want), len(opts))
	}
	if opts[0].Value != core.SentinelAll || opts[0].Label != "すべて" {
		t.Errorf("first option should be all, got %+v", opts[0])
	}
	for _, o := range opts {
		if want[o.Value] != o.Count {
			t.Errorf("%s count = %d, want %d", o.Value, o.Count, want[o.Value])
		}
	}
}

func TestFilterCatalog(t *testing.T) {
	got, err := core.FilterComponents(Components(), "ダイアログ", core.SentinelAll)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected dialog and alert-dialog, got %d", len(got))
	}

	got, _ = core.FilterComponents(Components(), "DIALOG", string(core.ComponentFeedback))
	if len(got) != 1 || got[0].ID != "alert-dialog" {
		t.Fatalf("unexpected result %+v", got)
	}
}
