package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func galleryFixture() []Component {
	return []Component{
		{ID: "button", Name: "Button", Description: "Clickable button in several sizes", Category: ComponentForm, Status: ComponentStable},
		{ID: "dialog", Name: "Dialog", Description: "Modal with focus management", Category: ComponentOverlay, Status: ComponentStable},
		{ID: "select", Name: "Select", Description: "Dropdown with search and filtering", Category: ComponentForm, Status: ComponentBeta},
		{ID: "menu", Name: "Menu", Description: "Dropdown menu with submenus", Category: ComponentNavigation, Status: ComponentStable},
	}
}

func componentIDs(cs []Component) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.ID
	}
	return out
}

func TestFilterComponents(t *testing.T) {
	tests := []struct {
		name     string
		search   string
		category string
		want     []string
	}{
		{"everything", "", "all", []string{"button", "dialog", "select", "menu"}},
		{"empty category means all", "", "", []string{"button", "dialog", "select", "menu"}},
		{"matches description", "DROPDOWN", "all", []string{"select", "menu"}},
		{"matches name", "dia", "all", []string{"dialog"}},
		{"category", "", "form", []string{"button", "select"}},
		{"search within category", "dropdown", "navigation", []string{"menu"}},
		{"unknown category", "", "charts", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FilterComponents(galleryFixture(), tt.search, tt.category)
			if err != nil {
				t.Fatalf("filter: %v", err)
			}
			if diff := cmp.Diff(tt.want, componentIDs(got)); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if _, err := FilterComponents(nil, "", "all"); err == nil {
		t.Fatalf("expected error for nil gallery")
	}
}

func TestCountByCategory(t *testing.T) {
	want := map[ComponentCategory]int{ComponentForm: 2, ComponentOverlay: 1, ComponentNavigation: 1}
	if diff := cmp.Diff(want, CountByCategory(galleryFixture())); diff != "" {
		t.Fatalf("counts mismatch (-want +got):\n%s", diff)
	}
}
