package core

const (
	ComponentForm       ComponentCategory = "form"
	ComponentLayout     ComponentCategory = "layout"
	ComponentFeedback   ComponentCategory = "feedback"
	ComponentNavigation ComponentCategory = "navigation"
	ComponentOverlay    ComponentCategory = "overlay"

	ComponentStable       ComponentStatus = "stable"
	ComponentBeta         ComponentStatus = "beta"
	ComponentExperimental ComponentStatus = "experimental"
)

type (
	ComponentCategory string
	ComponentStatus   string

	// Component is one entry of the UI component gallery.
	Component struct {
		ID          string
		Name        string
		Description string
		Category    ComponentCategory
		Status      ComponentStatus
		Features    []string
	}
)

// ComponentCategories returns the gallery categories in display order.
func ComponentCategories() []ComponentCategory {
	return []ComponentCategory{
		ComponentForm,
		ComponentLayout,
		ComponentFeedback,
		ComponentNavigation,
		ComponentOverlay,
	}
}

// FilterComponents narrows the gallery. The search term matches name or
// description case-insensitively; category is exact or SentinelAll.
func FilterComponents(components []Component, search, category string) ([]Component, error) {
	if components == nil {
		return nil, ErrInvalidArgument
	}
	if category == "" {
		category = SentinelAll
	}
	match := newAnyMatcher(search)

	out := make([]Component, 0, len(components))
	for _, c := range components {
		if category != SentinelAll && string(c.Category) != category {
			continue
		}
		if !match(c.Name, c.Description) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// CountByCategory returns how many components fall in each category.
func CountByCategory(components []Component) map[ComponentCategory]int {
	counts := make(map[ComponentCategory]int)
	for _, c := range components {
		counts[c.Category]++
	}
	return counts
}
