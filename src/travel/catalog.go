package travel

import "strings"

// CategoryGeneral is the catch-all category for activities nothing else
// matches.
const CategoryGeneral = "general"

// activityCategories maps category names to the keywords that select them.
// Order matters: the first category with a matching keyword wins, so
// ambiguous words like "park" resolve the same way every time.
var activityCategories = []struct {
	name     string
	keywords []string
}{
	{"adventure", []string{"adventure", "hiking", "trekking", "climbing", "kayak", "rafting", "bike", "biking", "cycling", "outdoor", "jeep", "atv", "quad", "safari"}},
	{"cultural", []string{"museum", "gallery", "art", "exhibition", "cathedral", "church", "basilica", "palace", "royal", "historic", "history", "monument", "heritage", "archaeological"}},
	{"food", []string{"food", "wine", "tapas", "gastronomy", "culinary", "tasting", "dinner", "lunch", "market", "cooking", "cooking class"}},
	{"sport", []string{"stadium", "football", "soccer", "basketball", "tennis", "arena", "olympic"}},
	{"relax", []string{"spa", "wellness", "relax", "thermal", "bath", "cruise", "boat", "river", "panoramic", "sunset"}},
	{"nature", []string{"nature", "park", "garden", "botanical", "scenic", "landscape", "mountain", "lake"}},
	{"nightlife", []string{"night", "nightlife", "bar", "pub", "club", "show", "concert", "music", "live"}},
	{"family", []string{"family", "kids", "children", "zoo", "aquarium", "theme park", "park"}},
}

// BudgetLevels are the accepted budget_level values, cheapest first.
var BudgetLevels = []string{"low", "medium", "high"}

// budgetHotelRatings maps a budget level to the Amadeus star-rating filter.
var budgetHotelRatings = map[string]string{
	"low":    "1,2",
	"medium": "3,4",
	"high":   "5",
}

// Categories returns every category name in match order, ending with the
// general catch-all.
func Categories() []string {
	names := make([]string, 0, len(activityCategories)+1)
	for _, c := range activityCategories {
		names = append(names, c.name)
	}
	return append(names, CategoryGeneral)
}

// IsCategory reports whether s names a known activity category.
func IsCategory(s string) bool {
	if s == CategoryGeneral {
		return true
	}
	for _, c := range activityCategories {
		if c.name == s {
			return true
		}
	}
	return false
}

// IsBudgetLevel reports whether s is a valid budget_level value.
func IsBudgetLevel(s string) bool {
	for _, level := range BudgetLevels {
		if level == s {
			return true
		}
	}
	return false
}

// HotelRatingsForBudget returns the star-rating filter for a budget level,
// or "" for unknown levels (no filtering).
func HotelRatingsForBudget(level string) string {
	return budgetHotelRatings[strings.ToLower(strings.TrimSpace(level))]
}

// CategorizeText finds the first category whose keyword appears in the
// text, or "" when nothing matches.
func CategorizeText(text string) string {
	lowered := strings.ToLower(text)
	for _, c := range activityCategories {
		for _, keyword := range c.keywords {
			if strings.Contains(lowered, keyword) {
				return c.name
			}
		}
	}
	return ""
}

// CategorizeActivity classifies an activity by its name and description,
// defaulting to general.
func CategorizeActivity(name, description string) string {
	if category := CategorizeText(name + " " + description); category != "" {
		return category
	}
	return CategoryGeneral
}
