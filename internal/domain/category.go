package domain

import "strings"

// Category names a content category of the snapshot store.
type Category string

const (
	CategoryAll       Category = "All"
	CategoryMemes     Category = "memes"
	CategoryNews      Category = "news"
	CategoryPolitics  Category = "politics"
	CategoryEconomics Category = "economics"
	CategorySports    Category = "sports"

	// CategoryTrends is auxiliary: it feeds top topics but is never requested on its own.
	CategoryTrends Category = "trends"
)

// ConcreteCategories are the categories merged when All is requested, in merge order.
var ConcreteCategories = []Category{
	CategoryMemes,
	CategoryNews,
	CategoryPolitics,
	CategoryEconomics,
	CategorySports,
}

// ParseCategory resolves a requested category name. Empty means All.
func ParseCategory(name string) (Category, error) {
	if name == "" || strings.EqualFold(name, string(CategoryAll)) {
		return CategoryAll, nil
	}
	for _, c := range ConcreteCategories {
		if strings.EqualFold(name, string(c)) {
			return c, nil
		}
	}
	return "", ErrUnknownCategory
}

// Dir is the snapshot store directory holding this category.
func (c Category) Dir() string {
	if c == CategoryTrends {
		return "google-trends"
	}
	return string(c)
}

// IsHeadlineShaped reports whether records of this category need headline-to-item mapping.
func (c Category) IsHeadlineShaped() bool {
	return c == CategoryPolitics || c == CategoryEconomics
}

// Label is the human form used in mood summaries.
func (c Category) Label() string {
	if c == CategoryAll {
		return "all categories"
	}
	return string(c)
}
