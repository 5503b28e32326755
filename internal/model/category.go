package model

type Category string

const (
	CategoryStudy    Category = "study"
	CategoryWork     Category = "work"
	CategorySleep    Category = "sleep"
	CategoryLeisure  Category = "leisure"
	CategoryExercise Category = "exercise"
	CategorySocial   Category = "social"
	CategoryOther    Category = "other"
)

// CategoryAll is the list filter sentinel meaning "every category".
const CategoryAll = "all"

// Categories lists every category in display order.
var Categories = []Category{
	CategoryStudy,
	CategoryWork,
	CategorySleep,
	CategoryLeisure,
	CategoryExercise,
	CategorySocial,
	CategoryOther,
}

var productiveCategories = map[Category]bool{
	CategoryStudy:    true,
	CategoryWork:     true,
	CategoryExercise: true,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Productive reports whether time in c counts toward productive minutes.
// Every category that is not productive is unproductive.
func (c Category) Productive() bool {
	return productiveCategories[c]
}
