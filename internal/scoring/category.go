package scoring

// Category is the impact label derived from a total score.
type Category string

const (
	CategoryLow      Category = "Low Impact"
	CategoryModerate Category = "Moderate Impact"
	CategoryHigh     Category = "High Impact"
	CategoryVeryHigh Category = "Very High Impact"
)

// Categories returns all labels from lowest to highest impact.
func Categories() []Category {
	return []Category{CategoryLow, CategoryModerate, CategoryHigh, CategoryVeryHigh}
}

// Classify maps a total score to its category. Upper bounds are inclusive.
func Classify(total int) Category {
	switch {
	case total <= 25:
		return CategoryLow
	case total <= 45:
		return CategoryModerate
	case total <= 70:
		return CategoryHigh
	default:
		return CategoryVeryHigh
	}
}

func (c Category) Valid() bool {
	switch c {
	case CategoryLow, CategoryModerate, CategoryHigh, CategoryVeryHigh:
		return true
	}
	return false
}
