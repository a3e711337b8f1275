package enums

import "strings"

// Category is the fixed set of photo categories shown in the gallery filter.
type Category string

const (
	CategoryPookalam     Category = "pookalam"
	CategoryAttire       Category = "attire"
	CategoryPerformances Category = "performances"
	CategorySadhya       Category = "sadhya"
	CategoryCandid       Category = "candid"
)

func Categories() []Category {
	return []Category{
		CategoryPookalam,
		CategoryAttire,
		CategoryPerformances,
		CategorySadhya,
		CategoryCandid,
	}
}

func ParseCategory(raw string) (Category, bool) {
	value := Category(strings.ToLower(strings.TrimSpace(raw)))
	for _, c := range Categories() {
		if c == value {
			return c, true
		}
	}
	return "", false
}
