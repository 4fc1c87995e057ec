package filter

// Category selects which record field a criterion applies to
type Category string

const (
	CategoryAge            Category = "Age"
	CategoryCountry        Category = "Country"
	CategoryNoteworthiness Category = "Noteworthiness"
	CategorySite           Category = "Site"
)

// Criterion is a single user restriction. Value is a period name for Age
// and a free-text fragment for the other categories.
type Criterion struct {
	Category Category `json:"category"`
	Value    string   `json:"value"`
}

// Known reports whether c is one of the four filterable categories
func (c Category) Known() bool {
	switch c {
	case CategoryAge, CategoryCountry, CategoryNoteworthiness, CategorySite:
		return true
	}
	return false
}

// Age is shorthand for an Age criterion on period p
func Age(p Period) Criterion {
	return Criterion{Category: CategoryAge, Value: p.String()}
}

// Country is shorthand for a Country criterion
func Country(fragment string) Criterion {
	return Criterion{Category: CategoryCountry, Value: fragment}
}

// Noteworthiness is shorthand for a Noteworthiness criterion
func Noteworthiness(fragment string) Criterion {
	return Criterion{Category: CategoryNoteworthiness, Value: fragment}
}

// Site is shorthand for a Site criterion
func Site(fragment string) Criterion {
	return Criterion{Category: CategorySite, Value: fragment}
}
