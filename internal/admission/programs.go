package admission

// Program is one offering of the school.
type Program struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	AgeRange string `json:"age_range"`
}

// Programs is the fixed catalogue applicants choose from.
var Programs = []Program{
	{Name: "Toddler Transition", Title: "Toddler Transition Program", AgeRange: "1.5 - 2.5y"},
	{Name: "Nursery", Title: "Nursery / Pre-School", AgeRange: "2.5 - 3.5y"},
	{Name: "Kindergarten 1", Title: "Kindergarten (K1)", AgeRange: "3.5 - 4.5y"},
	{Name: "Kindergarten 2", Title: "Kindergarten (K2)", AgeRange: "4.5 - 5.5y"},
}

// KnownProgram reports whether name is in the catalogue.
func KnownProgram(name string) bool {
	for _, p := range Programs {
		if p.Name == name {
			return true
		}
	}
	return false
}
