// internal/catalog/assessment.go
package catalog

// TestType is the single-letter assessment category code.
type TestType string

const (
	TypeKnowledge   TestType = "K" // Knowledge & Skills (technical tests)
	TypePersonality TestType = "P" // Personality & Behavior
	TypeAbility     TestType = "A" // Ability & Aptitude (cognitive)
	TypeBiodata     TestType = "B" // Biodata & SJT (situational judgment)
)

var typeLabels = map[TestType]string{
	TypeKnowledge:   "Knowledge & Skills",
	TypePersonality: "Personality & Behavior",
	TypeAbility:     "Ability & Aptitude",
	TypeBiodata:     "Biodata & SJT",
}

// Label returns the display name for a type code. Unknown codes are
// returned verbatim.
func (t TestType) Label() string {
	if label, ok := typeLabels[t]; ok {
		return label
	}
	return string(t)
}

// Assessment is one recommendable item in the catalog.
type Assessment struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	URL          string   `json:"url"`
	TestType     TestType `json:"test_type"`
	DurationMins int      `json:"duration_mins"`
	Skills       string   `json:"skills"`
	Description  string   `json:"description"`
}

// SearchText builds the text used for embedding. Name and skills are
// repeated to weight them above the description.
func (a Assessment) SearchText() string {
	return a.Name + " " + a.Name + " " + a.Skills + " " + a.Skills + " " +
		a.Description + " test type " + string(a.TestType)
}
