// internal/catalog/builder.go
package catalog

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

var viewSlugRe = regexp.MustCompile(`/view/([^/]+)/?$`)

// NameFromURL extracts a clean assessment name from a product page URL.
func NameFromURL(url string) string {
	match := viewSlugRe.FindStringSubmatch(url)
	if match == nil {
		return "Unknown Assessment"
	}
	name := match[1]
	// Undo URL encoding, including the double-encoded form.
	name = strings.ReplaceAll(name, "%2528", "(")
	name = strings.ReplaceAll(name, "%2529", ")")
	name = strings.ReplaceAll(name, "%28", "(")
	name = strings.ReplaceAll(name, "%29", ")")
	name = strings.ReplaceAll(name, "-", " ")
	return titleCase(name)
}

// titleCase uppercases every letter that follows a non-letter, so
// parenthesized and hyphen-joined words each start capitalized.
func titleCase(s string) string {
	r := []rune(strings.ToLower(s))
	prevLetter := false
	for i, c := range r {
		if unicode.IsLetter(c) {
			if !prevLetter {
				r[i] = unicode.ToUpper(c)
			}
			prevLetter = true
		} else {
			prevLetter = false
		}
	}
	return string(r)
}

var (
	knowledgeKeywords = []string{
		"java", "python", "sql", "javascript", "js", "programming", "coding",
		"excel", "technical", "development", "ado.net", "ssas", "ssis",
		"drupal", "automation", "selenium",
	}
	personalityKeywords = []string{
		"personality", "opq", "communication", "leadership", "interpersonal",
		"behavior", "emotional", "motivation", "culture",
	}
	abilityKeywords = []string{
		"cognitive", "numerical", "verbal", "reasoning", "aptitude", "verify",
		"logical", "abstract", "general ability",
	}
)

// ClassifyType maps an assessment name to a test type code. Order matters:
// technical markers win over personality, personality over cognitive.
func ClassifyType(name string) TestType {
	nameLower := strings.ToLower(name)

	if containsAny(nameLower, knowledgeKeywords) {
		return TypeKnowledge
	}
	if containsAny(nameLower, personalityKeywords) {
		return TypePersonality
	}
	if containsAny(nameLower, abilityKeywords) {
		return TypeAbility
	}
	if strings.Contains(nameLower, "sales") {
		return TypeBiodata
	}
	return TypeKnowledge
}

// EstimateDuration estimates typical test duration in minutes from the name.
func EstimateDuration(name string) int {
	nameLower := strings.ToLower(name)

	switch {
	case containsAny(nameLower, []string{"entry", "sift", "screen", "short"}):
		return 20
	case containsAny(nameLower, []string{"advanced", "comprehensive", "long"}):
		return 60
	case containsAny(nameLower, []string{"adaptive", "intermediate"}):
		return 40
	case containsAny(nameLower, []string{"java", "python", "sql", "programming"}):
		return 35
	case containsAny(nameLower, []string{"personality", "opq", "behavior"}):
		return 35
	default:
		return 30
	}
}

// skillMap is ordered so the joined output is deterministic.
var skillMap = []struct {
	keyword string
	skill   string
}{
	{"java", "Java"},
	{"python", "Python"},
	{"sql", "SQL"},
	{"javascript", "JavaScript"},
	{"js", "JavaScript"},
	{"excel", "Excel"},
	{"c++", "C++"},
	{".net", ".NET"},
	{"ado.net", "ADO.NET"},
	{"drupal", "Drupal"},
	{"selenium", "Selenium"},
}

// ExtractSkills derives a comma-separated skill list from the name.
func ExtractSkills(name string) string {
	nameLower := strings.ToLower(name)
	var skills []string
	seen := make(map[string]bool)

	for _, entry := range skillMap {
		if strings.Contains(nameLower, entry.keyword) && !seen[entry.skill] {
			skills = append(skills, entry.skill)
			seen[entry.skill] = true
		}
	}

	if strings.Contains(nameLower, "communication") {
		skills = append(skills, "Communication")
	}
	if strings.Contains(nameLower, "leadership") {
		skills = append(skills, "Leadership")
	}
	if strings.Contains(nameLower, "interpersonal") {
		skills = append(skills, "Interpersonal Skills")
	}
	if strings.Contains(nameLower, "sales") {
		skills = append(skills, "Sales")
	}
	if strings.Contains(nameLower, "account") {
		skills = append(skills, "Accounting")
	}
	if strings.Contains(nameLower, "english") {
		skills = append(skills, "English")
	}
	if strings.Contains(nameLower, "data") && strings.Contains(nameLower, "entry") {
		skills = append(skills, "Data Entry")
	}

	if len(skills) == 0 {
		return "General Skills"
	}
	return strings.Join(skills, ", ")
}

// Describe generates a short description for a classified assessment.
func Describe(name string, testType TestType) string {
	switch testType {
	case TypeKnowledge:
		return fmt.Sprintf("Technical skills assessment measuring knowledge and proficiency in %s", name)
	case TypePersonality:
		return fmt.Sprintf("Personality and behavioral assessment evaluating traits for %s", name)
	case TypeAbility:
		return fmt.Sprintf("Cognitive ability test measuring reasoning and problem-solving for %s", name)
	case TypeBiodata:
		return fmt.Sprintf("Situational judgment test assessing decision-making for %s", name)
	default:
		return fmt.Sprintf("Assessment for %s", name)
	}
}

// Enrich builds a full assessment record from a catalog URL.
func Enrich(id int, url string) Assessment {
	name := NameFromURL(url)
	testType := ClassifyType(name)

	return Assessment{
		ID:           id,
		Name:         name,
		URL:          url,
		TestType:     testType,
		DurationMins: EstimateDuration(name),
		Skills:       ExtractSkills(name),
		Description:  Describe(name, testType),
	}
}

// BuildCatalog enriches a list of unique assessment URLs, preserving order.
func BuildCatalog(urls []string) []Assessment {
	assessments := make([]Assessment, 0, len(urls))
	seen := make(map[string]bool)
	id := 1
	for _, url := range urls {
		if url == "" || seen[url] {
			continue
		}
		seen[url] = true
		assessments = append(assessments, Enrich(id, url))
		id++
	}
	return assessments
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
