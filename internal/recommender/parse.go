// internal/recommender/parse.go
package recommender

import (
	"regexp"
	"strconv"
	"strings"
)

// Requirements is what a hiring query asks for, extracted with simple
// keyword and pattern matching before any semantic scoring happens.
type Requirements struct {
	// MaxDurationMins is 0 when the query carries no time limit.
	MaxDurationMins int
	NeedsTech       bool
	NeedsSoft       bool
	NeedsCognitive  bool
	NeedsBalanced   bool
	IsEntryLevel    bool
}

type durationPattern struct {
	re         *regexp.Regexp
	multiplier int
}

// Ordered: the first pattern that matches wins, so the range form
// ("30-40 mins") takes the lower bound before the bare forms get a chance.
var durationPatterns = []durationPattern{
	{regexp.MustCompile(`(\d+)\s*-?\s*(\d+)?\s*(min|minute)s?`), 1},
	{regexp.MustCompile(`(\d+)\s*-?\s*(\d+)?\s*(hour|hr)s?`), 60},
	{regexp.MustCompile(`under\s+(\d+)\s*(min|minute)s?`), 1},
	{regexp.MustCompile(`under\s+(\d+)\s*(hour|hr)s?`), 60},
	{regexp.MustCompile(`maximum\s+(\d+)\s*(min|minute)s?`), 1},
	{regexp.MustCompile(`maximum\s+(\d+)\s*(hour|hr)s?`), 60},
	{regexp.MustCompile(`max\s+(\d+)\s*(min|minute)s?`), 1},
	{regexp.MustCompile(`max\s+(\d+)\s*(hour|hr)s?`), 60},
	{regexp.MustCompile(`(\d+)\s*min`), 1},
	{regexp.MustCompile(`(\d+)\s*hour`), 60},
}

var techKeywords = []string{
	"java", "python", "sql", "javascript", "js", "programming",
	"coding", "technical", "excel", "development", "engineer",
	"developer", "software", "data analyst", "analyst", "sales",
}

var softKeywords = []string{
	"communication", "personality", "leadership", "behavior",
	"cultural", "collaborate", "interpersonal", "emotional",
	"team", "social", "motivat", "cultural fit",
}

var cognitiveKeywords = []string{
	"cognitive", "aptitude", "reasoning", "numerical",
	"verbal", "analytical", "problem solving", "logic",
}

var entryKeywords = []string{
	"new graduate", "graduate", "entry", "fresher", "junior",
}

// ParseQuery extracts the structured requirements from a free-text query.
func ParseQuery(query string) Requirements {
	lower := strings.ToLower(query)

	reqs := Requirements{
		MaxDurationMins: parseMaxDuration(lower),
		NeedsTech:       containsAny(lower, techKeywords),
		NeedsSoft:       containsAny(lower, softKeywords),
		NeedsCognitive:  containsAny(lower, cognitiveKeywords),
		IsEntryLevel:    containsAny(lower, entryKeywords),
	}
	reqs.NeedsBalanced = (reqs.NeedsTech && reqs.NeedsSoft) || (reqs.NeedsTech && reqs.NeedsCognitive)
	return reqs
}

func parseMaxDuration(lower string) int {
	for _, p := range durationPatterns {
		m := p.re.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		return n * p.multiplier
	}
	return 0
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
