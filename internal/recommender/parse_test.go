// internal/recommender/parse_test.go
package recommender

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseQuery_Duration(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"minutes with max suffix", "Python and SQL skills test 40 minutes max", 40},
		{"under an hour", "Sales assessment for new graduates under 1 hour", 60},
		{"range takes lower bound", "technical screen 30-45 mins", 30},
		{"bare mins", "45 min coding test", 45},
		{"two hours", "comprehensive evaluation 2 hours", 120},
		{"no duration", "Java developer with communication skills", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseQuery(tt.query).MaxDurationMins)
		})
	}
}

func TestParseQuery_SkillClasses(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		tech     bool
		soft     bool
		cog      bool
		balanced bool
	}{
		{"tech only", "Java developer assessment", true, false, false, false},
		{"tech and soft balance", "Java developer with communication skills", true, true, false, true},
		{"tech and cognitive balance", "python aptitude screening", true, false, true, true},
		{"soft only no balance", "leadership and team fit", false, true, false, false},
		{"cognitive only no balance", "numerical reasoning test", false, false, true, false},
		{"nothing detected", "warehouse shift supervisor", false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseQuery(tt.query)
			assert.Equal(t, tt.tech, got.NeedsTech, "tech")
			assert.Equal(t, tt.soft, got.NeedsSoft, "soft")
			assert.Equal(t, tt.cog, got.NeedsCognitive, "cognitive")
			assert.Equal(t, tt.balanced, got.NeedsBalanced, "balanced")
		})
	}
}

func TestParseQuery_EntryLevel(t *testing.T) {
	assert.True(t, ParseQuery("Sales roles for new graduates").IsEntryLevel)
	assert.True(t, ParseQuery("junior developer hiring").IsEntryLevel)
	assert.True(t, ParseQuery("fresher batch screening").IsEntryLevel)
	assert.False(t, ParseQuery("senior architect evaluation").IsEntryLevel)
}

func TestParseQuery_MotivationPrefixCountsAsSoft(t *testing.T) {
	got := ParseQuery("motivation questionnaire for managers")
	assert.True(t, got.NeedsSoft)
}
