// internal/console/table_test.go
package console

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assessment-recommender/internal/client"
)

func TestRenderTable_EmptyRendersNothing(t *testing.T) {
	assert.Empty(t, RenderTable(nil, false))
	assert.Empty(t, RenderTable(&client.Result{Variant: client.VariantScored}, false))
	assert.Empty(t, RenderTable(&client.Result{Variant: client.VariantLegacy, Legacy: []client.LegacyRecord{}}, false))
}

func TestRenderTable_ScoredRows(t *testing.T) {
	result := &client.Result{
		Variant: client.VariantScored,
		Scored: []client.ScoredRecord{
			{Name: "Java 8 New", URL: "https://x/java/", TestType: "K", DurationMins: 35, Skills: "Java", RelevanceScore: 0.8731},
			{Name: "OPQ", URL: "https://x/opq/", TestType: "P", DurationMins: 25, Skills: "General Skills", RelevanceScore: 0.5},
		},
	}

	out := RenderTable(result, false)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	// Header plus one row per record, numbered from 1.
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "1")
	assert.Contains(t, lines[1], "Knowledge & Skills")
	assert.Contains(t, lines[1], "87.3%")
	assert.Contains(t, lines[1], "https://x/java/")
	assert.Contains(t, lines[2], "2")
	assert.Contains(t, lines[2], "Personality & Behavior")
	assert.Contains(t, lines[2], "50.0%")
}

func TestRenderTable_UnknownTypeCodeVerbatim(t *testing.T) {
	result := &client.Result{
		Variant: client.VariantScored,
		Scored:  []client.ScoredRecord{{Name: "Mystery", URL: "https://x/m/", TestType: "Z", DurationMins: 10}},
	}

	out := RenderTable(result, false)

	assert.Contains(t, out, "Z")
	assert.NotContains(t, out, "Knowledge")
}

func TestRenderTable_LegacyRows(t *testing.T) {
	result := &client.Result{
		Variant: client.VariantLegacy,
		Legacy: []client.LegacyRecord{
			{Name: "Verify G+", URL: "https://x/verify/", TestTypes: []string{"Ability", "Aptitude"}, DurationMins: 24,
				AdaptiveSupport: "Yes", RemoteSupport: "No", Description: "General ability"},
		},
	}

	out := RenderTable(result, false)

	assert.Contains(t, out, "Ability, Aptitude")
	assert.Contains(t, out, "24 min")
	assert.Contains(t, out, "General ability")
	assert.Contains(t, out, "https://x/verify/")
}

func TestBadge_OnlyExactYesIsPositive(t *testing.T) {
	assert.Equal(t, ansiGreen+"Yes"+ansiReset, Badge("Yes", true))
	assert.Equal(t, ansiRed+"No"+ansiReset, Badge("No", true))
	assert.Equal(t, ansiRed+"yes"+ansiReset, Badge("yes", true))
	assert.Equal(t, ansiRed+"Maybe"+ansiReset, Badge("Maybe", true))
	// Missing value renders as a negative No.
	assert.Equal(t, ansiRed+"No"+ansiReset, Badge("", true))
}

func TestBadge_NoColorPassthrough(t *testing.T) {
	assert.Equal(t, "Yes", Badge("Yes", false))
	assert.Equal(t, "No", Badge("", false))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "87.3%", Percent(0.8731))
	assert.Equal(t, "100.0%", Percent(1))
	assert.Equal(t, "0.0%", Percent(0))
}
