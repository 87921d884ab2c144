// internal/console/table.go
package console

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"assessment-recommender/internal/catalog"
	"assessment-recommender/internal/client"
)

const (
	ansiGreen = "\x1b[32m"
	ansiRed   = "\x1b[31m"
	ansiReset = "\x1b[0m"
)

// RenderTable renders the result set as a terminal table, one row per
// record, ordinally numbered from 1. An empty result renders nothing.
func RenderTable(result *client.Result, color bool) string {
	if result == nil || result.Len() == 0 {
		return ""
	}

	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)

	switch result.Variant {
	case client.VariantLegacy:
		fmt.Fprintln(w, "#\tName\tType\tDuration\tAdaptive\tRemote\tDescription\tLink")
		for i, rec := range result.Legacy {
			fmt.Fprintf(w, "%d\t%s\t%s\t%.0f min\t%s\t%s\t%s\t%s\n",
				i+1,
				rec.Name,
				strings.Join(rec.TestTypes, ", "),
				rec.DurationMins,
				Badge(rec.AdaptiveSupport, color),
				Badge(rec.RemoteSupport, color),
				rec.Description,
				rec.URL,
			)
		}
	case client.VariantScored:
		fmt.Fprintln(w, "#\tName\tType\tDuration\tSkills\tRelevance\tLink")
		for i, rec := range result.Scored {
			fmt.Fprintf(w, "%d\t%s\t%s\t%d min\t%s\t%s\t%s\n",
				i+1,
				rec.Name,
				catalog.TestType(rec.TestType).Label(),
				rec.DurationMins,
				rec.Skills,
				Percent(rec.RelevanceScore),
				rec.URL,
			)
		}
	}

	w.Flush()
	return sb.String()
}

// Badge styles a Yes/No support flag. Only the exact value "Yes" gets the
// positive style; anything else, missing included, is negative.
func Badge(value string, color bool) string {
	if value == "" {
		value = "No"
	}
	if !color {
		return value
	}
	if value == "Yes" {
		return ansiGreen + value + ansiReset
	}
	return ansiRed + value + ansiReset
}

// Percent formats a [0,1] relevance score as a percentage to one decimal.
func Percent(score float64) string {
	return fmt.Sprintf("%.1f%%", score*100)
}
