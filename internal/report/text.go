package report

import (
	"fmt"
	"os"
	"strings"

	"github.com/JonMunkholm/DataGate/internal/engine"
)

// writeGuide renders the plain-text remediation guide: one entry per
// distinct (error kind, column) pair present in the result, most frequent
// first, with the deterministic fix hint attached to that pair.
func writeGuide(path string, res *engine.Result) error {
	var b strings.Builder

	fmt.Fprintf(&b, "REMEDIATION GUIDE\n")
	fmt.Fprintf(&b, "Table: %s\n", res.TableName)
	if res.FileName != "" {
		fmt.Fprintf(&b, "File:  %s\n", res.FileName)
	}
	fmt.Fprintf(&b, "Score: %.2f%% (%d of %d records valid)\n",
		res.DataQualityScore, res.ValidCount(), res.TotalRecords)
	b.WriteString(strings.Repeat("-", 72) + "\n")

	groups := groupErrors(res)
	if len(groups) == 0 {
		b.WriteString("No validation errors. Nothing to remediate.\n")
	}
	for i, g := range groups {
		column := g.Column
		if column == "" {
			column = "<record>"
		}
		fmt.Fprintf(&b, "%d. %s on %s (%d occurrence(s))\n", i+1, g.Kind, column, g.Count)
		fmt.Fprintf(&b, "   Problem: %s\n", g.Message)
		fmt.Fprintf(&b, "   Fix:     %s\n\n", g.SuggestedFix)
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write remediation guide: %w", err)
	}
	return nil
}
