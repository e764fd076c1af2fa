package engine

import (
	"strings"

	"github.com/JonMunkholm/DataGate/internal/schema"
)

// ParseLines splits decoded file content into rows under the schema's file
// format. Each line is one record, split on the schema delimiter. Field
// values are passed through untouched: leading and trailing whitespace is
// preserved and is the rule evaluator's concern, not the parser's.
//
// A fully empty line produces nothing: no row, no error, no row number.
// RowNumber counts emitted rows only, starting at 1.
//
// Rows whose field count disagrees with the schema are still emitted here;
// the engine records the structural error and excludes them from
// field-level evaluation.
func ParseLines(s *schema.TableSchema, lines []string) []ParsedRow {
	rows := make([]ParsedRow, 0, len(lines))
	rowNo := 0

	for _, line := range lines {
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			continue
		}
		rowNo++
		rows = append(rows, ParsedRow{
			RowNumber: rowNo,
			Fields:    strings.Split(line, s.Format.Delimiter),
		})
	}

	return rows
}
