package engine

import (
	"fmt"
	"time"

	"github.com/JonMunkholm/DataGate/internal/schema"
)

// Validate runs the single-pass validation of one file's decoded content
// against a schema and returns the aggregated Result.
//
// Row-level rule violations are data, not faults: they reject the row and
// lower the quality score, but never abort the pass. The only failures this
// function can surface happen before it is called (schema load, unreadable
// input), so it returns the Result directly.
//
// A row whose field count disagrees with the schema gets exactly one
// COLUMN_COUNT_MISMATCH error (structural, empty column name) and is
// excluded from field-level evaluation.
func Validate(s *schema.TableSchema, fileName string, lines []string) *Result {
	start := time.Now()

	rows := ParseLines(s, lines)
	eval := NewEvaluator(s)

	// Both slices start non-nil so a clean (or fully rejected) file still
	// serializes them as empty arrays rather than null.
	result := &Result{
		TableName: s.TableName,
		FileName:  fileName,
		ValidRows: make([]ParsedRow, 0, len(rows)),
		Rejected:  []RejectedRow{},
	}

	for _, row := range rows {
		var errs []ValidationError

		if len(row.Fields) != s.ColumnCount() {
			errs = []ValidationError{structuralError(s, row)}
		} else {
			errs = eval.EvaluateRow(row)
		}

		if len(errs) == 0 {
			result.ValidRows = append(result.ValidRows, row)
		} else {
			result.Rejected = append(result.Rejected, RejectedRow{Row: row, Errors: errs})
			result.ErrorCount += len(errs)
		}
	}

	result.TotalRecords = len(rows)
	result.DataQualityScore = qualityScore(len(result.ValidRows), result.TotalRecords)
	result.ProcessingDurationSeconds = time.Since(start).Seconds()
	return result
}

// qualityScore is the percentage of valid rows. An empty file has nothing
// wrong with it, so it scores 100.
func qualityScore(valid, total int) float64 {
	if total == 0 {
		return 100
	}
	return 100 * float64(valid) / float64(total)
}

func structuralError(s *schema.TableSchema, row ParsedRow) ValidationError {
	return ValidationError{
		RowNumber:  row.RowNumber,
		ColumnName: "",
		Kind:       ColumnCountMismatch,
		RawValue:   truncateValue(fmt.Sprintf("%d fields, expected %d", len(row.Fields), s.ColumnCount())),
		Message: fmt.Sprintf("record has %d fields but table %s defines %d columns",
			len(row.Fields), s.TableName, s.ColumnCount()),
		SuggestedFix: suggestedFix(ColumnCountMismatch, schema.ColumnDefinition{}, s.Format, ""),
	}
}
