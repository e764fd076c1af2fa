package report

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/DataGate/internal/engine"
	"github.com/JonMunkholm/DataGate/internal/schema"
)

// writeWorkbook renders the three-sheet workbook: Summary, Errors, and
// Valid Records. Analysts work rejected records out of the Errors sheet,
// so it carries the remediation hint per error.
func writeWorkbook(path string, s *schema.TableSchema, res *engine.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	const summary = "Summary"
	if err := f.SetSheetName("Sheet1", summary); err != nil {
		return fmt.Errorf("workbook: %w", err)
	}

	summaryRows := [][]any{
		{"Table", res.TableName},
		{"File", res.FileName},
		{"Total records", res.TotalRecords},
		{"Valid records", res.ValidCount()},
		{"Rejected records", res.RejectedCount()},
		{"Total errors", res.ErrorCount},
		{"Data quality score", res.DataQualityScore},
		{"Processing time (s)", res.ProcessingDurationSeconds},
	}
	for i, row := range summaryRows {
		cell := "A" + strconv.Itoa(i+1)
		if err := f.SetSheetRow(summary, cell, &row); err != nil {
			return fmt.Errorf("workbook summary: %w", err)
		}
	}

	if err := writeErrorsSheet(f, res); err != nil {
		return err
	}
	if err := writeValidSheet(f, s, res); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeErrorsSheet(f *excelize.File, res *engine.Result) error {
	const sheet = "Errors"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("workbook errors sheet: %w", err)
	}

	header := []any{"Row", "Column", "Error kind", "Value", "Message", "Suggested fix"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("workbook errors sheet: %w", err)
	}

	line := 2
	for _, rej := range res.Rejected {
		for _, e := range rej.Errors {
			row := []any{e.RowNumber, e.ColumnName, string(e.Kind), e.RawValue, e.Message, e.SuggestedFix}
			if err := f.SetSheetRow(sheet, "A"+strconv.Itoa(line), &row); err != nil {
				return fmt.Errorf("workbook errors sheet: %w", err)
			}
			line++
		}
	}
	return nil
}

func writeValidSheet(f *excelize.File, s *schema.TableSchema, res *engine.Result) error {
	const sheet = "Valid Records"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("workbook valid sheet: %w", err)
	}

	header := make([]any, 0, s.ColumnCount()+1)
	header = append(header, "Row")
	for _, name := range s.ColumnNames() {
		header = append(header, name)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("workbook valid sheet: %w", err)
	}

	for i, row := range res.ValidRows {
		cells := make([]any, 0, len(row.Fields)+1)
		cells = append(cells, row.RowNumber)
		for _, v := range row.Fields {
			cells = append(cells, v)
		}
		if err := f.SetSheetRow(sheet, "A"+strconv.Itoa(i+2), &cells); err != nil {
			return fmt.Errorf("workbook valid sheet: %w", err)
		}
	}
	return nil
}
