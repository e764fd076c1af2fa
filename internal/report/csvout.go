package report

// csvout.go writes the two CSV side-channels. Both carry the records'
// original field values untouched; the rejected channel appends the
// rejection reasons and error count the way the original pipeline hands
// them to remediation teams.

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/JonMunkholm/DataGate/internal/engine"
	"github.com/JonMunkholm/DataGate/internal/schema"
)

func writeValidCSV(path string, s *schema.TableSchema, res *engine.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write valid records csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(s.ColumnNames()); err != nil {
		return fmt.Errorf("write valid records csv: %w", err)
	}
	for _, row := range res.ValidRows {
		if err := w.Write(row.Fields); err != nil {
			return fmt.Errorf("write valid records csv: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

func writeRejectedCSV(path string, s *schema.TableSchema, res *engine.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write rejected records csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := append(append([]string{"row"}, s.ColumnNames()...), "rejection_reasons", "error_count")
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write rejected records csv: %w", err)
	}

	for _, rej := range res.Rejected {
		reasons := make([]string, len(rej.Errors))
		for i, e := range rej.Errors {
			column := e.ColumnName
			if column == "" {
				column = "<record>"
			}
			reasons[i] = column + ": " + e.Message
		}

		// Structural rejects may have more or fewer fields than the schema;
		// they are written as-is.
		record := make([]string, 0, len(rej.Row.Fields)+3)
		record = append(record, strconv.Itoa(rej.Row.RowNumber))
		record = append(record, rej.Row.Fields...)
		record = append(record, strings.Join(reasons, " | "), strconv.Itoa(len(rej.Errors)))
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write rejected records csv: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}
