// Package report renders a validation Result into the artifacts downstream
// users consume: a full-detail JSON document, an HTML dashboard, a
// multi-sheet workbook, a plain-text remediation guide, and CSV
// side-channels holding the original field values of valid and rejected
// records. Writers treat the Result as read-only.
package report

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/JonMunkholm/DataGate/internal/engine"
	"github.com/JonMunkholm/DataGate/internal/schema"
)

// Artifacts lists the files produced for one validation run. Paths are
// empty for artifacts that were skipped (e.g., no rejected records).
type Artifacts struct {
	Dir         string `json:"dir"`
	JSON        string `json:"json"`
	HTML        string `json:"html"`
	Workbook    string `json:"workbook"`
	Guide       string `json:"guide"`
	ValidCSV    string `json:"validCsv,omitempty"`
	RejectedCSV string `json:"rejectedCsv,omitempty"`
}

// Writer renders all report artifacts under a base output directory, laid
// out as <base>/<table>/<file-stem>/.
type Writer struct {
	baseDir string
	logger  *slog.Logger
}

// NewWriter creates a report writer rooted at baseDir.
func NewWriter(baseDir string, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{baseDir: baseDir, logger: logger}
}

// WriteAll renders every artifact for a result. The schema supplies column
// names for the CSV side-channels and the workbook.
func (w *Writer) WriteAll(s *schema.TableSchema, res *engine.Result) (Artifacts, error) {
	dir := filepath.Join(w.baseDir, res.TableName, fileStem(res.FileName))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Artifacts{}, fmt.Errorf("create report directory: %w", err)
	}

	a := Artifacts{Dir: dir}

	a.JSON = filepath.Join(dir, "validation_report.json")
	if err := writeJSON(a.JSON, res); err != nil {
		return a, err
	}

	a.HTML = filepath.Join(dir, "validation_report.html")
	if err := writeHTML(a.HTML, res); err != nil {
		return a, err
	}

	a.Workbook = filepath.Join(dir, "validation_report.xlsx")
	if err := writeWorkbook(a.Workbook, s, res); err != nil {
		return a, err
	}

	a.Guide = filepath.Join(dir, "remediation_guide.txt")
	if err := writeGuide(a.Guide, res); err != nil {
		return a, err
	}

	if res.ValidCount() > 0 {
		a.ValidCSV = filepath.Join(dir, "valid_records.csv")
		if err := writeValidCSV(a.ValidCSV, s, res); err != nil {
			return a, err
		}
	}
	if res.RejectedCount() > 0 {
		a.RejectedCSV = filepath.Join(dir, "rejected_records.csv")
		if err := writeRejectedCSV(a.RejectedCSV, s, res); err != nil {
			return a, err
		}
	}

	w.logger.Info("reports written",
		"table", res.TableName,
		"dir", dir,
		"score", fmt.Sprintf("%.2f", res.DataQualityScore),
	)
	return a, nil
}

func writeJSON(path string, res *engine.Result) error {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write json report: %w", err)
	}
	return nil
}

func fileStem(name string) string {
	base := filepath.Base(name)
	if base == "" || base == "." {
		return "result"
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// errorGroup aggregates errors by (kind, column) for the dashboard and the
// remediation guide.
type errorGroup struct {
	Kind         engine.ErrorKind
	Column       string
	Count        int
	Message      string
	SuggestedFix string
}

// groupErrors returns the distinct (kind, column) groups sorted by
// descending count, ties by column then kind for stable output.
func groupErrors(res *engine.Result) []errorGroup {
	idx := make(map[string]int)
	var groups []errorGroup

	for _, rej := range res.Rejected {
		for _, e := range rej.Errors {
			key := string(e.Kind) + "\x00" + e.ColumnName
			i, ok := idx[key]
			if !ok {
				i = len(groups)
				idx[key] = i
				groups = append(groups, errorGroup{
					Kind:         e.Kind,
					Column:       e.ColumnName,
					Message:      e.Message,
					SuggestedFix: e.SuggestedFix,
				})
			}
			groups[i].Count++
		}
	}

	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		if groups[i].Column != groups[j].Column {
			return groups[i].Column < groups[j].Column
		}
		return groups[i].Kind < groups[j].Kind
	})
	return groups
}
