package web

import (
	"encoding/json"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"sort"

	"github.com/JonMunkholm/DataGate/internal/logging"
	"github.com/JonMunkholm/DataGate/internal/textenc"
)

// runInfo is a dashboard row summarizing one completed validation run,
// read back from its JSON report.
type runInfo struct {
	Table        string  `json:"table"`
	Name         string  `json:"name"`
	TotalRecords int     `json:"totalRecords"`
	Score        float64 `json:"score"`
	ReportHTML   string  `json:"reportHtml"`
	ReportJSON   string  `json:"reportJson"`
}

// reportSummary is the slice of the JSON report the dashboard needs.
type reportSummary struct {
	TableName        string  `json:"tableName"`
	FileName         string  `json:"fileName"`
	TotalRecords     int     `json:"totalRecords"`
	DataQualityScore float64 `json:"dataQualityScore"`
}

var indexTmpl = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Validation Runs</title>
<style>
  body { font-family: system-ui, sans-serif; margin: 2rem; color: #1a202c; }
  table { border-collapse: collapse; font-size: 0.9rem; }
  th, td { border: 1px solid #e2e8f0; padding: 0.4rem 0.8rem; text-align: left; }
  th { background: #f7fafc; }
</style>
</head>
<body>
<h1>Validation Runs</h1>
{{if .}}
<table>
<tr><th>Table</th><th>Run</th><th>Records</th><th>Score</th><th>Reports</th></tr>
{{range .}}
<tr>
  <td>{{.Table}}</td><td>{{.Name}}</td><td>{{.TotalRecords}}</td>
  <td>{{printf "%.2f" .Score}}%</td>
  <td><a href="{{.ReportHTML}}">dashboard</a> &middot; <a href="{{.ReportJSON}}">json</a></td>
</tr>
{{end}}
</table>
{{else}}
<p>No completed runs yet.</p>
{{end}}
</body>
</html>
`))

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	runs, err := s.collectRuns()
	if err != nil {
		s.error(w, r, http.StatusInternalServerError, "failed to list runs", err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, runs); err != nil {
		logging.FromContext(r.Context()).Error("render index", "error", err)
	}
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.collectRuns()
	if err != nil {
		s.error(w, r, http.StatusInternalServerError, "failed to list runs", err)
		return
	}
	s.json(w, http.StatusOK, runs)
}

// collectRuns scans <output>/<table>/<stem>/validation_report.json and
// reads each summary. A report that fails to parse is skipped.
func (s *Server) collectRuns() ([]runInfo, error) {
	root := s.cfg.Paths.OutputDir

	tables, err := os.ReadDir(root)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var runs []runInfo
	for _, table := range tables {
		if !table.IsDir() {
			continue
		}
		stems, err := os.ReadDir(filepath.Join(root, table.Name()))
		if err != nil {
			continue
		}
		for _, stem := range stems {
			if !stem.IsDir() {
				continue
			}
			jsonPath := filepath.Join(root, table.Name(), stem.Name(), "validation_report.json")
			data, err := os.ReadFile(jsonPath)
			if err != nil {
				continue
			}
			var sum reportSummary
			if err := json.Unmarshal(data, &sum); err != nil {
				continue
			}
			rel := "/reports/" + table.Name() + "/" + stem.Name() + "/"
			runs = append(runs, runInfo{
				Table:        sum.TableName,
				Name:         stem.Name(),
				TotalRecords: sum.TotalRecords,
				Score:        sum.DataQualityScore,
				ReportHTML:   rel + "validation_report.html",
				ReportJSON:   rel + "validation_report.json",
			})
		}
	}

	sort.Slice(runs, func(i, j int) bool {
		if runs[i].Table != runs[j].Table {
			return runs[i].Table < runs[j].Table
		}
		return runs[i].Name < runs[j].Name
	})
	return runs, nil
}

// tableInfo describes one registered table for the API listing.
type tableInfo struct {
	Name      string `json:"name"`
	Columns   int    `json:"columns"`
	Delimiter string `json:"delimiter"`
	Encoding  string `json:"encoding"`
}

func (s *Server) handleListTables(w http.ResponseWriter, r *http.Request) {
	reg := s.service.Registry()
	out := make([]tableInfo, 0, reg.Count())
	for _, name := range reg.Names() {
		ts, ok := reg.Get(name)
		if !ok {
			continue
		}
		out = append(out, tableInfo{
			Name:      ts.TableName,
			Columns:   ts.ColumnCount(),
			Delimiter: ts.Format.Delimiter,
			Encoding:  ts.Format.Encoding,
		})
	}
	s.json(w, http.StatusOK, out)
}

// handleValidate validates an uploaded file immediately and returns the
// run outcome. Form fields: "file" (required), "table" (optional; detected
// from the filename when omitted).
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(s.cfg.Server.MaxUploadSize); err != nil {
		s.error(w, r, http.StatusBadRequest, "invalid multipart form", err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.error(w, r, http.StatusBadRequest, "missing file field", err)
		return
	}
	defer file.Close()

	tableName := r.FormValue("table")
	ts, err := s.service.Resolve(header.Filename, tableName)
	if err != nil {
		s.error(w, r, http.StatusBadRequest, "cannot resolve table", err)
		return
	}

	lines, err := textenc.DecodeLines(file, ts.Format.Encoding)
	if err != nil {
		s.error(w, r, http.StatusBadRequest, "cannot decode file", err)
		return
	}

	outcome, err := s.service.ValidateLines(r.Context(), ts.TableName, header.Filename, lines)
	if err != nil {
		s.error(w, r, http.StatusInternalServerError, "validation failed", err)
		return
	}
	s.json(w, http.StatusOK, outcome)
}

func (s *Server) json(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) error(w http.ResponseWriter, r *http.Request, status int, msg string, err error) {
	logging.FromContext(r.Context()).Error(msg, "error", err)
	resp := errorResponse{Error: msg}
	if err != nil && status < http.StatusInternalServerError {
		resp.Detail = err.Error()
	}
	s.json(w, status, resp)
}
