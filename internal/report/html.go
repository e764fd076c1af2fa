package report

import (
	"fmt"
	"html/template"
	"os"

	"github.com/JonMunkholm/DataGate/internal/engine"
)

// maxDashboardErrors caps the per-error table on the dashboard; the full
// detail is always in the JSON report and the workbook.
const maxDashboardErrors = 50

var dashboardTmpl = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Validation Report - {{.Result.TableName}}</title>
<style>
  body { font-family: system-ui, sans-serif; margin: 2rem; color: #1a202c; }
  h1 { font-size: 1.4rem; }
  .cards { display: flex; gap: 1rem; flex-wrap: wrap; margin: 1rem 0 2rem; }
  .card { border: 1px solid #cbd5e0; border-radius: 8px; padding: 1rem 1.5rem; min-width: 9rem; }
  .card .value { font-size: 1.6rem; font-weight: 600; }
  .card .label { color: #4a5568; font-size: 0.8rem; text-transform: uppercase; }
  .score-good { color: #276749; }
  .score-warn { color: #975a16; }
  .score-bad { color: #9b2c2c; }
  table { border-collapse: collapse; width: 100%; font-size: 0.9rem; }
  th, td { border: 1px solid #e2e8f0; padding: 0.4rem 0.6rem; text-align: left; }
  th { background: #f7fafc; }
  code { background: #edf2f7; padding: 0 0.25rem; }
</style>
</head>
<body>
<h1>Validation Report &mdash; {{.Result.TableName}}{{with .Result.FileName}} ({{.}}){{end}}</h1>
<div class="cards">
  <div class="card"><div class="value">{{.Result.TotalRecords}}</div><div class="label">Total records</div></div>
  <div class="card"><div class="value">{{.Result.ValidCount}}</div><div class="label">Valid</div></div>
  <div class="card"><div class="value">{{.Result.RejectedCount}}</div><div class="label">Rejected</div></div>
  <div class="card"><div class="value {{.ScoreClass}}">{{printf "%.2f" .Result.DataQualityScore}}%</div><div class="label">Quality score</div></div>
  <div class="card"><div class="value">{{printf "%.2f" .Result.ProcessingDurationSeconds}}s</div><div class="label">Processing time</div></div>
</div>

{{if .Groups}}
<h2>Top problems</h2>
<table>
<tr><th>Errors</th><th>Column</th><th>Kind</th><th>Suggested fix</th></tr>
{{range .Groups}}
<tr><td>{{.Count}}</td><td><code>{{with .Column}}{{.}}{{else}}&lt;record&gt;{{end}}</code></td><td>{{.Kind}}</td><td>{{.SuggestedFix}}</td></tr>
{{end}}
</table>

<h2>Errors (first {{.MaxErrors}})</h2>
<table>
<tr><th>Row</th><th>Column</th><th>Kind</th><th>Value</th><th>Message</th></tr>
{{range .Errors}}
<tr><td>{{.RowNumber}}</td><td><code>{{with .ColumnName}}{{.}}{{else}}&lt;record&gt;{{end}}</code></td><td>{{.Kind}}</td><td>{{.RawValue}}</td><td>{{.Message}}</td></tr>
{{end}}
</table>
{{else}}
<p>No validation errors. The file is ready for load.</p>
{{end}}
</body>
</html>
`))

type dashboardData struct {
	Result     *engine.Result
	Groups     []errorGroup
	Errors     []engine.ValidationError
	MaxErrors  int
	ScoreClass string
}

func writeHTML(path string, res *engine.Result) error {
	errs := res.Errors()
	if len(errs) > maxDashboardErrors {
		errs = errs[:maxDashboardErrors]
	}

	data := dashboardData{
		Result:     res,
		Groups:     groupErrors(res),
		Errors:     errs,
		MaxErrors:  maxDashboardErrors,
		ScoreClass: scoreClass(res.DataQualityScore),
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write html report: %w", err)
	}
	defer f.Close()

	if err := dashboardTmpl.Execute(f, data); err != nil {
		return fmt.Errorf("render html report: %w", err)
	}
	return nil
}

func scoreClass(score float64) string {
	switch {
	case score >= 95:
		return "score-good"
	case score >= 70:
		return "score-warn"
	default:
		return "score-bad"
	}
}
