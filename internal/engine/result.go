// Package engine implements the schema-driven validation core: parsing
// delimited file content into rows, evaluating each field against its
// column rules, and aggregating the outcome into a per-file Result.
package engine

// ErrorKind classifies a row-level validation error. These are data-quality
// outcomes, never Go errors: they accumulate into the Result and never
// abort a run.
type ErrorKind string

const (
	ValueMissing        ErrorKind = "VALUE_MISSING"
	InvalidDataType     ErrorKind = "INVALID_DATA_TYPE"
	LengthExceeded      ErrorKind = "LENGTH_EXCEEDED"
	InvalidFormat       ErrorKind = "INVALID_FORMAT"
	ColumnCountMismatch ErrorKind = "COLUMN_COUNT_MISMATCH"
)

// ParsedRow is one record of a data file, split into positional fields
// aligned with the schema's columns.
//
// RowNumber is the 1-based index of the row among emitted rows: blank lines
// are skipped by the parser and do not consume a number. Reports use the
// same convention.
type ParsedRow struct {
	RowNumber int      `json:"row"`
	Fields    []string `json:"fields"`
}

// ValidationError describes one violated rule on one field. Immutable once
// created; RawValue is truncated for reporting (see truncateValue).
type ValidationError struct {
	RowNumber    int       `json:"row"`
	ColumnName   string    `json:"column"` // empty for structural errors
	Kind         ErrorKind `json:"errorKind"`
	RawValue     string    `json:"rawValue"`
	Message      string    `json:"message"`
	SuggestedFix string    `json:"suggestedFix"`
}

// RejectedRow pairs a row with the errors that rejected it.
type RejectedRow struct {
	Row    ParsedRow         `json:"record"`
	Errors []ValidationError `json:"errors"`
}

// Result is the outcome of validating one file against one schema. It is
// owned by the engine that produced it; reporting collaborators read it but
// never mutate it.
type Result struct {
	TableName    string `json:"tableName"`
	FileName     string `json:"fileName,omitempty"`
	TotalRecords int    `json:"totalRecords"`

	ValidRows []ParsedRow   `json:"validRecords"`
	Rejected  []RejectedRow `json:"rejectedRecords"`

	ErrorCount                int     `json:"errorCount"`
	DataQualityScore          float64 `json:"dataQualityScore"`
	ProcessingDurationSeconds float64 `json:"processingDurationSeconds"`
}

// ValidCount returns the number of valid rows.
func (r *Result) ValidCount() int { return len(r.ValidRows) }

// RejectedCount returns the number of rejected rows.
func (r *Result) RejectedCount() int { return len(r.Rejected) }

// Errors returns all validation errors in row order.
func (r *Result) Errors() []ValidationError {
	out := make([]ValidationError, 0, r.ErrorCount)
	for _, rej := range r.Rejected {
		out = append(out, rej.Errors...)
	}
	return out
}
