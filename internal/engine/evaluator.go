package engine

// evaluator.go checks one parsed row against the schema's column rules.
//
// Rules run per field in a fixed precedence order, and the first violated
// rule wins, so a field never produces more than one error:
//
//	1. mandatory  -> VALUE_MISSING
//	2. data type  -> INVALID_DATA_TYPE  (NUMBER, DATE)
//	3. length     -> LENGTH_EXCEEDED
//	4. format     -> INVALID_FORMAT    (EMAIL, PHONE)
//
// An empty nullable field short-circuits everything: no value means no
// type, length, or format violation.
//
// The type and format rules dispatch through lookup tables keyed by the
// DataType tag, so adding a type means adding a table entry rather than
// growing a switch somewhere.

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/JonMunkholm/DataGate/internal/schema"
)

// Pre-compiled patterns (avoids recompilation on each call)
var (
	numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)
	emailRegex   = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneStripRe = regexp.MustCompile(`[\s\-().+]`)
)

// typeCheck reports whether a non-empty trimmed value satisfies a data
// type. Types without an entry have no type rule.
type typeCheck func(e *Evaluator, trimmed string) bool

// formatCheck reports whether a non-empty trimmed value satisfies a format
// rule. Types without an entry have no format rule.
type formatCheck func(trimmed string) bool

var typeChecks = map[schema.DataType]typeCheck{
	schema.TypeNumber: (*Evaluator).checkNumber,
	schema.TypeDate:   (*Evaluator).checkDate,
}

var formatChecks = map[schema.DataType]formatCheck{
	schema.TypeEmail: checkEmail,
	schema.TypePhone: checkPhone,
}

// Evaluator applies the rule set of one schema to parsed rows. It
// precompiles the schema's date pattern once; the evaluator is read-only
// after construction and safe for concurrent use.
type Evaluator struct {
	schema     *schema.TableSchema
	dateRe     *regexp.Regexp // digit grouping of Format.DateFormat
	dateLayout string         // Go layout equivalent
}

// NewEvaluator builds an evaluator for the given schema.
func NewEvaluator(s *schema.TableSchema) *Evaluator {
	return &Evaluator{
		schema:     s,
		dateRe:     datePatternRegexp(s.Format.DateFormat),
		dateLayout: dateLayout(s.Format.DateFormat),
	}
}

// EvaluateRow checks every field of a row whose field count matches the
// schema and returns the violations in column order. A nil/empty return
// means the row is valid.
func (e *Evaluator) EvaluateRow(row ParsedRow) []ValidationError {
	var errs []ValidationError

	for _, col := range e.schema.Columns() {
		value := row.Fields[col.Position]
		trimmed := strings.TrimSpace(value)

		// 1. Mandatory
		if trimmed == "" {
			if !col.Nullable {
				errs = append(errs, e.newError(row.RowNumber, col, ValueMissing, value))
			}
			// Empty and nullable: nothing further to check.
			continue
		}

		// 2. Data type
		if check, ok := typeChecks[col.Type]; ok && !check(e, trimmed) {
			errs = append(errs, e.newError(row.RowNumber, col, InvalidDataType, value))
			continue
		}

		// 3. Length
		if col.MaxLength > 0 && utf8.RuneCountInString(value) > col.MaxLength {
			errs = append(errs, e.newError(row.RowNumber, col, LengthExceeded, value))
			continue
		}

		// 4. Format
		if check, ok := formatChecks[col.Type]; ok && !check(trimmed) {
			errs = append(errs, e.newError(row.RowNumber, col, InvalidFormat, value))
		}
	}

	return errs
}

func (e *Evaluator) newError(rowNo int, col schema.ColumnDefinition, kind ErrorKind, value string) ValidationError {
	return ValidationError{
		RowNumber:    rowNo,
		ColumnName:   col.Name,
		Kind:         kind,
		RawValue:     truncateValue(value),
		Message:      errorMessage(kind, col, e.schema.Format),
		SuggestedFix: suggestedFix(kind, col, e.schema.Format, value),
	}
}

// checkNumber accepts signed decimals, tolerating thousands separators the
// way the upstream feeds emit them ("1,234.56").
func (e *Evaluator) checkNumber(trimmed string) bool {
	v := strings.ReplaceAll(trimmed, ",", "")
	if !numericRegex.MatchString(v) {
		return false
	}
	_, err := strconv.ParseFloat(v, 64)
	return err == nil
}

// checkDate requires the exact digit grouping of the schema's date pattern
// and a calendar-valid year/month/day.
func (e *Evaluator) checkDate(trimmed string) bool {
	if e.dateRe != nil && !e.dateRe.MatchString(trimmed) {
		return false
	}
	_, err := time.Parse(e.dateLayout, trimmed)
	return err == nil
}

func checkEmail(trimmed string) bool {
	return emailRegex.MatchString(trimmed)
}

// checkPhone accepts digits with common separators, 7 to 15 digits once
// the separators are stripped.
func checkPhone(trimmed string) bool {
	digits := phoneStripRe.ReplaceAllString(trimmed, "")
	if len(digits) < 7 || len(digits) > 15 {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// dateLayout converts a template date pattern (YYYYMMDD, DD/MM/YYYY, ...)
// to a Go time layout.
func dateLayout(pattern string) string {
	r := strings.NewReplacer("YYYY", "2006", "MM", "01", "DD", "02")
	return r.Replace(strings.ToUpper(pattern))
}

// datePatternRegexp builds the digit-grouping regexp for a template date
// pattern. time.Parse alone is too lenient about grouping ("2025-1-2"
// parses under 2006-01-02), so grouping is enforced separately.
func datePatternRegexp(pattern string) *regexp.Regexp {
	var b strings.Builder
	b.WriteString("^")
	upper := strings.ToUpper(pattern)
	for i := 0; i < len(upper); {
		switch {
		case strings.HasPrefix(upper[i:], "YYYY"):
			b.WriteString(`\d{4}`)
			i += 4
		case strings.HasPrefix(upper[i:], "MM"), strings.HasPrefix(upper[i:], "DD"):
			b.WriteString(`\d{2}`)
			i += 2
		default:
			b.WriteString(regexp.QuoteMeta(string(upper[i])))
			i++
		}
	}
	b.WriteString("$")

	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil
	}
	return re
}

// maxRawValueLen caps RawValue in reports so a single oversized field does
// not bloat every report format.
const maxRawValueLen = 120

func truncateValue(s string) string {
	if utf8.RuneCountInString(s) <= maxRawValueLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxRawValueLen]) + "..."
}
