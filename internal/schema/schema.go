// Package schema provides the table schema model for flat-file validation.
// A TableSchema describes one target table: its ordered column definitions
// and the file format (delimiter, encoding, date format) its feed files use.
// Schemas are immutable once constructed and safe for concurrent readers.
package schema

import (
	"fmt"
	"sort"
	"strings"
)

// DataType is the declared type of a column. The set is closed so that
// rule dispatch can be an exhaustive lookup table rather than open-ended
// type inspection.
type DataType int

const (
	TypeText DataType = iota
	TypeNumber
	TypeDate
	TypeEmail
	TypePhone
)

// String returns the canonical template spelling of the data type.
func (t DataType) String() string {
	switch t {
	case TypeText:
		return "TEXT"
	case TypeNumber:
		return "NUMBER"
	case TypeDate:
		return "DATE"
	case TypeEmail:
		return "EMAIL"
	case TypePhone:
		return "PHONE"
	default:
		return fmt.Sprintf("DataType(%d)", int(t))
	}
}

// dataTypeNames maps template spellings (including the legacy aliases the
// original OFSAA templates use) to DataType tags.
var dataTypeNames = map[string]DataType{
	"TEXT":     TypeText,
	"VARCHAR":  TypeText,
	"VARCHAR2": TypeText,
	"CHAR":     TypeText,
	"NUMBER":   TypeNumber,
	"INTEGER":  TypeNumber,
	"NUMERIC":  TypeNumber,
	"DATE":     TypeDate,
	"EMAIL":    TypeEmail,
	"PHONE":    TypePhone,
}

// ParseDataType converts a template spelling to a DataType.
// Matching is case-insensitive. Unknown spellings return false.
func ParseDataType(s string) (DataType, bool) {
	t, ok := dataTypeNames[strings.ToUpper(strings.TrimSpace(s))]
	return t, ok
}

// ColumnDefinition describes one positional field of a delimited file.
type ColumnDefinition struct {
	Position    int      // 0-based field position, contiguous within a schema
	Name        string   // unique column identifier
	Type        DataType // declared data type
	MaxLength   int      // maximum length in characters, 0 = unbounded
	Nullable    bool     // when false, an empty value is a VALUE_MISSING error
	Description string   // informational only
}

// FileFormat holds the per-file parsing parameters declared by a template.
// Encoding is informational at this layer; decoding happens before the
// parser boundary (see textenc).
type FileFormat struct {
	Delimiter  string
	Encoding   string
	DateFormat string
}

// Template defaults used when a template omits its FileFormat element.
const (
	DefaultDelimiter  = "~"
	DefaultEncoding   = "UTF-8"
	DefaultDateFormat = "YYYYMMDD"
)

// TableSchema is the immutable description of one table. Construct with
// NewTableSchema; direct literal construction skips invariant checks.
type TableSchema struct {
	TableName   string
	Description string
	Format      FileFormat

	columns []ColumnDefinition
	byName  map[string]int // lowercase column name -> index into columns
}

// SchemaError reports an invalid schema definition. It is a process-level
// fault: the offending template is rejected at load time.
type SchemaError struct {
	Table  string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("invalid schema: %s", e.Reason)
	}
	return fmt.Sprintf("invalid schema for table %s: %s", e.Table, e.Reason)
}

// NewTableSchema validates and constructs a TableSchema.
//
// It fails with *SchemaError when column positions do not form a contiguous
// 0..N-1 set, when a column name repeats, or when the column list is empty.
// Columns may be supplied in any order; they are sorted by position.
func NewTableSchema(name, description string, format FileFormat, columns []ColumnDefinition) (*TableSchema, error) {
	if name == "" {
		return nil, &SchemaError{Reason: "table name is empty"}
	}
	if len(columns) == 0 {
		return nil, &SchemaError{Table: name, Reason: "no columns defined"}
	}

	cols := make([]ColumnDefinition, len(columns))
	copy(cols, columns)
	sort.Slice(cols, func(i, j int) bool { return cols[i].Position < cols[j].Position })

	byName := make(map[string]int, len(cols))
	for i, col := range cols {
		if col.Position != i {
			return nil, &SchemaError{
				Table:  name,
				Reason: fmt.Sprintf("column positions must be contiguous 0..%d, got position %d for %q", len(cols)-1, col.Position, col.Name),
			}
		}
		if col.Name == "" {
			return nil, &SchemaError{Table: name, Reason: fmt.Sprintf("column at position %d has no name", i)}
		}
		key := strings.ToLower(col.Name)
		if _, dup := byName[key]; dup {
			return nil, &SchemaError{Table: name, Reason: fmt.Sprintf("duplicate column name %q", col.Name)}
		}
		byName[key] = i
	}

	if format.Delimiter == "" {
		format.Delimiter = DefaultDelimiter
	}
	if format.Encoding == "" {
		format.Encoding = DefaultEncoding
	}
	if format.DateFormat == "" {
		format.DateFormat = DefaultDateFormat
	}

	return &TableSchema{
		TableName:   name,
		Description: description,
		Format:      format,
		columns:     cols,
		byName:      byName,
	}, nil
}

// Columns returns the ordered column definitions. Callers must not mutate
// the returned slice.
func (s *TableSchema) Columns() []ColumnDefinition {
	return s.columns
}

// ColumnCount returns the number of columns.
func (s *TableSchema) ColumnCount() int {
	return len(s.columns)
}

// ColumnAt returns the column at the given position.
func (s *TableSchema) ColumnAt(pos int) (ColumnDefinition, bool) {
	if pos < 0 || pos >= len(s.columns) {
		return ColumnDefinition{}, false
	}
	return s.columns[pos], true
}

// ColumnByName returns the column with the given name (case-insensitive).
func (s *TableSchema) ColumnByName(name string) (ColumnDefinition, bool) {
	i, ok := s.byName[strings.ToLower(name)]
	if !ok {
		return ColumnDefinition{}, false
	}
	return s.columns[i], true
}

// ColumnNames returns the column names in position order.
func (s *TableSchema) ColumnNames() []string {
	names := make([]string, len(s.columns))
	for i, col := range s.columns {
		names[i] = col.Name
	}
	return names
}
