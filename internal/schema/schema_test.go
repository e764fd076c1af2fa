package schema

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestParseDataType(t *testing.T) {
	tests := []struct {
		input string
		want  DataType
		ok    bool
	}{
		{"TEXT", TypeText, true},
		{"text", TypeText, true},
		{" Text ", TypeText, true},
		{"VARCHAR", TypeText, true},
		{"VARCHAR2", TypeText, true},
		{"CHAR", TypeText, true},
		{"NUMBER", TypeNumber, true},
		{"INTEGER", TypeNumber, true},
		{"NUMERIC", TypeNumber, true},
		{"DATE", TypeDate, true},
		{"EMAIL", TypeEmail, true},
		{"PHONE", TypePhone, true},
		{"BLOB", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseDataType(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseDataType(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("ParseDataType(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDataTypeString(t *testing.T) {
	tests := []struct {
		t    DataType
		want string
	}{
		{TypeText, "TEXT"},
		{TypeNumber, "NUMBER"},
		{TypeDate, "DATE"},
		{TypeEmail, "EMAIL"},
		{TypePhone, "PHONE"},
		{DataType(99), "DataType(99)"},
	}
	for _, tt := range tests {
		if got := tt.t.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestNewTableSchema(t *testing.T) {
	valid := []ColumnDefinition{
		{Position: 0, Name: "v_code", Type: TypeText, MaxLength: 10, Nullable: false},
		{Position: 1, Name: "n_amount", Type: TypeNumber, Nullable: true},
	}

	tests := []struct {
		name    string
		table   string
		columns []ColumnDefinition
		errPart string
	}{
		{
			name:    "valid",
			table:   "DIM_ACCOUNT",
			columns: valid,
		},
		{
			name:    "empty table name",
			table:   "",
			columns: valid,
			errPart: "table name is empty",
		},
		{
			name:    "no columns",
			table:   "DIM_ACCOUNT",
			columns: nil,
			errPart: "no columns",
		},
		{
			name:  "gap in positions",
			table: "DIM_ACCOUNT",
			columns: []ColumnDefinition{
				{Position: 0, Name: "a"},
				{Position: 2, Name: "b"},
			},
			errPart: "contiguous",
		},
		{
			name:  "duplicate position",
			table: "DIM_ACCOUNT",
			columns: []ColumnDefinition{
				{Position: 0, Name: "a"},
				{Position: 0, Name: "b"},
			},
			errPart: "contiguous",
		},
		{
			name:  "duplicate name case-insensitive",
			table: "DIM_ACCOUNT",
			columns: []ColumnDefinition{
				{Position: 0, Name: "v_code"},
				{Position: 1, Name: "V_CODE"},
			},
			errPart: "duplicate column name",
		},
		{
			name:  "unnamed column",
			table: "DIM_ACCOUNT",
			columns: []ColumnDefinition{
				{Position: 0, Name: ""},
			},
			errPart: "no name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewTableSchema(tt.table, "", FileFormat{}, tt.columns)
			if tt.errPart == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if s.ColumnCount() != len(tt.columns) {
					t.Errorf("ColumnCount() = %d, want %d", s.ColumnCount(), len(tt.columns))
				}
				return
			}
			if err == nil {
				t.Fatal("expected an error")
			}
			var se *SchemaError
			if !errors.As(err, &se) {
				t.Fatalf("error type = %T, want *SchemaError", err)
			}
			if !strings.Contains(err.Error(), tt.errPart) {
				t.Errorf("error = %q, want it to contain %q", err, tt.errPart)
			}
		})
	}
}

func TestNewTableSchemaSortsByPosition(t *testing.T) {
	s, err := NewTableSchema("DIM_T", "", FileFormat{}, []ColumnDefinition{
		{Position: 2, Name: "c"},
		{Position: 0, Name: "a"},
		{Position: 1, Name: "b"},
	})
	if err != nil {
		t.Fatalf("NewTableSchema: %v", err)
	}
	if got, want := s.ColumnNames(), []string{"a", "b", "c"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ColumnNames() = %v, want %v", got, want)
	}
}

func TestNewTableSchemaFormatDefaults(t *testing.T) {
	cols := []ColumnDefinition{{Position: 0, Name: "a"}}

	s, err := NewTableSchema("DIM_T", "", FileFormat{}, cols)
	if err != nil {
		t.Fatalf("NewTableSchema: %v", err)
	}
	if s.Format.Delimiter != DefaultDelimiter {
		t.Errorf("Delimiter = %q, want %q", s.Format.Delimiter, DefaultDelimiter)
	}
	if s.Format.Encoding != DefaultEncoding {
		t.Errorf("Encoding = %q, want %q", s.Format.Encoding, DefaultEncoding)
	}
	if s.Format.DateFormat != DefaultDateFormat {
		t.Errorf("DateFormat = %q, want %q", s.Format.DateFormat, DefaultDateFormat)
	}

	s, err = NewTableSchema("DIM_T", "", FileFormat{Delimiter: "|", Encoding: "latin-1", DateFormat: "DD/MM/YYYY"}, cols)
	if err != nil {
		t.Fatalf("NewTableSchema: %v", err)
	}
	if s.Format.Delimiter != "|" || s.Format.Encoding != "latin-1" || s.Format.DateFormat != "DD/MM/YYYY" {
		t.Errorf("explicit format overridden: %+v", s.Format)
	}
}

func TestColumnLookups(t *testing.T) {
	s, err := NewTableSchema("DIM_T", "", FileFormat{}, []ColumnDefinition{
		{Position: 0, Name: "v_code", Type: TypeText},
		{Position: 1, Name: "n_amount", Type: TypeNumber},
	})
	if err != nil {
		t.Fatalf("NewTableSchema: %v", err)
	}

	if col, ok := s.ColumnAt(1); !ok || col.Name != "n_amount" {
		t.Errorf("ColumnAt(1) = %+v, %v", col, ok)
	}
	if _, ok := s.ColumnAt(2); ok {
		t.Error("ColumnAt(2) should miss")
	}
	if _, ok := s.ColumnAt(-1); ok {
		t.Error("ColumnAt(-1) should miss")
	}

	if col, ok := s.ColumnByName("N_AMOUNT"); !ok || col.Position != 1 {
		t.Errorf("ColumnByName(N_AMOUNT) = %+v, %v", col, ok)
	}
	if _, ok := s.ColumnByName("nope"); ok {
		t.Error("ColumnByName(nope) should miss")
	}
}
