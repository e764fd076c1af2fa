package schema

// template.go loads table schemas from declarative XML templates.
//
// A template looks like:
//
//	<Table name="DIM_ACCOUNT" description="Account dimension">
//	  <FileFormat delimiter="~" encoding="UTF-8" dateFormat="YYYYMMDD"/>
//	  <Columns>
//	    <Column position="0" name="v_account_number" dataType="VARCHAR2"
//	            length="50" nullable="false" description="Account number"/>
//	  </Columns>
//	</Table>
//
// Loading a directory is best-effort per template: a malformed template is
// logged and skipped so that one bad file does not block the rest of the
// batch. Zero loadable templates is a hard error.

import (
	"encoding/xml"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// ErrNoTemplates is returned when a templates directory yields no usable
// table schemas.
var ErrNoTemplates = errors.New("no usable templates found")

type xmlTemplate struct {
	XMLName     xml.Name    `xml:"Table"`
	Name        string      `xml:"name,attr"`
	Description string      `xml:"description,attr"`
	Format      *xmlFormat  `xml:"FileFormat"`
	Columns     []xmlColumn `xml:"Columns>Column"`
}

type xmlFormat struct {
	Delimiter  string `xml:"delimiter,attr"`
	Encoding   string `xml:"encoding,attr"`
	DateFormat string `xml:"dateFormat,attr"`
}

type xmlColumn struct {
	Position    string `xml:"position,attr"`
	Name        string `xml:"name,attr"`
	DataType    string `xml:"dataType,attr"`
	Length      string `xml:"length,attr"`
	Nullable    string `xml:"nullable,attr"`
	Description string `xml:"description,attr"`
}

// LoadTemplate parses a single XML template file into a TableSchema.
func LoadTemplate(path string) (*TableSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template %s: %w", path, err)
	}

	var tpl xmlTemplate
	if err := xml.Unmarshal(data, &tpl); err != nil {
		return nil, fmt.Errorf("parse template %s: %w", path, err)
	}

	name := strings.ToUpper(strings.TrimSpace(tpl.Name))
	if name == "" {
		// Fall back to the filename stem, as the original templates do.
		name = strings.ToUpper(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	}

	var format FileFormat
	if tpl.Format != nil {
		format = FileFormat{
			Delimiter:  tpl.Format.Delimiter,
			Encoding:   tpl.Format.Encoding,
			DateFormat: tpl.Format.DateFormat,
		}
	}

	columns := make([]ColumnDefinition, 0, len(tpl.Columns))
	for i, xc := range tpl.Columns {
		col, err := parseColumn(xc, i)
		if err != nil {
			return nil, &SchemaError{Table: name, Reason: err.Error()}
		}
		columns = append(columns, col)
	}
	sort.Slice(columns, func(i, j int) bool { return columns[i].Position < columns[j].Position })

	return NewTableSchema(name, strings.TrimSpace(tpl.Description), format, columns)
}

func parseColumn(xc xmlColumn, defaultPos int) (ColumnDefinition, error) {
	pos := defaultPos
	if strings.TrimSpace(xc.Position) != "" {
		p, err := strconv.Atoi(strings.TrimSpace(xc.Position))
		if err != nil {
			return ColumnDefinition{}, fmt.Errorf("column %q: invalid position %q", xc.Name, xc.Position)
		}
		pos = p
	}

	typ, ok := ParseDataType(xc.DataType)
	if !ok {
		return ColumnDefinition{}, fmt.Errorf("column %q: unrecognized dataType %q", xc.Name, xc.DataType)
	}

	maxLen := 0
	if strings.TrimSpace(xc.Length) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(xc.Length))
		if err != nil || n < 0 {
			return ColumnDefinition{}, fmt.Errorf("column %q: invalid length %q", xc.Name, xc.Length)
		}
		maxLen = n
	}

	return ColumnDefinition{
		Position:    pos,
		Name:        strings.TrimSpace(xc.Name),
		Type:        typ,
		MaxLength:   maxLen,
		Nullable:    parseNullable(xc.Nullable),
		Description: strings.TrimSpace(xc.Description),
	}, nil
}

// parseNullable interprets the nullable attribute. The original templates
// spell mandatory columns several ways; anything not recognized as "not
// nullable" defaults to nullable.
func parseNullable(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "false", "n", "no", "0", "required", "mandatory":
		return false
	default:
		return true
	}
}

// LoadTemplates parses every *.xml file in dir into a Registry.
//
// A template that fails to parse, or that declares a table name already
// registered by an earlier template, is logged as a warning and skipped.
// Returns ErrNoTemplates when nothing loads.
func LoadTemplates(dir string, logger *slog.Logger) (*Registry, error) {
	if logger == nil {
		logger = slog.Default()
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("templates directory %s: %w", dir, err)
	}

	reg := NewRegistry()
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".xml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())

		s, err := LoadTemplate(path)
		if err != nil {
			logger.Warn("skipping template", "template", entry.Name(), "error", err)
			continue
		}
		if err := reg.Register(s); err != nil {
			logger.Warn("skipping template", "template", entry.Name(), "error", err)
			continue
		}
		logger.Info("loaded template", "table", s.TableName, "columns", s.ColumnCount())
	}

	if reg.Count() == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoTemplates, dir)
	}
	return reg, nil
}
