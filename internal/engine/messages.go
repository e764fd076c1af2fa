package engine

// messages.go derives the human-readable message and remediation hint for
// each validation error. Both are deterministic functions of the error
// kind and the column metadata, so re-running a file yields identical
// report content.
//
// Remediation hints for missing values are keyed on well-known column name
// fragments (account, currency, country, ...) from the warehouse feeds this
// tool gates; unknown columns fall back to a generic hint.

import (
	"fmt"
	"strings"

	"github.com/JonMunkholm/DataGate/internal/schema"
)

// errorMessage returns the one-line explanation for a validation error.
func errorMessage(kind ErrorKind, col schema.ColumnDefinition, format schema.FileFormat) string {
	switch kind {
	case ValueMissing:
		return fmt.Sprintf("%s is mandatory but no value was provided", col.Name)
	case InvalidDataType:
		if col.Type == schema.TypeDate {
			return fmt.Sprintf("%s is not a valid %s date", col.Name, format.DateFormat)
		}
		return fmt.Sprintf("%s is not a valid %s", col.Name, strings.ToLower(col.Type.String()))
	case LengthExceeded:
		return fmt.Sprintf("%s exceeds the maximum length of %d characters", col.Name, col.MaxLength)
	case InvalidFormat:
		return fmt.Sprintf("%s does not match the expected %s format", col.Name, strings.ToLower(col.Type.String()))
	case ColumnCountMismatch:
		return "record field count does not match the table definition"
	default:
		return fmt.Sprintf("%s failed validation", col.Name)
	}
}

// missingValueHints maps column name fragments to remediation hints.
// The first matching fragment wins, so more specific fragments come first.
var missingValueHints = []struct {
	fragment string
	hint     string
}{
	{"country", "Add a 2-letter country code (e.g., AO for Angola, PT for Portugal)"},
	{"currency", "Add a 3-letter currency code (e.g., AOA, USD, EUR)"},
	{"branch", "Provide a valid branch code from your branch master data"},
	{"account", "Provide a valid account number"},
	{"customer", "Provide a valid customer ID"},
	{"date", "Add a date in the file's declared date format"},
	{"status", "Provide a valid status code (e.g., ACTIVE, CLOSED)"},
	{"type", "Provide a valid type code"},
	{"address", "Provide valid address information"},
	{"seq", "Provide a valid sequence ID"},
}

// suggestedFix returns the remediation hint for a validation error.
func suggestedFix(kind ErrorKind, col schema.ColumnDefinition, format schema.FileFormat, value string) string {
	switch kind {
	case ValueMissing:
		lower := strings.ToLower(col.Name)
		for _, h := range missingValueHints {
			if strings.Contains(lower, h.fragment) {
				return h.hint
			}
		}
		return fmt.Sprintf("Provide a value for %s", col.Name)

	case InvalidDataType:
		if col.Type == schema.TypeDate {
			return fmt.Sprintf("Convert the value to %s (e.g., a calendar-valid date)", format.DateFormat)
		}
		return fmt.Sprintf("Remove non-numeric characters; %q is not a signed decimal number", truncateValue(value))

	case LengthExceeded:
		runes := []rune(value)
		if col.MaxLength > 0 && len(runes) > col.MaxLength {
			return fmt.Sprintf("Truncate to %d characters: %q", col.MaxLength, string(runes[:col.MaxLength]))
		}
		return fmt.Sprintf("Shorten the value to at most %d characters", col.MaxLength)

	case InvalidFormat:
		switch col.Type {
		case schema.TypeEmail:
			return "Provide a valid email address (e.g., user@example.com)"
		case schema.TypePhone:
			return "Use digits with optional separators, 7-15 digits total (e.g., +244 923 000 000)"
		}
		return fmt.Sprintf("Correct the format of %s", col.Name)

	case ColumnCountMismatch:
		return fmt.Sprintf("Check for stray %q delimiters or missing fields in the record", format.Delimiter)

	default:
		return ""
	}
}
