package schema

// detect.go maps data file names to registered table names. Feed files
// typically arrive as <TABLE>_<YYYYMMDD>.dat or <TABLE>_DLY_1.txt, so the
// stem is cleaned of date and frequency suffixes before matching.
//
// Detection is a pure function over the registry; the validation engine
// itself never depends on it. Only the CLI uses it, and an explicit -table
// flag always wins.

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

var (
	dateSuffixRe = regexp.MustCompile(`_?\d{8}`)
	freqSuffixRe = regexp.MustCompile(`(?i)_?(DLY|MLY|DAILY|WEEKLY|MONTHLY)_?\d*`)
)

// DetectTable resolves the table name for a data file from its filename.
//
// Matching order: exact match on the cleaned stem, then longest registered
// name contained in the stem (or containing it), then a single-table
// registry falls through to its only table. Returns an error naming the
// file and the available tables when nothing matches.
func DetectTable(reg *Registry, filename string) (string, error) {
	base := filepath.Base(filename)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	clean := strings.ToUpper(stem)
	clean = dateSuffixRe.ReplaceAllString(clean, "")
	clean = freqSuffixRe.ReplaceAllString(clean, "")
	clean = strings.Trim(clean, "_")

	if s, ok := reg.Get(clean); ok {
		return s.TableName, nil
	}

	// Longest name first so ACCOUNT_ADDRESS beats ACCOUNT.
	names := reg.Names()
	sort.Slice(names, func(i, j int) bool { return len(names[i]) > len(names[j]) })
	if clean != "" {
		for _, name := range names {
			upper := strings.ToUpper(name)
			if strings.Contains(clean, upper) || strings.Contains(upper, clean) {
				return name, nil
			}
		}
	}

	if reg.Count() == 1 {
		return names[0], nil
	}

	return "", fmt.Errorf("cannot detect table for file %q (cleaned stem %q); available tables: %s; pass the table name explicitly",
		base, clean, strings.Join(reg.Names(), ", "))
}
