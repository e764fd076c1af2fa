// Package textenc decodes raw data files into the canonical UTF-8 lines the
// validation engine consumes. Templates declare the feed encoding by name
// (UTF-8, windows-1251, ISO-8859-1, ...); everything downstream of this
// package works on decoded text only.
package textenc

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// utf8BOM is stripped from the first line when present; some upstream
// extracts emit it even for plain UTF-8 files.
const utf8BOM = "\ufeff"

// lookup resolves a declared encoding name to a decoder. UTF-8 (and an
// empty declaration) decode as identity.
func lookup(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8", "ascii", "us-ascii":
		return unicode.UTF8, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unsupported encoding %q: %w", name, err)
	}
	return enc, nil
}

// DecodeLines reads r, decoding from the named encoding, and splits the
// content into logical lines. Line terminators (LF, CRLF) are removed; the
// trailing empty "line" after a final newline is dropped, but interior
// empty lines are preserved for the parser to skip and count consistently.
func DecodeLines(r io.Reader, encodingName string) ([]string, error) {
	enc, err := lookup(encodingName)
	if err != nil {
		return nil, err
	}
	decoded := enc.NewDecoder().Reader(r)

	var lines []string
	scanner := bufio.NewScanner(decoded)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if len(lines) == 0 {
			line = strings.TrimPrefix(line, utf8BOM)
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return lines, nil
}

// ReadFileLines opens path and decodes it with DecodeLines.
func ReadFileLines(path, encodingName string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input file: %w", err)
	}
	defer f.Close()
	return DecodeLines(f, encodingName)
}
