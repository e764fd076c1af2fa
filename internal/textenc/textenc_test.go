package textenc

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestDecodeLines(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		encoding string
		want     []string
	}{
		{
			name:     "plain utf-8",
			input:    "a~b\nc~d\n",
			encoding: "UTF-8",
			want:     []string{"a~b", "c~d"},
		},
		{
			name:     "empty encoding means utf-8",
			input:    "a~b\n",
			encoding: "",
			want:     []string{"a~b"},
		},
		{
			name:     "crlf terminators",
			input:    "a~b\r\nc~d\r\n",
			encoding: "UTF-8",
			want:     []string{"a~b", "c~d"},
		},
		{
			name:     "no trailing newline",
			input:    "a~b\nc~d",
			encoding: "UTF-8",
			want:     []string{"a~b", "c~d"},
		},
		{
			name:     "interior empty lines preserved",
			input:    "a~b\n\nc~d\n",
			encoding: "UTF-8",
			want:     []string{"a~b", "", "c~d"},
		},
		{
			name:     "leading bom stripped",
			input:    "\ufeffa~b\nc~d\n",
			encoding: "UTF-8",
			want:     []string{"a~b", "c~d"},
		},
		{
			name:     "empty input",
			input:    "",
			encoding: "UTF-8",
			want:     nil,
		},
		{
			name:     "windows-1252 accents",
			input:    "S\xe3o Tom\xe9~x\n",
			encoding: "windows-1252",
			want:     []string{"São Tomé~x"},
		},
		{
			name:     "latin1 alias",
			input:    "Lu\xeds~y\n",
			encoding: "ISO-8859-1",
			want:     []string{"Luís~y"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeLines(strings.NewReader(tt.input), tt.encoding)
			if err != nil {
				t.Fatalf("DecodeLines: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DecodeLines() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeLinesUnsupportedEncoding(t *testing.T) {
	_, err := DecodeLines(strings.NewReader("x"), "klingon-8")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "klingon-8") {
		t.Errorf("error should name the encoding: %v", err)
	}
}

func TestReadFileLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feed.dat")
	if err := os.WriteFile(path, []byte("a~b\nc~d\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := ReadFileLines(path, "UTF-8")
	if err != nil {
		t.Fatalf("ReadFileLines: %v", err)
	}
	if want := []string{"a~b", "c~d"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ReadFileLines() = %q, want %q", got, want)
	}
}

func TestReadFileLinesMissingFile(t *testing.T) {
	_, err := ReadFileLines(filepath.Join(t.TempDir(), "nope.dat"), "UTF-8")
	if err == nil {
		t.Error("expected an error")
	}
}
