package report

import (
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestWorkbookSheets(t *testing.T) {
	s := reportSchema(t)
	res := sampleResult(t, s)
	w, _ := testWriter(t)

	a, err := w.WriteAll(s, res)
	if err != nil {
		t.Fatalf("WriteAll: %v", err)
	}

	f, err := excelize.OpenFile(a.Workbook)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	if got, want := f.GetSheetList(), []string{"Summary", "Errors", "Valid Records"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("sheets = %v, want %v", got, want)
	}

	table, err := f.GetCellValue("Summary", "B1")
	if err != nil {
		t.Fatal(err)
	}
	if table != "DIM_ACCOUNT" {
		t.Errorf("Summary B1 = %q, want DIM_ACCOUNT", table)
	}

	kind, err := f.GetCellValue("Errors", "C2")
	if err != nil {
		t.Fatal(err)
	}
	if kind == "" {
		t.Error("Errors C2 is empty, expected an error kind")
	}

	rows, err := f.GetRows("Valid Records")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1+res.ValidCount() {
		t.Errorf("Valid Records has %d rows, want header + %d", len(rows), res.ValidCount())
	}
}
