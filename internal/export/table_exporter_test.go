package export

import (
	"bytes"
	"strings"
	"testing"
)

func sampleTable() Table {
	return Table{
		Sheet:   "Books",
		Title:   "Book listing",
		Headers: []string{"Title", "Price"},
		Rows: [][]string{
			{"Dune", "9.99"},
			{"Solaris", "7.50"},
		},
	}
}

func TestBuildXLSXLayout(t *testing.T) {
	f, err := sampleTable().BuildXLSX()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	defer f.Close()

	if idx, _ := f.GetSheetIndex("Books"); idx == -1 {
		t.Fatal("expected sheet renamed to Books")
	}

	checks := map[string]string{
		"A1": "Book listing",
		"A2": "Title",
		"B2": "Price",
		"A3": "Dune",
		"B4": "7.50",
	}
	for cell, want := range checks {
		got, err := f.GetCellValue("Books", cell)
		if err != nil {
			t.Fatalf("read %s: %v", cell, err)
		}
		if got != want {
			t.Errorf("cell %s: expected %q, got %q", cell, want, got)
		}
	}
}

func TestWriteXLSXProducesWorkbook(t *testing.T) {
	var buf bytes.Buffer
	if err := sampleTable().WriteXLSX(&buf); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("expected non-empty workbook")
	}
	// xlsx is a zip container.
	if !bytes.HasPrefix(buf.Bytes(), []byte{'P', 'K'}) {
		t.Error("expected zip magic at start of workbook")
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := sampleTable().WriteCSV(&buf); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), buf.String())
	}
	if lines[0] != "Title,Price" {
		t.Errorf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "Dune,9.99" {
		t.Errorf("unexpected first row: %q", lines[1])
	}
}
