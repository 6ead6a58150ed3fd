package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestTable_render(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTable(&buf, "UNIT", "DEPS", "PRIVATE", "LAST")
	tbl.Row("core", 2, false, "")
	tbl.Row("internal-tools", 1, true)
	if err := tbl.Flush(); err != nil {
		t.Fatal(err)
	}
	if tbl.Len() != 2 {
		t.Errorf("Len() = %d, want 2", tbl.Len())
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines (header + 2 rows), got %d", len(lines))
	}
	if f := strings.Fields(lines[1]); strings.Join(f, " ") != "core 2 no -" {
		t.Errorf("row 1 = %q", lines[1])
	}
	if f := strings.Fields(lines[2]); strings.Join(f, " ") != "internal-tools 1 yes -" {
		t.Errorf("row 2 = %q", lines[2])
	}
	if strings.Index(lines[0], "DEPS") != strings.Index(lines[1], "2") {
		t.Errorf("columns not aligned:\n%s", buf.String())
	}
}

func TestTable_headerOnly(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTable(&buf, "A", "B")
	if err := tbl.Flush(); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Errorf("expected 1 line (header only), got %d", len(lines))
	}
}
