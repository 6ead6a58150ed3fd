package ui

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Table renders rows in aligned columns. Empty cells print as "-" and
// booleans as yes/no.
type Table struct {
	w    *tabwriter.Writer
	cols int
	rows int
}

// NewTable creates a table writer with the given column headers.
func NewTable(out io.Writer, headers ...string) *Table {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, strings.Join(headers, "\t"))
	return &Table{w: tw, cols: len(headers)}
}

// Row appends a row. Missing trailing values are rendered empty.
func (t *Table) Row(values ...any) {
	parts := make([]string, max(len(values), t.cols))
	for i := range parts {
		if i < len(values) {
			parts[i] = cell(values[i])
		} else {
			parts[i] = "-"
		}
	}
	_, _ = fmt.Fprintln(t.w, strings.Join(parts, "\t"))
	t.rows++
}

// Len returns the number of rows written.
func (t *Table) Len() int {
	return t.rows
}

// Flush writes the buffered output.
func (t *Table) Flush() error {
	return t.w.Flush()
}

func cell(v any) string {
	switch v := v.(type) {
	case bool:
		if v {
			return "yes"
		}
		return "no"
	case string:
		if v == "" {
			return "-"
		}
		return v
	default:
		return fmt.Sprint(v)
	}
}
