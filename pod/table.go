package pod

import (
	"fmt"
	"io"
	"strings"
)

// FormatFunc colours a cell after its width has been measured
type FormatFunc func(value string) string

type ColumnSpec struct {
	Header     string
	BlankValue string // shown for empty cells, "-" by default
	FormatFunc FormatFunc
	MinWidth   int
	Right      bool // right-align, for numbers and addresses
}

// Table renders rows as aligned plain-text columns for the diagnostics commands
type Table struct {
	columns []ColumnSpec
	rows    [][]string
	widths  []int
}

func NewTable(cols ...ColumnSpec) *Table {
	t := &Table{
		columns: cols,
		widths:  make([]int, len(cols)),
	}
	for i := range t.columns {
		if t.columns[i].BlankValue == "" {
			t.columns[i].BlankValue = "-"
		}
		t.widths[i] = max(t.columns[i].MinWidth, len(t.columns[i].Header))
	}
	return t
}

// AddRow appends a row; missing or empty cells get the column's blank value
func (t *Table) AddRow(data ...string) {
	row := make([]string, len(t.columns))
	for i := range row {
		if i < len(data) && data[i] != "" {
			row[i] = data[i]
		} else {
			row[i] = t.columns[i].BlankValue
		}
		t.widths[i] = max(t.widths[i], visibleLength(row[i]))
	}
	t.rows = append(t.rows, row)
}

// Len is the number of rows added so far
func (t *Table) Len() int { return len(t.rows) }

func (t *Table) Render(w io.Writer) error {
	cells := make([]string, len(t.columns))

	for i, col := range t.columns {
		cells[i] = t.pad(i, col.Header)
	}
	if _, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, " "), " ")); err != nil {
		return err
	}
	for i := range cells {
		cells[i] = strings.Repeat("-", t.widths[i])
	}
	if _, err := fmt.Fprintln(w, strings.Join(cells, " ")); err != nil {
		return err
	}

	for _, row := range t.rows {
		for i, val := range row {
			cells[i] = t.pad(i, val)
			if f := t.columns[i].FormatFunc; f != nil {
				// padding stays outside the escape codes
				cells[i] = strings.Replace(cells[i], val, f(val), 1)
			}
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, " "), " ")); err != nil {
			return err
		}
	}
	return nil
}

func (t *Table) pad(col int, s string) string {
	n := t.widths[col] - visibleLength(s)
	if n <= 0 {
		return s
	}
	if t.columns[col].Right {
		return strings.Repeat(" ", n) + s
	}
	return s + strings.Repeat(" ", n)
}

// visibleLength counts runes outside ANSI escape sequences
func visibleLength(s string) int {
	length := 0
	inEscape := false
	for _, r := range s {
		switch {
		case r == '\033':
			inEscape = true
		case inEscape:
			inEscape = r != 'm'
		default:
			length++
		}
	}
	return length
}
