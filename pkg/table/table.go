package table

import (
	"github.com/matzehuels/cellbars/pkg/bar"
	cberrors "github.com/matzehuels/cellbars/pkg/errors"
)

// Column is a named column with raw text and parsed values.
type Column struct {
	Name   string
	Raw    []string
	Values bar.Column
}

// Numeric reports whether the column holds at least one number and no
// more invalid entries than numbers.
func (c Column) Numeric() bool {
	var nums, invalid int
	for _, v := range c.Values {
		switch v.Kind() {
		case bar.KindNumber:
			nums++
		case bar.KindInvalid:
			invalid++
		}
	}
	return nums > 0 && invalid <= nums
}

// Table is a rectangular set of named columns.
type Table struct {
	Columns []Column
	index   map[string]int
}

// New builds a table from columns. Column names must be valid and unique,
// and all columns must have the same length.
func New(cols []Column) (*Table, error) {
	t := &Table{Columns: cols, index: make(map[string]int, len(cols))}
	for i, c := range cols {
		if err := cberrors.ValidateColumnName(c.Name); err != nil {
			return nil, err
		}
		if _, dup := t.index[c.Name]; dup {
			return nil, cberrors.New(cberrors.ErrCodeInvalidInput, "duplicate column %q", c.Name)
		}
		if len(c.Raw) != len(c.Values) || len(c.Raw) != len(cols[0].Raw) {
			return nil, cberrors.New(cberrors.ErrCodeInvalidInput, "column %q has %d rows, want %d", c.Name, len(c.Raw), len(cols[0].Raw))
		}
		t.index[c.Name] = i
	}
	return t, nil
}

// Rows returns the number of data rows.
func (t *Table) Rows() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0].Raw)
}

// Names returns the column names in order.
func (t *Table) Names() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Column looks up a column by name.
func (t *Table) Column(name string) (Column, error) {
	i, ok := t.index[name]
	if !ok {
		return Column{}, cberrors.New(cberrors.ErrCodeColumnNotFound, "column %q not found", name)
	}
	return t.Columns[i], nil
}

// NumericColumns returns the names of columns that look numeric.
func (t *Table) NumericColumns() []string {
	var names []string
	for _, c := range t.Columns {
		if c.Numeric() {
			names = append(names, c.Name)
		}
	}
	return names
}
