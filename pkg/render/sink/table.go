package sink

import "github.com/matzehuels/cellbars/pkg/render"

// Column is one column of a rendered table. Bar columns carry Cells; text
// columns carry Text.
type Column struct {
	Name  string
	Cells []render.Fragment
	Text  []string
}

// IsBar reports whether the column holds rendered bars.
func (c Column) IsBar() bool { return c.Cells != nil }

// Len returns the number of rows in the column.
func (c Column) Len() int {
	if c.IsBar() {
		return len(c.Cells)
	}
	return len(c.Text)
}

// Table is the sink input: columns in display order.
type Table struct {
	Columns []Column
}

// Rows returns the length of the longest column.
func (t Table) Rows() int {
	n := 0
	for _, c := range t.Columns {
		n = max(n, c.Len())
	}
	return n
}

// Option configures any sink.
type Option func(*options)

type options struct {
	title      string
	cellWidth  int
	barChars   int
	standalone bool
	plain      bool
}

const (
	defaultCellWidth = 160
	defaultBarChars  = 20
)

// WithTitle sets a caption (HTML, SVG, terminal) or title field (JSON).
func WithTitle(s string) Option { return func(o *options) { o.title = s } }

// WithCellWidth sets the pixel width of bar cells in HTML and SVG output.
func WithCellWidth(px int) Option { return func(o *options) { o.cellWidth = px } }

// WithBarChars sets the character width of terminal bars.
func WithBarChars(n int) Option { return func(o *options) { o.barChars = n } }

// WithStandalone wraps HTML output in a complete document.
func WithStandalone() Option { return func(o *options) { o.standalone = true } }

// WithPlain disables terminal colors.
func WithPlain() Option { return func(o *options) { o.plain = true } }

func newOptions(opts ...Option) options {
	o := options{
		cellWidth: defaultCellWidth,
		barChars:  defaultBarChars,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.cellWidth <= 0 {
		o.cellWidth = defaultCellWidth
	}
	if o.barChars <= 0 {
		o.barChars = defaultBarChars
	}
	return o
}

// cellText returns the text content of row i, or "" past the column end.
func (c Column) cellText(i int) string {
	if i < len(c.Text) {
		return c.Text[i]
	}
	return ""
}

// cell returns the fragment at row i and whether it exists.
func (c Column) cell(i int) (render.Fragment, bool) {
	if i < len(c.Cells) {
		return c.Cells[i], true
	}
	return render.Fragment{}, false
}
