package render

import cberrors "github.com/matzehuels/cellbars/pkg/errors"

// Kind identifies a node in a fragment tree.
type Kind uint8

const (
	// KindRow is the outermost flex row of a cell.
	KindRow Kind = iota
	// KindRegion is one half of a positive/negative cell.
	KindRegion
	// KindTrack is the full-length box a bar is drawn in.
	KindTrack
	// KindBar is the colored rectangle.
	KindBar
	// KindLabel is the formatted value.
	KindLabel
	// KindPlaceholder stands in for a missing value.
	KindPlaceholder
	// KindError marks a cell that could not be rendered.
	KindError
)

var kindNames = [...]string{"row", "region", "track", "bar", "label", "placeholder", "error"}

// String returns the lowercase kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Style is the presentational state of a fragment node. Unset fields are
// zero; sinks skip them.
type Style struct {
	Width      float64   // bar length in percent of its track or region
	Height     int       // bar thickness in pixels
	Fill       string    // bar color
	Background string    // track or region color
	Color      string    // text color
	Align      Alignment // anchor of children along the main axis
}

// Fragment is a small tree of styled boxes describing one rendered cell.
type Fragment struct {
	Kind     Kind
	Text     string
	Style    Style
	Children []Fragment

	// Row is the host row index the fragment was rendered for.
	Row int
	// Code is set on KindError fragments.
	Code cberrors.Code
}

// Walk visits f and its descendants depth-first. Returning false from fn
// skips the children of the current node.
func (f Fragment) Walk(fn func(Fragment) bool) {
	if !fn(f) {
		return
	}
	for _, c := range f.Children {
		c.Walk(fn)
	}
}

// Find returns the first node of kind k in f, depth-first.
func (f Fragment) Find(k Kind) (Fragment, bool) {
	var found Fragment
	ok := false
	f.Walk(func(n Fragment) bool {
		if ok {
			return false
		}
		if n.Kind == k {
			found, ok = n, true
			return false
		}
		return true
	})
	return found, ok
}

// Label returns the cell's label text, or "" when the label is hidden.
func (f Fragment) Label() string {
	if f.Kind == KindPlaceholder || f.Kind == KindError {
		return f.Text
	}
	if l, ok := f.Find(KindLabel); ok {
		return l.Text
	}
	return ""
}

// Bar returns the cell's bar node. Cells without a drawn bar (missing
// values, errors, zero values) report false.
func (f Fragment) Bar() (Fragment, bool) {
	b, ok := f.Find(KindBar)
	if !ok || b.Style.Width == 0 {
		return Fragment{}, false
	}
	return b, true
}
