package render

import (
	"context"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/cellbars/pkg/bar"
	"github.com/matzehuels/cellbars/pkg/bar/palette"
	cberrors "github.com/matzehuels/cellbars/pkg/errors"
)

// RowContext describes the host row a cell belongs to.
type RowContext struct {
	Index  int    // zero-based row index
	Column string // column name, if the host has one
}

// CellFunc is the extension point a host table registers per column.
type CellFunc func(v bar.Value, row RowContext) Fragment

// Renderer is a validated, compiled bar configuration for one mode.
// It is immutable and may be shared across columns and goroutines.
type Renderer struct {
	mode bar.Mode
	cfg  Config
	c    compiled
}

// New validates cfg and compiles it for mode. All configuration errors,
// including an empty color list, are reported here.
func New(cfg Config, mode bar.Mode) (*Renderer, error) {
	cfg.Colors = slices.Clone(cfg.Colors)
	cfg.setDefaults(mode)

	c, err := compile(cfg, mode)
	if err != nil {
		return nil, err
	}
	return &Renderer{mode: mode, cfg: cfg, c: c}, nil
}

// DataBars returns a renderer for plain bars.
func DataBars(cfg Config) (*Renderer, error) { return New(cfg, bar.Unsigned) }

// PosNegBars returns a renderer for diverging positive/negative bars.
func PosNegBars(cfg Config) (*Renderer, error) { return New(cfg, bar.Signed) }

// Mode returns the renderer's mode.
func (r *Renderer) Mode() bar.Mode { return r.mode }

// Config returns the effective configuration, defaults applied.
func (r *Renderer) Config() Config { return r.cfg }

// Prepare computes the column-wide extent and scale once. The returned
// Column renders any value against that scale.
func (r *Renderer) Prepare(values bar.Column) *Column {
	ext := bar.ComputeExtent(values)
	opts := []bar.ScaleOption{bar.WithNegativePolicy(r.c.negatives)}
	if r.c.maxValue > 0 {
		opts = append(opts, bar.WithDenominator(r.c.maxValue))
	}
	return &Column{
		r:      r,
		values: values,
		extent: ext,
		scale:  bar.NewScale(ext, r.mode, opts...),
	}
}

// Column is a renderer bound to one column's scale.
type Column struct {
	r      *Renderer
	values bar.Column
	extent bar.Extent
	scale  bar.Scale
}

// Extent returns the column statistics the scale was built from.
func (c *Column) Extent() bar.Extent { return c.extent }

// Scale returns the shared column scale.
func (c *Column) Scale() bar.Scale { return c.scale }

// Len returns the number of cells in the column.
func (c *Column) Len() int { return len(c.values) }

// CellFunc returns c.Cell as the host extension point.
func (c *Column) CellFunc() CellFunc { return c.Cell }

// Cell renders v. It never fails: missing values render as a placeholder
// and per-cell errors as a KindError fragment.
func (c *Column) Cell(v bar.Value, row RowContext) Fragment {
	m, err := c.scale.Measure(v)
	if err != nil {
		return Fragment{
			Kind:  KindError,
			Text:  cberrors.UserMessage(err),
			Code:  cberrors.GetCode(err),
			Style: Style{Align: c.r.c.align},
			Row:   row.Index,
		}
	}
	if m.Missing {
		return Fragment{
			Kind:  KindPlaceholder,
			Text:  c.r.cfg.Placeholder,
			Style: Style{Align: c.r.c.align},
			Row:   row.Index,
		}
	}

	f, _ := v.Float()
	text := c.r.c.format.String(f)
	fill := c.r.c.gradient.At(m.Position)

	var frag Fragment
	if c.r.mode == bar.Signed {
		frag = c.signedCell(m, fill, text)
	} else {
		frag = c.unsignedCell(m, fill, text)
	}
	frag.Row = row.Index
	return frag
}

// Render renders every cell of the column. Cells are independent, so they
// are fanned out over a bounded errgroup.
func (c *Column) Render(ctx context.Context) ([]Fragment, error) {
	const chunk = 256

	out := make([]Fragment, len(c.values))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for start := 0; start < len(c.values); start += chunk {
		end := min(start+chunk, len(c.values))
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for i := start; i < end; i++ {
				out[i] = c.Cell(c.values[i], RowContext{Index: i})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Column) barNode(m bar.Measure, fill string) Fragment {
	return Fragment{
		Kind:  KindBar,
		Style: Style{Width: m.Width, Height: c.r.c.barHeight, Fill: fill},
	}
}

func (c *Column) labelNode(text, fill string, inside bool) Fragment {
	l := Fragment{Kind: KindLabel, Text: text}
	if inside && c.r.cfg.BrightenText {
		l.Style.Color = palette.Contrast(fill)
	}
	return l
}

// withLabel places the label before the bar content, or after it for
// right-aligned cells.
func (c *Column) withLabel(content []Fragment, lbl Fragment) []Fragment {
	if c.r.c.align == AlignRight {
		return append(content, lbl)
	}
	return append([]Fragment{lbl}, content...)
}

func (c *Column) unsignedCell(m bar.Measure, fill, text string) Fragment {
	b := c.barNode(m, fill)
	inside := c.r.c.textPos == TextInside && m.Width > 0
	if inside {
		b.Children = []Fragment{c.labelNode(text, fill, true)}
	}

	track := Fragment{
		Kind:     KindTrack,
		Style:    Style{Background: c.r.c.background, Align: c.r.c.align},
		Children: []Fragment{b},
	}

	row := Fragment{Kind: KindRow, Style: Style{Align: c.r.c.align}, Children: []Fragment{track}}
	if c.r.c.textPos != TextNone && !inside {
		row.Children = c.withLabel(row.Children, c.labelNode(text, fill, false))
	}
	return row
}

func (c *Column) signedCell(m bar.Measure, fill, text string) Fragment {
	neg := Fragment{Kind: KindRegion, Style: Style{Background: c.r.c.background, Align: AlignRight}}
	pos := Fragment{Kind: KindRegion, Style: Style{Background: c.r.c.background, Align: AlignLeft}}

	inside := c.r.c.textPos == TextInside && m.Width > 0
	if m.Direction != bar.DirNone {
		b := c.barNode(m, fill)
		if inside {
			b.Children = []Fragment{c.labelNode(text, fill, true)}
		}
		if m.Direction == bar.DirLeft {
			neg.Children = []Fragment{b}
		} else {
			pos.Children = []Fragment{b}
		}
	}

	row := Fragment{Kind: KindRow, Style: Style{Align: c.r.c.align}, Children: []Fragment{neg, pos}}
	if c.r.c.textPos != TextNone && !inside {
		row.Children = c.withLabel(row.Children, c.labelNode(text, fill, false))
	}
	return row
}
