package sink

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/cellbars/pkg/render"
)

// partialBlocks are left-aligned eighth blocks, index n covers n/8 of a cell.
var partialBlocks = [...]string{"", "▏", "▎", "▍", "▌", "▋", "▊", "▉"}

const fullBlock = "█"

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	missingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Italic(true)
	borderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	titleStyle   = lipgloss.NewStyle().Bold(true).MarginBottom(1)
)

// RenderTerminal renders t as a bordered text table with block-character
// bars. Colors follow the fragment fills unless [WithPlain] is set.
func RenderTerminal(t Table, opts ...Option) string {
	o := newOptions(opts...)
	tr := termRenderer{opts: o}

	headers := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		headers[i] = c.Name
	}

	rows := make([][]string, t.Rows())
	for i := range rows {
		rows[i] = make([]string, len(t.Columns))
		for j, c := range t.Columns {
			if !c.IsBar() {
				rows[i][j] = c.cellText(i)
			} else if f, ok := c.cell(i); ok {
				rows[i][j] = tr.cell(f)
			}
		}
	}

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(headers...).
		Rows(rows...)
	if !o.plain {
		tbl = tbl.BorderStyle(borderStyle).
			StyleFunc(func(row, _ int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle
				}
				return cellStyle
			})
	}

	out := tbl.String()
	if o.title != "" {
		title := o.title + "\n"
		if !o.plain {
			title = titleStyle.Render(o.title) + "\n"
		}
		out = title + out
	}
	return out
}

type termRenderer struct {
	opts options
}

// cell renders one fragment tree as a single line.
func (r termRenderer) cell(f render.Fragment) string {
	switch f.Kind {
	case render.KindPlaceholder:
		return r.style(missingStyle, f.Text)
	case render.KindError:
		return r.style(errorStyle, "! "+f.Text)
	}

	if isSigned(f) {
		return r.signed(f)
	}

	var parts []string
	for _, c := range f.Children {
		switch c.Kind {
		case render.KindLabel:
			parts = append(parts, c.Text)
		case render.KindTrack:
			parts = append(parts, r.track(c, r.opts.barChars))
			if l, ok := c.Find(render.KindLabel); ok {
				parts = append(parts, l.Text)
			}
		}
	}
	return strings.Join(parts, " ")
}

func isSigned(f render.Fragment) bool {
	for _, c := range f.Children {
		if c.Kind == render.KindRegion {
			return true
		}
	}
	return false
}

// signed joins the two regions around a center axis.
func (r termRenderer) signed(f render.Fragment) string {
	half := r.opts.barChars / 2
	var regions, labels []string
	for _, c := range f.Children {
		switch c.Kind {
		case render.KindRegion:
			regions = append(regions, r.track(c, half))
			if l, ok := c.Find(render.KindLabel); ok {
				labels = append(labels, l.Text)
			}
		case render.KindLabel:
			labels = append(labels, c.Text)
		}
	}
	axis := strings.Join(regions, "│")
	if len(labels) == 0 {
		return axis
	}
	if f.Style.Align == render.AlignRight {
		return axis + " " + labels[0]
	}
	return labels[0] + " " + axis
}

// track draws a box n characters wide holding at most one bar.
func (r termRenderer) track(f render.Fragment, n int) string {
	var b render.Fragment
	for _, c := range f.Children {
		if c.Kind == render.KindBar {
			b = c
		}
	}

	bar := blocks(b.Style.Width, n)
	width := lipgloss.Width(bar)
	if b.Kind == render.KindBar {
		bar = r.style(lipgloss.NewStyle().Foreground(lipgloss.Color(b.Style.Fill)), bar)
	}

	pad := strings.Repeat(" ", n-width)
	if f.Style.Background != "" {
		pad = r.style(lipgloss.NewStyle().Background(lipgloss.Color(f.Style.Background)), pad)
	}

	switch f.Style.Align {
	case render.AlignRight:
		return pad + bar
	case render.AlignCenter:
		left := (n - width) / 2
		return strings.Repeat(" ", left) + bar + strings.Repeat(" ", n-width-left)
	default:
		return bar + pad
	}
}

// blocks returns a bar of width percent of n cells in eighth-cell steps.
func blocks(width float64, n int) string {
	if width <= 0 || n <= 0 {
		return ""
	}
	eighths := int(math.Round(width / 100 * float64(n) * 8))
	if eighths == 0 {
		eighths = 1
	}
	eighths = min(eighths, n*8)
	return strings.Repeat(fullBlock, eighths/8) + partialBlocks[eighths%8]
}

func (r termRenderer) style(s lipgloss.Style, text string) string {
	if r.opts.plain || text == "" {
		return text
	}
	return s.Render(text)
}
