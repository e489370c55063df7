package sink

import (
	"bytes"
	"fmt"
	"html"

	"github.com/matzehuels/cellbars/pkg/render"
)

const (
	svgPad    = 8.0
	svgGap    = 4.0
	svgRowH   = 24.0
	svgLabelW = 64.0
	textWidth = 120.0
)

const svgCSS = `
    text { font: 12px system-ui, sans-serif; dominant-baseline: central; }
    .header { font-weight: 600; }
    .title { font-size: 14px; font-weight: 600; }
    .missing { fill: #999; }
    .error { fill: #c62828; font-style: italic; }`

type svgRenderer struct {
	buf  bytes.Buffer
	opts options
}

// RenderSVG renders t as a standalone SVG document. Text columns are a
// fixed width; bar columns use [WithCellWidth].
func RenderSVG(t Table, opts ...Option) []byte {
	r := svgRenderer{opts: newOptions(opts...)}
	rowH := svgRowH

	widths := make([]float64, len(t.Columns))
	total := svgPad * 2
	for i, c := range t.Columns {
		widths[i] = textWidth
		if c.IsBar() {
			widths[i] = float64(r.opts.cellWidth)
		}
		total += widths[i]
	}

	top := svgPad
	if r.opts.title != "" {
		top += rowH
	}
	height := top + rowH*float64(t.Rows()+1) + svgPad

	fmt.Fprintf(&r.buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		total, height, total, height)
	fmt.Fprintf(&r.buf, "  <style>%s\n  </style>\n", svgCSS)
	r.buf.WriteString("  <rect width=\"100%\" height=\"100%\" fill=\"#ffffff\"/>\n")

	if r.opts.title != "" {
		r.text(svgPad, svgPad+rowH/2, "start", "title", "", r.opts.title)
	}

	x := svgPad
	for i, c := range t.Columns {
		r.text(x, top+rowH/2, "start", "header", "", c.Name)
		x += widths[i]
	}
	fmt.Fprintf(&r.buf, `  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#cccccc"/>`+"\n",
		svgPad, top+rowH, total-svgPad, top+rowH)

	for row := range t.Rows() {
		y := top + rowH*float64(row+1)
		x := svgPad
		for i, c := range t.Columns {
			w := widths[i] - svgGap
			if !c.IsBar() {
				r.text(x, y+rowH/2, "start", "", "", c.cellText(row))
			} else if f, ok := c.cell(row); ok {
				r.fragment(f, x, y, w, rowH, render.AlignLeft)
			}
			x += widths[i]
		}
	}

	r.buf.WriteString("</svg>\n")
	return r.buf.Bytes()
}

// fragment draws f into the box (x, y, w, h). align is the inherited
// alignment used to anchor labels.
func (r *svgRenderer) fragment(f render.Fragment, x, y, w, h float64, align render.Alignment) {
	s := f.Style
	if s.Align != "" {
		align = s.Align
	}
	mid := y + h/2

	switch f.Kind {
	case render.KindLabel:
		ax, anchor := x, "start"
		if align == render.AlignRight {
			ax, anchor = x+w, "end"
		}
		r.text(ax, mid, anchor, "", s.Color, f.Text)

	case render.KindPlaceholder, render.KindError:
		class := "missing"
		if f.Kind == render.KindError {
			class = "error"
		}
		r.text(x, mid, "start", class, "", f.Text)

	case render.KindRow:
		r.row(f, x, y, w, h, align)

	case render.KindTrack, render.KindRegion:
		if s.Background != "" {
			r.rect(x, y+2, w, h-4, s.Background)
		}
		for _, c := range f.Children {
			r.fragment(c, x, y, w, h, align)
		}

	case render.KindBar:
		bw := w * s.Width / 100
		bx := x
		switch align {
		case render.AlignRight:
			bx = x + w - bw
		case render.AlignCenter:
			bx = x + (w-bw)/2
		}
		bh := min(float64(s.Height), h-4)
		if bw > 0 {
			r.rect(bx, mid-bh/2, bw, bh, s.Fill)
		}
		for _, c := range f.Children {
			if c.Kind == render.KindLabel {
				r.text(bx+bw/2, mid, "middle", "", c.Style.Color, c.Text)
			}
		}
	}
}

// row splits its width between children: labels get the fixed label
// width, the remaining boxes share the rest equally.
func (r *svgRenderer) row(f render.Fragment, x, y, w, h float64, align render.Alignment) {
	lw := svgLabelW
	var labels, boxes int
	for _, c := range f.Children {
		if c.Kind == render.KindLabel {
			labels++
		} else {
			boxes++
		}
	}
	rest := w - lw*float64(labels)
	if boxes > 0 {
		rest /= float64(boxes)
	}

	for _, c := range f.Children {
		cw := rest
		if c.Kind == render.KindLabel {
			cw = lw - svgGap
		}
		r.fragment(c, x, y, cw, h, align)
		x += cw
		if c.Kind == render.KindLabel {
			x += svgGap
		}
	}
}

func (r *svgRenderer) rect(x, y, w, h float64, fill string) {
	fmt.Fprintf(&r.buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
		x, y, w, h, html.EscapeString(fill))
}

func (r *svgRenderer) text(x, y float64, anchor, class, color, s string) {
	if s == "" {
		return
	}
	fmt.Fprintf(&r.buf, `  <text x="%.1f" y="%.1f" text-anchor="%s"`, x, y, anchor)
	if class != "" {
		fmt.Fprintf(&r.buf, ` class="%s"`, class)
	}
	if color != "" {
		fmt.Fprintf(&r.buf, ` fill="%s"`, html.EscapeString(color))
	}
	fmt.Fprintf(&r.buf, ">%s</text>\n", html.EscapeString(s))
}
