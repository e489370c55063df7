package sink

import (
	"bytes"
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/cellbars/pkg/render"
)

const tableCSS = `
    table.cellbars { border-collapse: collapse; font: 13px/1.4 system-ui, sans-serif; }
    table.cellbars th, table.cellbars td { padding: 2px 8px; border-bottom: 1px solid #e5e5e5; }
    table.cellbars th { text-align: left; font-weight: 600; }
    .cellbars-missing { color: #999; }
    .cellbars-error { color: #c62828; font-style: italic; }`

// RenderHTML renders t as an HTML table. Bar cells become nested flexbox
// divs with inline styles, so the markup survives being pasted into pages
// that do not load the stylesheet.
func RenderHTML(t Table, opts ...Option) []byte {
	o := newOptions(opts...)

	var buf bytes.Buffer
	if o.standalone {
		buf.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
		if o.title != "" {
			fmt.Fprintf(&buf, "<title>%s</title>\n", html.EscapeString(o.title))
		}
		fmt.Fprintf(&buf, "<style>%s\n</style>\n</head>\n<body>\n", tableCSS)
	}

	buf.WriteString("<table class=\"cellbars\">\n")
	if o.title != "" {
		fmt.Fprintf(&buf, "<caption>%s</caption>\n", html.EscapeString(o.title))
	}

	buf.WriteString("<thead><tr>")
	for _, c := range t.Columns {
		fmt.Fprintf(&buf, "<th>%s</th>", html.EscapeString(c.Name))
	}
	buf.WriteString("</tr></thead>\n<tbody>\n")

	for i := range t.Rows() {
		buf.WriteString("<tr>")
		for _, c := range t.Columns {
			if !c.IsBar() {
				fmt.Fprintf(&buf, "<td>%s</td>", html.EscapeString(c.cellText(i)))
				continue
			}
			fmt.Fprintf(&buf, "<td style=\"width:%dpx\">", o.cellWidth)
			if f, ok := c.cell(i); ok {
				writeFragmentHTML(&buf, f)
			}
			buf.WriteString("</td>")
		}
		buf.WriteString("</tr>\n")
	}
	buf.WriteString("</tbody>\n</table>\n")

	if o.standalone {
		buf.WriteString("</body>\n</html>\n")
	}
	return buf.Bytes()
}

// FragmentHTML renders a single cell, for hosts that build their own table.
func FragmentHTML(f render.Fragment) string {
	var buf bytes.Buffer
	writeFragmentHTML(&buf, f)
	return buf.String()
}

func writeFragmentHTML(buf *bytes.Buffer, f render.Fragment) {
	switch f.Kind {
	case render.KindLabel:
		fmt.Fprintf(buf, `<span style="%s">%s</span>`, labelCSS(f.Style), html.EscapeString(f.Text))
		return
	case render.KindPlaceholder:
		fmt.Fprintf(buf, `<span class="cellbars-missing">%s</span>`, html.EscapeString(f.Text))
		return
	case render.KindError:
		fmt.Fprintf(buf, `<span class="cellbars-error" title="%s">%s</span>`,
			html.EscapeString(string(f.Code)), html.EscapeString(f.Text))
		return
	}

	fmt.Fprintf(buf, `<div style="%s">`, boxCSS(f))
	for _, c := range f.Children {
		writeFragmentHTML(buf, c)
	}
	buf.WriteString("</div>")
}

func boxCSS(f render.Fragment) string {
	s := f.Style
	var css []string
	switch f.Kind {
	case render.KindRow:
		css = append(css, "display:flex", "align-items:center", "gap:6px", "width:100%")
	case render.KindRegion:
		css = append(css, "display:flex", "flex:1 1 0", "min-width:0")
	case render.KindTrack:
		css = append(css, "display:flex", "flex:1 1 auto", "min-width:0")
	case render.KindBar:
		css = append(css,
			"display:flex", "align-items:center", "justify-content:center",
			"width:"+percent(s.Width),
			"height:"+strconv.Itoa(s.Height)+"px",
			"background:"+s.Fill,
		)
	}
	if f.Kind != render.KindBar && s.Align != "" {
		css = append(css, "justify-content:"+justify(s.Align))
	}
	if s.Background != "" {
		css = append(css, "background:"+s.Background)
	}
	return strings.Join(css, ";")
}

func labelCSS(s render.Style) string {
	css := "white-space:nowrap;font-variant-numeric:tabular-nums"
	if s.Color != "" {
		css += ";color:" + s.Color
	}
	return css
}

func justify(a render.Alignment) string {
	switch a {
	case render.AlignRight:
		return "flex-end"
	case render.AlignCenter:
		return "center"
	default:
		return "flex-start"
	}
}

func percent(w float64) string {
	return strconv.FormatFloat(math.Round(w*100)/100, 'f', -1, 64) + "%"
}
