// Package sink serializes rendered bar tables into output formats.
//
// A sink consumes a [Table]: named columns that hold either rendered
// [render.Fragment] cells or plain text. This package provides:
//
//   - HTML: flexbox markup with inline styles, embeddable in any page
//   - SVG: a self-contained table with one rect per bar
//   - JSON: the fragment trees for external hosts
//   - Terminal: block-character bars laid out with lipgloss
//
// All sinks take the same functional [Option] values. Options that do not
// apply to a format are ignored, so callers can build one option list and
// pass it to every sink:
//
//	opts := []sink.Option{sink.WithTitle("Q3"), sink.WithCellWidth(180)}
//	html := sink.RenderHTML(t, append(opts, sink.WithStandalone())...)
//	svg := sink.RenderSVG(t, opts...)
package sink
