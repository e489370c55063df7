// Package render turns column values into renderable bar fragments.
//
// # Overview
//
// This package is the Cell Bar Renderer. It combines the width normalizer
// from [bar], the gradient from [palette] and the label formatter from
// [label] into a small tree of styled boxes per cell (a [Fragment]). Host
// tables embed fragments in their cells; the [sink] subpackage serializes
// whole tables of fragments as HTML, SVG, JSON or terminal text.
//
// # Lifecycle
//
// Rendering happens in three steps, each doing its work exactly once:
//
//  1. [New] (or [DataBars] / [PosNegBars]) validates a [Config] and compiles
//     the gradient. Configuration errors surface here.
//  2. [Renderer.Prepare] computes the column extent and scale. Every cell of
//     the column shares this scale.
//  3. [Column.Cell] renders one value. It never fails: missing values yield a
//     placeholder fragment, invalid values an error fragment.
//
// For example:
//
//	r, err := render.DataBars(render.Config{Colors: []string{"#1e90ff"}, Commas: true})
//	if err != nil {
//		return err // bad configuration
//	}
//	col := r.Prepare(bar.Floats(1200, 3400, 560))
//	frag := col.Cell(bar.Number(1200), render.RowContext{Index: 0})
//
// # Fragment Layout
//
// Plain bars produce a [KindRow] holding a [KindLabel] and a [KindTrack]
// with one [KindBar] inside. Positive/negative bars produce a row with two
// [KindRegion] children anchored at a shared center: the left region holds
// the bar for negative values, the right region the bar for positive ones.
// Only one region is ever populated.
//
// # Concurrency
//
// A prepared [Column] is immutable, so [Column.Cell] may be called from
// many goroutines. [Column.Render] does exactly that with a bounded
// errgroup, each goroutine writing only its own output slot.
//
// [bar]: github.com/matzehuels/cellbars/pkg/bar
// [palette]: github.com/matzehuels/cellbars/pkg/bar/palette
// [label]: github.com/matzehuels/cellbars/pkg/bar/label
// [sink]: github.com/matzehuels/cellbars/pkg/render/sink
package render
