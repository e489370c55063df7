// Package pkg provides the core libraries for cellbars in-cell bar charts.
//
// # Overview
//
// Cellbars draws a bar inside every cell of a numeric table column. Plain
// bars grow from one edge and are scaled to the column's largest magnitude;
// positive/negative bars diverge from a zero axis shared by the whole
// column. The pkg directory is organized into four areas:
//
//  1. [bar] - Values, extents and the width normalizer
//  2. [render] - Per-cell fragments and the output sinks
//  3. [table], [source] - Tabular input and column specs
//  4. [pipeline] - Orchestration (read → bind → render → emit)
//
// # Architecture
//
// The typical data flow:
//
//	CSV file / URL / stdin
//	         ↓
//	    [source] + [table] (read and parse columns)
//	         ↓
//	    [table] spec binding (column → renderer)
//	         ↓
//	    [render] (scale once per column, one fragment per cell)
//	         ↓
//	    [render/sink] (HTML, SVG, JSON, terminal text)
//
// # Quick Start
//
// Render one column of values:
//
//	r, _ := render.DataBars(render.Config{Commas: true})
//	col := r.Prepare(bar.Floats(1000, 2500, 5000))
//	cells, _ := col.Render(ctx)
//	for _, f := range cells {
//	    b, _ := f.Bar()
//	    fmt.Println(f.Label(), b.Style.Width)
//	}
//
// Render a whole CSV file:
//
//	runner := pipeline.NewRunner(nil, nil, logger)
//	result, _ := runner.Execute(ctx, pipeline.Options{
//	    CSV:     data,
//	    Formats: []string{"html"},
//	})
//
// # Main Packages
//
// [bar] - Numeric cell values, column extents and the normalizer that maps a
// value to a bar width and position. [bar/palette] parses colors and builds
// gradients; [bar/label] formats the number shown beside the bar.
//
// [render] - Renderer configuration and the per-cell fragment tree.
// [render/sink] serializes rendered tables.
//
// [table] - CSV reading and TOML or YAML column specs.
//
// [source] - Loads input from files, stdin or HTTP URLs.
//
// [pipeline] - The read → bind → render → emit pipeline used by the CLI and
// the HTTP service, with artifact caching.
//
// ## Infrastructure
//
// [cache] - Artifact caches: file (CLI), Redis and MongoDB (service), null.
//
// [errors] - Coded errors shared by every package.
//
// [observability] - Hooks for render, cache and HTTP events.
//
// [buildinfo] - Version information set at build time.
//
// [bar]: https://pkg.go.dev/github.com/matzehuels/cellbars/pkg/bar
// [bar/palette]: https://pkg.go.dev/github.com/matzehuels/cellbars/pkg/bar/palette
// [bar/label]: https://pkg.go.dev/github.com/matzehuels/cellbars/pkg/bar/label
// [render]: https://pkg.go.dev/github.com/matzehuels/cellbars/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/cellbars/pkg/render/sink
// [table]: https://pkg.go.dev/github.com/matzehuels/cellbars/pkg/table
// [source]: https://pkg.go.dev/github.com/matzehuels/cellbars/pkg/source
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/cellbars/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/cellbars/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/cellbars/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/cellbars/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/cellbars/pkg/buildinfo
package pkg
