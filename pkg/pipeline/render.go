package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/cellbars/pkg/observability"
	"github.com/matzehuels/cellbars/pkg/render"
	"github.com/matzehuels/cellbars/pkg/render/sink"
	"github.com/matzehuels/cellbars/pkg/table"
)

// RenderTable renders every bound column of t. Columns without a binding
// are passed through as text. Per-cell errors are counted, not returned;
// the error result is reserved for cancellation.
func RenderTable(ctx context.Context, t *table.Table, bindings []table.Binding) (sink.Table, Stats, error) {
	bound := make(map[string]table.Binding, len(bindings))
	for _, b := range bindings {
		bound[b.Column.Name] = b
	}

	stats := Stats{Rows: t.Rows(), BarColumns: len(bindings)}
	out := sink.Table{Columns: make([]sink.Column, 0, len(t.Columns))}

	for _, col := range t.Columns {
		b, ok := bound[col.Name]
		if !ok {
			out.Columns = append(out.Columns, sink.Column{Name: col.Name, Text: col.Raw})
			continue
		}

		hooks := observability.Render()
		hooks.OnColumnStart(ctx, col.Name, len(col.Values))
		start := time.Now()

		prepared := b.Renderer.Prepare(col.Values)
		cells, err := prepared.Render(ctx)
		cs := columnStats(cells)
		cs.Empty = prepared.Extent().Empty()
		hooks.OnColumnComplete(ctx, col.Name, cs, time.Since(start), err)
		if err != nil {
			return sink.Table{}, stats, err
		}

		stats.Missing += cs.Missing
		stats.Errors += cs.Errors
		out.Columns = append(out.Columns, sink.Column{Name: col.Name, Cells: cells})
	}
	return out, stats, nil
}

func columnStats(cells []render.Fragment) observability.ColumnStats {
	s := observability.ColumnStats{Rows: len(cells)}
	for _, f := range cells {
		switch f.Kind {
		case render.KindPlaceholder:
			s.Missing++
		case render.KindError:
			s.Errors++
		}
	}
	return s
}

// Emit serializes a rendered table in one format.
func Emit(ctx context.Context, t sink.Table, format string, opts Options) ([]byte, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}

	hooks := observability.Render()
	hooks.OnEmitStart(ctx, format)
	start := time.Now()

	sinkOpts := []sink.Option{
		sink.WithTitle(opts.Title),
		sink.WithCellWidth(opts.CellWidth),
		sink.WithBarChars(opts.BarChars),
	}
	if opts.Standalone {
		sinkOpts = append(sinkOpts, sink.WithStandalone())
	}
	if opts.Plain {
		sinkOpts = append(sinkOpts, sink.WithPlain())
	}

	var (
		data []byte
		err  error
	)
	switch format {
	case FormatHTML:
		data = sink.RenderHTML(t, sinkOpts...)
	case FormatSVG:
		data = sink.RenderSVG(t, sinkOpts...)
	case FormatJSON:
		data, err = sink.RenderJSON(t, sinkOpts...)
	case FormatText:
		data = []byte(sink.RenderTerminal(t, sinkOpts...) + "\n")
	}

	hooks.OnEmitComplete(ctx, format, len(data), time.Since(start), err)
	return data, err
}
