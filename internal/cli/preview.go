package cli

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cellbars/pkg/pipeline"
	"github.com/matzehuels/cellbars/pkg/render/sink"
	"github.com/matzehuels/cellbars/pkg/source"
)

type previewOpts struct {
	barFlags
	barChars int
	static   bool
}

// previewCommand creates the preview command.
func (c *CLI) previewCommand() *cobra.Command {
	opts := previewOpts{}

	cmd := &cobra.Command{
		Use:   "preview <file.csv>",
		Short: "Browse a bar table in the terminal",
		Long: `Render a CSV file's bar columns and browse them in an interactive
terminal table. Rows scroll with the arrow keys and sort by any column.

With --static the whole table is printed once instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			digitsSet := cmd.Flags().Changed("digits")
			return runPreview(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), args[0], opts, digitsSet)
		},
	}

	addBarFlags(cmd, &opts.barFlags)
	cmd.Flags().IntVar(&opts.barChars, "bar-chars", pipeline.DefaultBarChars, "bar width in characters")
	cmd.Flags().BoolVar(&opts.static, "static", false, "print the table once and exit")

	return cmd
}

func runPreview(ctx context.Context, stdin io.Reader, stdout io.Writer, input string, opts previewOpts, digitsSet bool) error {
	logger := loggerFromContext(ctx)

	csv, err := readInput(ctx, source.New(nil), stdin, input, false)
	if err != nil {
		return err
	}
	popts, err := opts.pipelineOptions(csv, digitsSet)
	if err != nil {
		return err
	}
	popts.Formats = []string{pipeline.FormatText}
	popts.BarChars = opts.barChars
	popts.Logger = logger
	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner := pipeline.NewRunner(nil, nil, logger)
	t, err := runner.Read(popts)
	if err != nil {
		return err
	}
	bindings, err := popts.ResolveSpec(t).Bind(t)
	if err != nil {
		return err
	}
	rendered, stats, err := pipeline.RenderTable(ctx, t, bindings)
	if err != nil {
		return err
	}
	logger.Debug("rendered preview", "rows", stats.Rows, "columns", stats.BarColumns)

	sinkOpts := []sink.Option{sink.WithBarChars(popts.BarChars)}
	if popts.Plain {
		sinkOpts = append(sinkOpts, sink.WithPlain())
	}

	if opts.static {
		_, err := fmt.Fprintln(stdout, sink.RenderTerminal(rendered, append(sinkOpts, sink.WithTitle(popts.Title))...))
		return err
	}

	m := NewPreviewModel(popts.Title, rendered, t, sinkOpts...)
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
