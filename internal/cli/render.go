package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cellbars/pkg/bar"
	"github.com/matzehuels/cellbars/pkg/pipeline"
	"github.com/matzehuels/cellbars/pkg/render"
	"github.com/matzehuels/cellbars/pkg/source"
	"github.com/matzehuels/cellbars/pkg/table"
)

// barFlags holds the options shared by render and preview that select and
// style the bar columns.
type barFlags struct {
	spec         string
	columns      string
	style        string
	colors       string
	background   string
	commas       bool
	percent      bool
	percentScale string
	digits       int
	align        string
	negatives    string
	placeholder  string
	title        string
	plain        bool
}

// renderOpts holds render command options.
type renderOpts struct {
	barFlags
	formats    string
	output     string
	cellWidth  int
	barChars   int
	standalone bool
	noCache    bool
	refresh    bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{}

	cmd := &cobra.Command{
		Use:   "render <file.csv>",
		Short: "Render bar tables from a CSV file",
		Long: `Render the numeric columns of a CSV file as in-cell bars.

Columns are chosen by --spec (a TOML file of [[column]] tables), by
--columns, or default to every numeric column. The input may be a file,
an http(s) URL, or "-" for stdin.

Output formats: html (default), svg, json, txt. A single format is
written to --output; several formats share its base name. Text output
without --output goes to stdout.`,
		Example: `  # Every numeric column, written next to the input as sales.html
  cellbars render sales.csv

  # Diverging bars for one column, printed to the terminal
  cellbars render deltas.csv --columns change --style pos_neg -f txt

  # Per-column settings from a spec file, HTML and SVG
  cellbars render sales.csv --spec bars.toml -f html,svg -o report`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			digitsSet := cmd.Flags().Changed("digits")
			return c.runRender(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), args[0], opts, digitsSet)
		},
	}

	addBarFlags(cmd, &opts.barFlags)
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output formats: html, svg, json, txt (comma-separated)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().IntVar(&opts.cellWidth, "cell-width", pipeline.DefaultCellWidth, "bar cell width in pixels (html, svg)")
	cmd.Flags().IntVar(&opts.barChars, "bar-chars", pipeline.DefaultBarChars, "bar width in characters (txt)")
	cmd.Flags().BoolVar(&opts.standalone, "standalone", false, "write a complete HTML document")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when cached")

	return cmd
}

func addBarFlags(cmd *cobra.Command, f *barFlags) {
	cmd.Flags().StringVar(&f.spec, "spec", "", "column spec file (TOML, or YAML by extension)")
	cmd.Flags().StringVar(&f.columns, "columns", "", "columns to draw (comma-separated)")
	cmd.Flags().StringVar(&f.style, "style", bar.ModeNameBars, "bar style: bars or pos_neg")
	cmd.Flags().StringVar(&f.colors, "colors", "", "bar color or gradient stops (comma-separated)")
	cmd.Flags().StringVar(&f.background, "background", "", "track color behind the bar")
	cmd.Flags().BoolVar(&f.commas, "commas", false, "group thousands in labels")
	cmd.Flags().BoolVar(&f.percent, "percent", false, "format labels as percentages")
	cmd.Flags().StringVar(&f.percentScale, "percent-scale", "", "percent input scale: fraction or points")
	cmd.Flags().IntVar(&f.digits, "digits", 0, "decimal places in labels")
	cmd.Flags().StringVar(&f.align, "align", "", "bar alignment: left, center or right")
	cmd.Flags().StringVar(&f.negatives, "negatives", "", "negative values in plain bars: magnitude, clamp or reject")
	cmd.Flags().StringVar(&f.placeholder, "placeholder", "", "text for missing cells")
	cmd.Flags().StringVar(&f.title, "title", "", "table title")
	cmd.Flags().BoolVar(&f.plain, "plain", false, "disable colors in terminal output")
}

// barConfig builds the renderer configuration for columns without a spec entry.
func (f barFlags) barConfig(digitsSet bool) render.Config {
	cfg := render.Config{
		Colors:       splitList(f.colors),
		Background:   f.background,
		Commas:       f.commas,
		Percent:      f.percent,
		PercentScale: f.percentScale,
		Alignment:    f.align,
		Negatives:    f.negatives,
		Placeholder:  f.placeholder,
	}
	if digitsSet {
		d := f.digits
		cfg.Digits = &d
	}
	return cfg
}

// pipelineOptions converts flags into pipeline options for csv.
func (f barFlags) pipelineOptions(csv string, digitsSet bool) (pipeline.Options, error) {
	opts := pipeline.Options{
		CSV:     csv,
		Columns: splitList(f.columns),
		Style:   f.style,
		Bars:    f.barConfig(digitsSet),
		Title:   f.title,
		Plain:   f.plain,
	}
	if f.spec != "" {
		spec, err := table.LoadSpecFile(f.spec)
		if err != nil {
			return opts, err
		}
		opts.Spec = spec
	}
	return opts, nil
}

// readInput loads name through src: a file, a URL, or stdin when name is "-".
func readInput(ctx context.Context, src *source.Source, stdin io.Reader, name string, refresh bool) (string, error) {
	return src.Load(ctx, name, source.Options{Refresh: refresh, Stdin: stdin})
}

// runRender executes the render pipeline and writes artifacts.
func (c *CLI) runRender(ctx context.Context, stdin io.Reader, stdout io.Writer, input string, opts renderOpts, digitsSet bool) error {
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	csv, err := readInput(ctx, source.New(runner.Cache), stdin, input, opts.refresh)
	if err != nil {
		return err
	}
	popts, err := opts.pipelineOptions(csv, digitsSet)
	if err != nil {
		return err
	}
	popts.Formats = parseFormats(opts.formats)
	popts.CellWidth = opts.cellWidth
	popts.BarChars = opts.barChars
	popts.Standalone = opts.standalone
	popts.Refresh = opts.refresh
	popts.Logger = logger

	if err := pipeline.ValidateFormats(popts.Formats); err != nil {
		return err
	}

	toStdout := opts.output == "" && len(popts.Formats) == 1 && popts.Formats[0] == pipeline.FormatText

	prog := newProgress(logger)
	var spin *Spinner
	if !toStdout {
		spin = newSpinnerWithContext(ctx, os.Stderr, "Rendering...")
		spin.Start()
	}
	result, err := runner.Execute(ctx, popts)
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return err
	}

	if toStdout {
		_, err := stdout.Write(result.Artifacts[pipeline.FormatText])
		return err
	}

	formats := sortedFormats(result.Artifacts)
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		out := outputPath(opts.output, input, format, len(formats) > 1)
		if err := writeArtifact(out, result.Artifacts[format]); err != nil {
			return err
		}
		paths = append(paths, out)
	}
	prog.done(fmt.Sprintf("Rendered %d columns", result.Stats.BarColumns))

	printSuccess("Rendered %s", filepath.Base(input))
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats.Rows, result.Stats.BarColumns, result.CacheInfo.RenderHit)
	if result.Stats.Errors > 0 {
		printWarning("%d cells could not be drawn", result.Stats.Errors)
	}
	if input != source.Stdin {
		printNextStep("Preview in the terminal", appName+" preview "+input)
	}
	return nil
}

func sortedFormats(artifacts map[string][]byte) []string {
	formats := make([]string, 0, len(artifacts))
	for f := range artifacts {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return formats
}

// basePath derives the base output path. Without an output it strips the
// input's extension; a known format extension on output is stripped too.
func basePath(output, input string) string {
	if output == "" {
		if input == source.Stdin {
			return appName
		}
		if source.IsURL(input) {
			input = path.Base(input)
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := strings.TrimPrefix(filepath.Ext(output), ".")
	if pipeline.ValidFormats[ext] {
		return strings.TrimSuffix(output, "."+ext)
	}
	return output
}

// outputPath returns the file for one format. An explicit output is used
// verbatim when only one format is written.
func outputPath(output, input, format string, multi bool) string {
	if output != "" && !multi {
		return output
	}
	return basePath(output, input) + "." + format
}

func writeArtifact(name string, data []byte) error {
	if dir := filepath.Dir(name); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(name, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
