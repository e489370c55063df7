// Package pipeline turns tabular input into rendered bar-table artifacts.
//
// This package implements the read → bind → render → emit pipeline shared by
// the CLI and the HTTP service, so both apply the same defaults, caching and
// error codes.
//
// # Stages
//
//  1. Read: parse CSV input into a [table.Table] (or use a supplied one)
//  2. Bind: pair columns with renderer configurations from a spec file,
//     an explicit column list, or every numeric column
//  3. Render: compute each column's scale once and render its cells
//  4. Emit: serialize the rendered table per requested format
//
// Artifacts are cached by a hash of the input and every option that affects
// the output bytes.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    CSV:     data,
//	    Formats: []string{"html", "svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	html := result.Artifacts["html"]
package pipeline

import (
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/cellbars/pkg/cache"
	cberrors "github.com/matzehuels/cellbars/pkg/errors"
	"github.com/matzehuels/cellbars/pkg/render"
	"github.com/matzehuels/cellbars/pkg/table"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and HTTP service
// =============================================================================

const (
	// DefaultCellWidth is the pixel width of bar cells in HTML and SVG.
	DefaultCellWidth = 160

	// DefaultBarChars is the character width of terminal bars.
	DefaultBarChars = 20
)

// Format constants for output formats.
const (
	FormatHTML = "html"
	FormatSVG  = "svg"
	FormatJSON = "json"
	FormatText = "txt"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatHTML: true,
	FormatSVG:  true,
	FormatJSON: true,
	FormatText: true,
}

// ContentTypes maps formats to their MIME types.
var ContentTypes = map[string]string{
	FormatHTML: "text/html; charset=utf-8",
	FormatSVG:  "image/svg+xml",
	FormatJSON: "application/json",
	FormatText: "text/plain; charset=utf-8",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Input: CSV text, or a table parsed earlier.
	CSV   string       `json:"csv,omitempty"`
	Table *table.Table `json:"-"`

	// Binding options
	Spec    *table.Spec   `json:"spec,omitempty"`    // per-column configuration
	Columns []string      `json:"columns,omitempty"` // columns to draw, in spec order when empty
	Style   string        `json:"style,omitempty"`   // style for columns without a spec entry
	Bars    render.Config `json:"bars,omitzero"`     // options for columns without a spec entry

	// Emit options
	Formats    []string `json:"formats,omitempty"`
	Title      string   `json:"title,omitempty"`
	CellWidth  int      `json:"cell_width,omitempty"`
	BarChars   int      `json:"bar_chars,omitempty"`
	Standalone bool     `json:"standalone,omitempty"` // full HTML document
	Plain      bool     `json:"plain,omitempty"`      // uncolored terminal output
	Refresh    bool     `json:"refresh,omitempty"`    // skip cache reads

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Table is the parsed input.
	Table *table.Table

	// InputHash is the content hash of the input.
	InputHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks whether artifacts came from the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Rows       int
	BarColumns int
	Missing    int // placeholder cells across bar columns
	Errors     int // error cells across bar columns
	ReadTime   time.Duration
	RenderTime time.Duration
	EmitTime   time.Duration
}

// CacheInfo tracks cache use for a run.
type CacheInfo struct {
	RenderHit bool // every artifact came from the cache
	Hits      int  // artifacts served from the cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return cberrors.New(cberrors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: html, svg, json, txt)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.CSV == "" && o.Table == nil {
		return cberrors.New(cberrors.ErrCodeInvalidInput, "csv input is required")
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatHTML}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Spec != nil {
		if err := o.Spec.Validate(); err != nil {
			return err
		}
	}
	for _, c := range o.Columns {
		if err := cberrors.ValidateColumnName(c); err != nil {
			return err
		}
	}
	if o.CellWidth <= 0 {
		o.CellWidth = DefaultCellWidth
	}
	if o.BarChars <= 0 {
		o.BarChars = DefaultBarChars
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ResolveSpec returns the column bindings for t: the explicit column list
// or, without one, the spec's columns or every numeric column. Columns that
// have no spec entry use Style and Bars.
func (o *Options) ResolveSpec(t *table.Table) *table.Spec {
	names := o.Columns
	if len(names) == 0 {
		if o.Spec != nil && len(o.Spec.Columns) > 0 {
			return o.Spec
		}
		names = t.NumericColumns()
	}

	out := &table.Spec{Columns: make([]table.ColumnSpec, 0, len(names))}
	for _, n := range names {
		if o.Spec != nil {
			if cs, ok := o.Spec.Lookup(n); ok {
				out.Columns = append(out.Columns, cs)
				continue
			}
		}
		out.Columns = append(out.Columns, table.ColumnSpec{Name: n, Style: o.Style, Config: o.Bars})
	}
	return out
}

// ArtifactKeyOpts returns cache key options for one format. Colored
// terminal output also depends on the terminal's color profile.
func (o *Options) ArtifactKeyOpts(format, specHash string) cache.ArtifactKeyOpts {
	f := flags(o.Standalone, o.Plain)
	if format == FormatText && !o.Plain {
		f += "c" + strconv.Itoa(int(lipgloss.ColorProfile()))
	}
	return cache.ArtifactKeyOpts{
		Format:    format,
		SpecHash:  specHash,
		Title:     o.Title,
		CellWidth: o.CellWidth,
		BarChars:  o.BarChars,
		Flags:     f,
	}
}

func flags(standalone, plain bool) string {
	s := ""
	if standalone {
		s += "s"
	}
	if plain {
		s += "p"
	}
	return s
}
