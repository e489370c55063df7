package pipeline

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/matzehuels/cellbars/pkg/cache"
	cberrors "github.com/matzehuels/cellbars/pkg/errors"
	"github.com/matzehuels/cellbars/pkg/observability"
	"github.com/matzehuels/cellbars/pkg/render"
	"github.com/matzehuels/cellbars/pkg/table"
)

const testCSV = `region,sales,change
North,1200,0.12
South,800,-0.05
East,NA,0.30
West,1500,oops
`

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"html", false},
		{"svg", false},
		{"json", false},
		{"txt", false},
		{"png", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !cberrors.Is(err, cberrors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %q", tt.format, cberrors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "html"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); !cberrors.Is(err, cberrors.ErrCodeInvalidInput) {
		t.Errorf("missing input: err = %v", err)
	}

	opts = Options{CSV: testCSV}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatHTML {
		t.Errorf("Formats = %v", opts.Formats)
	}
	if opts.CellWidth != DefaultCellWidth || opts.BarChars != DefaultBarChars || opts.Logger == nil {
		t.Errorf("defaults not applied: %+v", opts)
	}

	opts = Options{CSV: testCSV, Columns: []string{""}}
	if err := opts.ValidateAndSetDefaults(); !cberrors.Is(err, cberrors.ErrCodeInvalidColumn) {
		t.Errorf("blank column: err = %v", err)
	}
}

func TestResolveSpec(t *testing.T) {
	tbl, err := table.ReadCSV(strings.NewReader(testCSV))
	if err != nil {
		t.Fatal(err)
	}
	spec := &table.Spec{Columns: []table.ColumnSpec{{Name: "change", Style: "pos_neg"}}}

	tests := []struct {
		name  string
		opts  Options
		names string
		style string // style of the first column
	}{
		{"numeric columns", Options{Style: "bars"}, "sales,change", "bars"},
		{"spec columns", Options{Spec: spec}, "change", "pos_neg"},
		{"explicit list", Options{Spec: spec, Columns: []string{"sales", "change"}}, "sales,change", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.opts.ResolveSpec(tbl)
			var names []string
			for _, c := range s.Columns {
				names = append(names, c.Name)
			}
			if got := strings.Join(names, ","); got != tt.names {
				t.Errorf("columns = %s, want %s", got, tt.names)
			}
			if s.Columns[0].Style != tt.style {
				t.Errorf("style = %q, want %q", s.Columns[0].Style, tt.style)
			}
		})
	}

	opts := Options{Spec: spec, Columns: []string{"sales", "change"}}
	s := opts.ResolveSpec(tbl)
	if s.Columns[1].Style != "pos_neg" {
		t.Error("explicit list lost the spec entry for change")
	}
}

func TestExecute(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), Options{
		CSV:     testCSV,
		Formats: []string{FormatHTML, FormatSVG, FormatJSON, FormatText},
		Title:   "Sales",
		Plain:   true,
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	if len(res.Artifacts) != 4 {
		t.Fatalf("got %d artifacts", len(res.Artifacts))
	}
	if !strings.Contains(string(res.Artifacts[FormatHTML]), "<caption>Sales</caption>") {
		t.Error("html missing caption")
	}
	if !strings.HasPrefix(string(res.Artifacts[FormatSVG]), "<svg") {
		t.Error("svg artifact is not SVG")
	}
	if !strings.Contains(string(res.Artifacts[FormatText]), "North") {
		t.Error("text artifact missing text column")
	}

	if res.Stats.Rows != 4 || res.Stats.BarColumns != 2 {
		t.Errorf("stats = %+v", res.Stats)
	}
	if res.Stats.Missing != 1 || res.Stats.Errors != 1 {
		t.Errorf("missing/errors = %d/%d, want 1/1", res.Stats.Missing, res.Stats.Errors)
	}
	if res.CacheInfo.RenderHit {
		t.Error("NullCache run reported a cache hit")
	}
}

func TestExecuteConfigErrorAborts(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	_, err := r.Execute(context.Background(), Options{
		CSV:  testCSV,
		Bars: renderConfigWithColors("nope"),
	})
	if !cberrors.Is(err, cberrors.ErrCodeInvalidColor) {
		t.Errorf("err = %v, want INVALID_COLOR", err)
	}

	_, err = r.Execute(context.Background(), Options{CSV: testCSV, Columns: []string{"profit"}})
	if !cberrors.Is(err, cberrors.ErrCodeColumnNotFound) {
		t.Errorf("err = %v, want COLUMN_NOT_FOUND", err)
	}
}

func TestExecuteCaches(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	hooks := &countingCacheHooks{}
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	r := NewRunner(c, nil, nil)
	opts := Options{CSV: testCSV, Formats: []string{FormatSVG}}

	first, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.RenderHit || !second.CacheInfo.RenderHit {
		t.Errorf("cache hits = %v, %v; want false, true", first.CacheInfo.RenderHit, second.CacheInfo.RenderHit)
	}
	if string(first.Artifacts[FormatSVG]) != string(second.Artifacts[FormatSVG]) {
		t.Error("cached artifact differs")
	}
	if hooks.hits != 1 || hooks.misses != 1 || hooks.sets != 1 {
		t.Errorf("hooks = %+v", hooks)
	}

	opts.Title = "changed"
	third, _ := r.Execute(context.Background(), opts)
	if third.CacheInfo.RenderHit {
		t.Error("different options hit the cache")
	}

	opts.Title = ""
	opts.Refresh = true
	fourth, _ := r.Execute(context.Background(), opts)
	if fourth.CacheInfo.RenderHit {
		t.Error("refresh run hit the cache")
	}
}

func TestExecuteWithTable(t *testing.T) {
	tbl, _ := table.ReadCSV(strings.NewReader(testCSV))
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), Options{Table: tbl, Formats: []string{FormatJSON}})
	if err != nil {
		t.Fatal(err)
	}
	if res.Table != tbl || res.InputHash == "" {
		t.Error("supplied table not used")
	}
}

func TestRenderHooksFire(t *testing.T) {
	hooks := &countingRenderHooks{}
	observability.SetRenderHooks(hooks)
	defer observability.Reset()

	r := NewRunner(nil, nil, nil)
	if _, err := r.Execute(context.Background(), Options{CSV: testCSV, Formats: []string{FormatHTML, FormatJSON}}); err != nil {
		t.Fatal(err)
	}
	if hooks.columns != 2 || hooks.emits != 2 {
		t.Errorf("columns = %d, emits = %d", hooks.columns, hooks.emits)
	}
	if len(hooks.empty) != 0 {
		t.Errorf("empty columns = %v, want none", hooks.empty)
	}
}

func TestRenderTableReportsEmptyColumns(t *testing.T) {
	hooks := &countingRenderHooks{}
	observability.SetRenderHooks(hooks)
	defer observability.Reset()

	csv := "region,sales,notes\nNorth,,x\nSouth,NA,y\n"
	opts := Options{CSV: csv, Columns: []string{"sales"}}
	if _, err := NewRunner(nil, nil, nil).Execute(context.Background(), opts); err != nil {
		t.Fatal(err)
	}
	if len(hooks.empty) != 1 || hooks.empty[0] != "sales" {
		t.Errorf("empty columns = %v, want [sales]", hooks.empty)
	}
}

type countingCacheHooks struct {
	observability.NoopCacheHooks
	hits, misses, sets int
}

func (h *countingCacheHooks) OnCacheHit(context.Context, string)      { h.hits++ }
func (h *countingCacheHooks) OnCacheMiss(context.Context, string)     { h.misses++ }
func (h *countingCacheHooks) OnCacheSet(context.Context, string, int) { h.sets++ }

type countingRenderHooks struct {
	observability.NoopRenderHooks
	columns, emits int
	empty          []string
}

func (h *countingRenderHooks) OnColumnComplete(_ context.Context, column string, stats observability.ColumnStats, _ time.Duration, _ error) {
	h.columns++
	if stats.Empty {
		h.empty = append(h.empty, column)
	}
}

func (h *countingRenderHooks) OnEmitComplete(context.Context, string, int, time.Duration, error) {
	h.emits++
}

func renderConfigWithColors(colors ...string) render.Config {
	return render.Config{Colors: colors}
}

func TestArtifactKeyOptsColorProfile(t *testing.T) {
	prev := lipgloss.ColorProfile()
	t.Cleanup(func() { lipgloss.SetColorProfile(prev) })

	flagsUnder := func(p termenv.Profile, o Options, format string) string {
		lipgloss.SetColorProfile(p)
		return o.ArtifactKeyOpts(format, "spec").Flags
	}

	tests := []struct {
		name     string
		opts     Options
		format   string
		wantSame bool
	}{
		{"colored text", Options{}, FormatText, false},
		{"plain text", Options{Plain: true}, FormatText, true},
		{"html", Options{}, FormatHTML, true},
		{"svg", Options{}, FormatSVG, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ascii := flagsUnder(termenv.Ascii, tt.opts, tt.format)
			color := flagsUnder(termenv.TrueColor, tt.opts, tt.format)
			if (ascii == color) != tt.wantSame {
				t.Errorf("flags ascii=%q truecolor=%q, want same=%v", ascii, color, tt.wantSame)
			}
		})
	}
}
