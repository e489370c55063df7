package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	cberrors "github.com/matzehuels/cellbars/pkg/errors"
	"github.com/matzehuels/cellbars/pkg/pipeline"
)

const salesCSV = "region,sales,change\nnorth,1000,-5\nsouth,2500,10\neast,,3\n"

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to html", "", []string{"html"}},
		{"single format", "svg", []string{"svg"}},
		{"multiple formats", "html,svg,json", []string{"html", "svg", "json"}},
		{"spaces and blanks", " txt , ,svg", []string{"txt", "svg"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseFormats(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateFormats(t *testing.T) {
	tests := []struct {
		name    string
		formats []string
		wantErr bool
	}{
		{"valid html", []string{"html"}, false},
		{"valid all", []string{"html", "svg", "json", "txt"}, false},
		{"invalid format", []string{"pdf"}, true},
		{"mixed valid invalid", []string{"svg", "png"}, true},
		{"empty slice", []string{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := pipeline.ValidateFormats(tt.formats)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFormats(%v) error = %v, wantErr %v", tt.formats, err, tt.wantErr)
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "data/sales.csv", "data/sales"},
		{"", "-", "cellbars"},
		{"", "https://example.com/reports/q3.csv", "q3"},
		{"out/report.html", "sales.csv", "out/report"},
		{"out/report", "sales.csv", "out/report"},
		{"out/report.v2", "sales.csv", "out/report.v2"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		format string
		multi  bool
		want   string
	}{
		{"derived from input", "", "html", false, "sales.html"},
		{"explicit single", "bars.out", "svg", false, "bars.out"},
		{"explicit multi", "report.html", "svg", true, "report.svg"},
		{"derived multi", "", "json", true, "sales.json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputPath(tt.output, "sales.csv", tt.format, tt.multi); got != tt.want {
				t.Errorf("outputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBarConfig(t *testing.T) {
	f := barFlags{colors: "red, blue", commas: true, digits: 2, negatives: "clamp"}

	cfg := f.barConfig(false)
	if cfg.Digits != nil {
		t.Errorf("Digits = %v, want nil when flag not set", *cfg.Digits)
	}
	if !reflect.DeepEqual(cfg.Colors, []string{"red", "blue"}) {
		t.Errorf("Colors = %v", cfg.Colors)
	}
	if !cfg.Commas || cfg.Negatives != "clamp" {
		t.Errorf("barConfig() = %+v", cfg)
	}

	cfg = f.barConfig(true)
	if cfg.Digits == nil || *cfg.Digits != 2 {
		t.Errorf("Digits = %v, want 2", cfg.Digits)
	}
}

func TestPipelineOptionsSpecFile(t *testing.T) {
	dir := t.TempDir()
	spec := filepath.Join(dir, "bars.toml")
	content := "[[column]]\nname = \"change\"\nstyle = \"pos_neg\"\n"
	if err := os.WriteFile(spec, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	opts, err := barFlags{spec: spec}.pipelineOptions(salesCSV, false)
	if err != nil {
		t.Fatalf("pipelineOptions() error: %v", err)
	}
	if opts.Spec == nil || len(opts.Spec.Columns) != 1 || opts.Spec.Columns[0].Style != "pos_neg" {
		t.Errorf("Spec = %+v", opts.Spec)
	}

	_, err = barFlags{spec: filepath.Join(dir, "missing.toml")}.pipelineOptions(salesCSV, false)
	if err == nil {
		t.Error("pipelineOptions() with missing spec file should fail")
	}
}

func testCLI() *CLI {
	return New(io.Discard, LogInfo)
}

func TestRunRenderFiles(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "sales.csv")
	if err := os.WriteFile(input, []byte(salesCSV), 0o644); err != nil {
		t.Fatal(err)
	}

	opts := renderOpts{
		barFlags: barFlags{style: "bars", columns: "sales"},
		formats:  "html,json",
		noCache:  true,
	}
	ctx := withLogger(context.Background(), newLogger(io.Discard, LogInfo))
	if err := testCLI().runRender(ctx, nil, io.Discard, input, opts, false); err != nil {
		t.Fatalf("runRender() error: %v", err)
	}

	for _, name := range []string{"sales.html", "sales.json"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
		if len(data) == 0 {
			t.Errorf("%s is empty", name)
		}
	}
}

func TestRunRenderTextToStdout(t *testing.T) {
	opts := renderOpts{
		barFlags: barFlags{style: "pos_neg", columns: "change", plain: true},
		formats:  "txt",
		noCache:  true,
	}
	var out bytes.Buffer
	ctx := context.Background()
	err := testCLI().runRender(ctx, strings.NewReader(salesCSV), &out, "-", opts, false)
	if err != nil {
		t.Fatalf("runRender() error: %v", err)
	}
	for _, want := range []string{"change", "north", "-5", "10"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("stdout missing %q:\n%s", want, out.String())
		}
	}
}

func TestRunRenderErrors(t *testing.T) {
	tests := []struct {
		name string
		opts renderOpts
		code cberrors.Code
	}{
		{"bad format", renderOpts{formats: "pdf"}, cberrors.ErrCodeInvalidFormat},
		{"bad style", renderOpts{barFlags: barFlags{style: "pie"}, formats: "txt"}, cberrors.ErrCodeInvalidConfig},
		{"unknown column", renderOpts{barFlags: barFlags{columns: "profit"}, formats: "txt"}, cberrors.ErrCodeColumnNotFound},
		{"bad color", renderOpts{barFlags: barFlags{colors: "notacolor"}, formats: "txt"}, cberrors.ErrCodeInvalidColor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.noCache = true
			err := testCLI().runRender(context.Background(), strings.NewReader(salesCSV), io.Discard, "-", tt.opts, false)
			if !cberrors.Is(err, tt.code) {
				t.Errorf("runRender() error = %v, want code %s", err, tt.code)
			}
		})
	}
}
