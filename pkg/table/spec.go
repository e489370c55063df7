package table

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/cellbars/pkg/bar"
	cberrors "github.com/matzehuels/cellbars/pkg/errors"
	"github.com/matzehuels/cellbars/pkg/render"
)

// ColumnSpec binds one column to a bar style and renderer options.
type ColumnSpec struct {
	Name          string `toml:"name" json:"name" yaml:"name"`
	Style         string `toml:"style" json:"style,omitempty" yaml:"style,omitempty"`
	render.Config `yaml:",inline"`
}

// Mode returns the bar mode selected by Style.
func (c ColumnSpec) Mode() (bar.Mode, error) {
	return bar.ParseMode(c.Style)
}

// Renderer builds the column's renderer.
func (c ColumnSpec) Renderer() (*render.Renderer, error) {
	mode, err := c.Mode()
	if err != nil {
		return nil, err
	}
	return render.New(c.Config, mode)
}

// Spec is a decoded column spec file.
type Spec struct {
	Columns []ColumnSpec `toml:"column" json:"columns" yaml:"columns"`
}

// LoadSpec decodes a TOML column spec and validates every entry. Unknown
// keys are rejected so typos do not silently fall back to defaults.
func LoadSpec(r io.Reader) (*Spec, error) {
	var s Spec
	md, err := toml.NewDecoder(r).Decode(&s)
	if err != nil {
		return nil, cberrors.Wrap(cberrors.ErrCodeInvalidConfig, err, "parse column spec")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, cberrors.New(cberrors.ErrCodeInvalidConfig, "unknown keys in column spec: %s", strings.Join(keys, ", "))
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadSpecYAML decodes a YAML column spec. Columns are listed under a
// top-level "columns" key; unknown keys are rejected.
func LoadSpecYAML(r io.Reader) (*Spec, error) {
	var s Spec
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, cberrors.Wrap(cberrors.ErrCodeInvalidConfig, err, "parse column spec")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadSpecFile reads and decodes the spec at path. Files ending in .yaml or
// .yml are decoded as YAML, everything else as TOML.
func LoadSpecFile(path string) (*Spec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open column spec: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadSpecYAML(f)
	default:
		return LoadSpec(f)
	}
}

// Validate checks names, styles and renderer options of every column.
func (s *Spec) Validate() error {
	seen := make(map[string]bool, len(s.Columns))
	for _, c := range s.Columns {
		if err := cberrors.ValidateColumnName(c.Name); err != nil {
			return err
		}
		if seen[c.Name] {
			return cberrors.New(cberrors.ErrCodeInvalidConfig, "column %q specified twice", c.Name)
		}
		seen[c.Name] = true
		if _, err := c.Renderer(); err != nil {
			return cberrors.Wrap(cberrors.GetCode(err), err, "column %q", c.Name)
		}
	}
	return nil
}

// Lookup returns the spec entry for name.
func (s *Spec) Lookup(name string) (ColumnSpec, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnSpec{}, false
}

// DefaultSpec binds plain bars with default options to every numeric
// column of t.
func DefaultSpec(t *Table) *Spec {
	s := &Spec{}
	for _, name := range t.NumericColumns() {
		s.Columns = append(s.Columns, ColumnSpec{Name: name, Style: bar.ModeNameBars})
	}
	return s
}

// Binding is a table column paired with its compiled renderer.
type Binding struct {
	Column   Column
	Spec     ColumnSpec
	Renderer *render.Renderer
}

// Bind resolves every spec entry against t. A spec column missing from the
// table is an error; renderer setup errors abort the whole binding.
func (s *Spec) Bind(t *Table) ([]Binding, error) {
	out := make([]Binding, 0, len(s.Columns))
	for _, cs := range s.Columns {
		col, err := t.Column(cs.Name)
		if err != nil {
			return nil, err
		}
		r, err := cs.Renderer()
		if err != nil {
			return nil, cberrors.Wrap(cberrors.GetCode(err), err, "column %q", cs.Name)
		}
		out = append(out, Binding{Column: col, Spec: cs, Renderer: r})
	}
	return out, nil
}
