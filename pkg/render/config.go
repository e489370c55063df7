package render

import (
	"math"

	"github.com/matzehuels/cellbars/pkg/bar"
	"github.com/matzehuels/cellbars/pkg/bar/label"
	"github.com/matzehuels/cellbars/pkg/bar/palette"
	cberrors "github.com/matzehuels/cellbars/pkg/errors"
)

// =============================================================================
// Defaults
// =============================================================================

const (
	// DefaultColor is the bar fill when no colors are configured.
	DefaultColor = "#1e90ff"

	// DefaultBarHeight is the bar thickness in pixels for HTML and SVG output.
	DefaultBarHeight = 16
)

// Alignment positions the label and bar inside a cell.
type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

// TextPosition places the label relative to the bar.
type TextPosition string

const (
	TextOutside TextPosition = "outside"
	TextInside  TextPosition = "inside"
	TextNone    TextPosition = "none"
)

// =============================================================================
// Config
// =============================================================================

// Config holds the user-facing options of a bar renderer. String options are
// validated by [New]; zero values select the defaults documented per field.
type Config struct {
	// Colors is a single fill color or the stops of a gradient.
	// Default: [DefaultColor] when unset. An empty list is an error.
	Colors []string `toml:"colors" json:"colors,omitempty" yaml:"colors,omitempty"`
	// Background is the track color behind the bar. Default: none.
	Background string `toml:"background" json:"background,omitempty" yaml:"background,omitempty"`
	// Commas inserts thousands separators into the label.
	Commas bool `toml:"commas" json:"commas,omitempty" yaml:"commas,omitempty"`
	// Percent appends "%" to the label.
	Percent bool `toml:"percent" json:"percent,omitempty" yaml:"percent,omitempty"`
	// PercentScale is "fraction" (0.25 → 25%) or "points" (0.25 → 0.25%).
	PercentScale string `toml:"percent_scale" json:"percent_scale,omitempty" yaml:"percent_scale,omitempty"`
	// Digits fixes the decimal places of the label. Default: shortest form.
	Digits *int `toml:"digits" json:"digits,omitempty" yaml:"digits,omitempty"`
	// Alignment is "left", "center" or "right". Default: left for plain
	// bars, right for positive/negative bars.
	Alignment string `toml:"alignment" json:"alignment,omitempty" yaml:"alignment,omitempty"`
	// Negatives is the plain-bar policy for negative values: "magnitude",
	// "clamp" or "reject". Default: magnitude.
	Negatives string `toml:"negatives" json:"negatives,omitempty" yaml:"negatives,omitempty"`
	// MaxValue fixes the magnitude drawn at full width. Default: the
	// column's largest absolute value.
	MaxValue *float64 `toml:"max_value" json:"max_value,omitempty" yaml:"max_value,omitempty"`
	// TextPosition is "outside", "inside" or "none". Default: outside.
	TextPosition string `toml:"text_position" json:"text_position,omitempty" yaml:"text_position,omitempty"`
	// BarHeight is the bar thickness in pixels. Default: [DefaultBarHeight].
	BarHeight int `toml:"bar_height" json:"bar_height,omitempty" yaml:"bar_height,omitempty"`
	// Placeholder is the text shown for missing cells.
	Placeholder string `toml:"placeholder" json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	// Blend is the gradient interpolation space: "rgb" or "lab".
	Blend string `toml:"blend" json:"blend,omitempty" yaml:"blend,omitempty"`
	// BrightenText picks black or white label text by contrast with the fill
	// when the label sits inside the bar.
	BrightenText bool `toml:"brighten_text" json:"brighten_text,omitempty" yaml:"brighten_text,omitempty"`
	// Prefix and Suffix wrap the formatted label.
	Prefix string `toml:"prefix" json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Suffix string `toml:"suffix" json:"suffix,omitempty" yaml:"suffix,omitempty"`
}

// DefaultConfig returns the configuration [New] uses for mode when every
// option is left unset.
func DefaultConfig(mode bar.Mode) Config {
	var cfg Config
	cfg.setDefaults(mode)
	return cfg
}

func (c *Config) setDefaults(mode bar.Mode) {
	if c.Colors == nil {
		c.Colors = []string{DefaultColor}
	}
	if c.Alignment == "" {
		c.Alignment = string(AlignLeft)
		if mode == bar.Signed {
			c.Alignment = string(AlignRight)
		}
	}
	if c.TextPosition == "" {
		c.TextPosition = string(TextOutside)
	}
	if c.BarHeight == 0 {
		c.BarHeight = DefaultBarHeight
	}
}

// Validate reports the first configuration error for mode without building
// a renderer.
func (c Config) Validate(mode bar.Mode) error {
	_, err := New(c, mode)
	return err
}

// compiled is the parsed, typed form of a Config.
type compiled struct {
	gradient   palette.Gradient
	background string
	format     label.Format
	align      Alignment
	negatives  bar.NegativePolicy
	maxValue   float64
	textPos    TextPosition
	barHeight  int
}

func compile(cfg Config, mode bar.Mode) (compiled, error) {
	var out compiled

	blend, err := palette.ParseBlend(cfg.Blend)
	if err != nil {
		return out, err
	}
	domain := palette.DomainUnit
	if mode == bar.Signed {
		domain = palette.DomainSigned
	}
	if out.gradient, err = palette.NewGradient(cfg.Colors, palette.WithDomain(domain), palette.WithBlend(blend)); err != nil {
		return out, err
	}

	if cfg.Background != "" && cfg.Background != "none" && cfg.Background != "transparent" {
		if out.background, err = palette.Normalize(cfg.Background); err != nil {
			return out, cberrors.Wrap(cberrors.ErrCodeInvalidColor, err, "invalid background")
		}
	}

	scale, err := label.ParsePercentScale(cfg.PercentScale)
	if err != nil {
		return out, err
	}
	out.format = label.Format{
		Commas:  cfg.Commas,
		Percent: cfg.Percent,
		Scale:   scale,
		Digits:  label.AutoDigits,
		Prefix:  cfg.Prefix,
		Suffix:  cfg.Suffix,
	}
	if cfg.Digits != nil {
		if *cfg.Digits < 0 || *cfg.Digits > 12 {
			return out, cberrors.New(cberrors.ErrCodeInvalidConfig, "invalid digits: %d (must be 0-12)", *cfg.Digits)
		}
		out.format.Digits = *cfg.Digits
	}

	if err := cberrors.ValidateChoice("alignment", cfg.Alignment, false,
		string(AlignLeft), string(AlignCenter), string(AlignRight)); err != nil {
		return out, err
	}
	out.align = Alignment(cfg.Alignment)

	if err := cberrors.ValidateChoice("text_position", cfg.TextPosition, false,
		string(TextOutside), string(TextInside), string(TextNone)); err != nil {
		return out, err
	}
	out.textPos = TextPosition(cfg.TextPosition)

	if out.negatives, err = bar.ParseNegativePolicy(cfg.Negatives); err != nil {
		return out, err
	}

	if cfg.MaxValue != nil {
		v := *cfg.MaxValue
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return out, cberrors.New(cberrors.ErrCodeInvalidConfig, "invalid max_value: %v (must be a positive number)", v)
		}
		out.maxValue = v
	}

	if cfg.BarHeight < 0 {
		return out, cberrors.New(cberrors.ErrCodeInvalidConfig, "invalid bar_height: %d", cfg.BarHeight)
	}
	out.barHeight = cfg.BarHeight

	return out, nil
}
