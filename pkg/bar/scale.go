package bar

import (
	"math"

	cberrors "github.com/matzehuels/cellbars/pkg/errors"
)

// Mode selects between plain bars and diverging positive/negative bars.
type Mode uint8

const (
	// Unsigned draws every bar from the same edge.
	Unsigned Mode = iota
	// Signed draws negative values left and positive values right of zero.
	Signed
)

// Mode names as used in spec files and flags.
const (
	ModeNameBars   = "bars"
	ModeNamePosNeg = "pos_neg"
)

// String returns the mode name used in spec files.
func (m Mode) String() string {
	if m == Signed {
		return ModeNamePosNeg
	}
	return ModeNameBars
}

// ParseMode parses "bars" or "pos_neg". The empty string means bars.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", ModeNameBars:
		return Unsigned, nil
	case ModeNamePosNeg, "posneg", "pos-neg":
		return Signed, nil
	}
	return Unsigned, cberrors.New(cberrors.ErrCodeInvalidConfig, "invalid style: %q (must be 'bars' or 'pos_neg')", s)
}

// NegativePolicy decides how unsigned bars treat negative values.
type NegativePolicy uint8

const (
	// NegativeMagnitude draws a negative value as if it were positive.
	NegativeMagnitude NegativePolicy = iota
	// NegativeClamp draws negative values with zero width.
	NegativeClamp
	// NegativeReject turns negative values into a per-cell error.
	NegativeReject
)

// String returns the policy name used in spec files.
func (p NegativePolicy) String() string {
	switch p {
	case NegativeClamp:
		return "clamp"
	case NegativeReject:
		return "reject"
	default:
		return "magnitude"
	}
}

// ParseNegativePolicy parses "magnitude", "clamp" or "reject". The empty
// string means magnitude.
func ParseNegativePolicy(s string) (NegativePolicy, error) {
	switch s {
	case "", "magnitude":
		return NegativeMagnitude, nil
	case "clamp":
		return NegativeClamp, nil
	case "reject":
		return NegativeReject, nil
	}
	return NegativeMagnitude, cberrors.New(cberrors.ErrCodeInvalidConfig, "invalid negatives policy: %q (must be 'magnitude', 'clamp', or 'reject')", s)
}

// Direction is the way a bar grows from its anchor.
type Direction uint8

const (
	DirNone Direction = iota
	DirLeft
	DirRight
)

// String returns "none", "left" or "right".
func (d Direction) String() string {
	switch d {
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "none"
	}
}

// Measure is the geometry of one cell's bar.
type Measure struct {
	Width     float64   // percent of the available length, in [0,100]
	Position  float64   // normalized position for coloring: [0,1] unsigned, [-1,1] signed
	Direction Direction // DirNone for zero width
	Missing   bool      // no bar at all, render a placeholder
}

// Scale maps values of one column to bar widths. The zero Scale is not
// usable; build one with [NewScale].
type Scale struct {
	mode   Mode
	denom  float64
	policy NegativePolicy
}

// ScaleOption configures a Scale.
type ScaleOption func(*Scale)

// WithNegativePolicy sets the unsigned-mode policy for negative values.
func WithNegativePolicy(p NegativePolicy) ScaleOption {
	return func(s *Scale) { s.policy = p }
}

// WithDenominator fixes the normalizer instead of using the column's MaxAbs.
// Magnitudes beyond d are drawn at full width. Non-positive d is ignored.
func WithDenominator(d float64) ScaleOption {
	return func(s *Scale) {
		if d > 0 && !math.IsInf(d, 0) {
			s.denom = d
		}
	}
}

// NewScale builds the scale for a column with extent ext.
func NewScale(ext Extent, mode Mode, opts ...ScaleOption) Scale {
	s := Scale{mode: mode, denom: ext.Denominator()}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Mode returns the scale's mode.
func (s Scale) Mode() Mode { return s.mode }

// Denominator returns the magnitude that maps to a full-width bar.
func (s Scale) Denominator() float64 { return s.denom }

// Measure computes the bar for v. Missing values yield a Measure with
// Missing set. Invalid values yield a TYPE_ERROR; negative values under
// [NegativeReject] yield a NEGATIVE_VALUE error.
func (s Scale) Measure(v Value) (Measure, error) {
	switch v.kind {
	case KindMissing:
		return Measure{Missing: true}, nil
	case KindInvalid:
		return Measure{}, cberrors.New(cberrors.ErrCodeType, "non-numeric value %q in numeric column", v.raw)
	}

	f := v.num
	if s.mode == Unsigned && f < 0 {
		switch s.policy {
		case NegativeClamp:
			f = 0
		case NegativeReject:
			return Measure{}, cberrors.New(cberrors.ErrCodeNegativeValue, "negative value %s in unsigned bars", v)
		}
	}

	ratio := math.Min(math.Abs(f)/s.denom, 1)
	m := Measure{Width: ratio * 100, Position: ratio}
	if ratio == 0 {
		return m, nil
	}

	m.Direction = DirRight
	if s.mode == Signed && f < 0 {
		m.Direction = DirLeft
		m.Position = -ratio
	}
	return m, nil
}

// Widths measures every value of col against its own extent. Cells that
// fail to measure get a zero Measure; use [Scale.Measure] to see the errors.
func Widths(col Column, mode Mode, opts ...ScaleOption) []Measure {
	s := NewScale(ComputeExtent(col), mode, opts...)
	out := make([]Measure, len(col))
	for i, v := range col {
		out[i], _ = s.Measure(v)
	}
	return out
}
