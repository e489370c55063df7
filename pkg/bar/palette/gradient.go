package palette

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	cberrors "github.com/matzehuels/cellbars/pkg/errors"
)

// Domain is the range of positions a gradient spans.
type Domain uint8

const (
	// DomainUnit spans [0,1].
	DomainUnit Domain = iota
	// DomainSigned spans [-1,1] with zero in the middle.
	DomainSigned
)

// Blend selects the color space used between stops.
type Blend uint8

const (
	// BlendRGB interpolates each sRGB channel linearly.
	BlendRGB Blend = iota
	// BlendLab interpolates in CIE L*a*b* for perceptually even steps.
	BlendLab
)

// String returns "rgb" or "lab".
func (b Blend) String() string {
	if b == BlendLab {
		return "lab"
	}
	return "rgb"
}

// ParseBlend parses "rgb" or "lab". The empty string means rgb.
func ParseBlend(s string) (Blend, error) {
	switch s {
	case "", "rgb":
		return BlendRGB, nil
	case "lab":
		return BlendLab, nil
	}
	return BlendRGB, cberrors.New(cberrors.ErrCodeInvalidConfig, "invalid blend: %q (must be 'rgb' or 'lab')", s)
}

// Option configures a Gradient.
type Option func(*Gradient)

// WithDomain sets the position domain. The default is [DomainUnit].
func WithDomain(d Domain) Option { return func(g *Gradient) { g.domain = d } }

// WithBlend sets the interpolation space. The default is [BlendRGB].
func WithBlend(b Blend) Option { return func(g *Gradient) { g.blend = b } }

// Gradient maps positions to colors. It is immutable and safe for
// concurrent use.
type Gradient struct {
	stops  []colorful.Color
	hex    []string
	domain Domain
	blend  Blend
}

// NewGradient parses colors into a gradient. An empty list or any
// unparseable color is an INVALID_COLOR error.
func NewGradient(colors []string, opts ...Option) (Gradient, error) {
	if len(colors) == 0 {
		return Gradient{}, cberrors.New(cberrors.ErrCodeInvalidColor, "color list cannot be empty")
	}

	g := Gradient{
		stops: make([]colorful.Color, len(colors)),
		hex:   make([]string, len(colors)),
	}
	for i, s := range colors {
		c, err := Parse(s)
		if err != nil {
			return Gradient{}, err
		}
		g.stops[i] = c
		g.hex[i] = c.Clamped().Hex()
	}
	for _, opt := range opts {
		opt(&g)
	}
	return g, nil
}

// Single reports whether the gradient has exactly one color.
func (g Gradient) Single() bool { return len(g.stops) == 1 }

// Stops returns the parsed stops as #rrggbb.
func (g Gradient) Stops() []string {
	out := make([]string, len(g.hex))
	copy(out, g.hex)
	return out
}

// Domain returns the gradient's position domain.
func (g Gradient) Domain() Domain { return g.domain }

// At returns the color at position p as #rrggbb. Positions outside the
// domain are clamped to its ends.
func (g Gradient) At(p float64) string {
	n := len(g.stops)
	switch n {
	case 0:
		return ""
	case 1:
		return g.hex[0]
	}

	t := g.unit(p)
	seg := t * float64(n-1)
	i := int(math.Floor(seg))
	if i >= n-1 {
		i = n - 2
	}
	frac := seg - float64(i)

	switch {
	case frac <= 0:
		return g.hex[i]
	case frac >= 1:
		return g.hex[i+1]
	}

	a, b := g.stops[i], g.stops[i+1]
	var c colorful.Color
	if g.blend == BlendLab {
		c = a.BlendLab(b, frac)
	} else {
		c = a.BlendRgb(b, frac)
	}
	return c.Clamped().Hex()
}

// unit maps p from the gradient's domain onto [0,1].
func (g Gradient) unit(p float64) float64 {
	if math.IsNaN(p) {
		p = 0
	}
	if g.domain == DomainSigned {
		p = (math.Max(-1, math.Min(1, p)) + 1) / 2
	}
	return math.Max(0, math.Min(1, p))
}
