package palette

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	cberrors "github.com/matzehuels/cellbars/pkg/errors"
)

// namedColors is the subset of CSS color keywords accepted by [Parse].
var namedColors = map[string]string{
	"black":       "#000000",
	"white":       "#ffffff",
	"red":         "#ff0000",
	"green":       "#008000",
	"blue":        "#0000ff",
	"yellow":      "#ffff00",
	"orange":      "#ffa500",
	"purple":      "#800080",
	"gray":        "#808080",
	"grey":        "#808080",
	"lightgray":   "#d3d3d3",
	"lightgrey":   "#d3d3d3",
	"darkgray":    "#a9a9a9",
	"darkgrey":    "#a9a9a9",
	"navy":        "#000080",
	"teal":        "#008080",
	"maroon":      "#800000",
	"olive":       "#808000",
	"lime":        "#00ff00",
	"aqua":        "#00ffff",
	"cyan":        "#00ffff",
	"fuchsia":     "#ff00ff",
	"magenta":     "#ff00ff",
	"silver":      "#c0c0c0",
	"pink":        "#ffc0cb",
	"gold":        "#ffd700",
	"tomato":      "#ff6347",
	"firebrick":   "#b22222",
	"crimson":     "#dc143c",
	"salmon":      "#fa8072",
	"forestgreen": "#228b22",
	"seagreen":    "#2e8b57",
	"darkgreen":   "#006400",
	"steelblue":   "#4682b4",
	"dodgerblue":  "#1e90ff",
	"royalblue":   "#4169e1",
	"skyblue":     "#87ceeb",
	"lightblue":   "#add8e6",
	"whitesmoke":  "#f5f5f5",
	"ghostwhite":  "#f8f8ff",
}

// Parse parses a CSS color: #rgb, #rrggbb, rgb(r, g, b) or a color name.
func Parse(s string) (colorful.Color, error) {
	text := strings.ToLower(strings.TrimSpace(s))
	if hex, ok := namedColors[text]; ok {
		text = hex
	}

	if strings.HasPrefix(text, "rgb(") {
		return parseRGB(text)
	}

	if !strings.HasPrefix(text, "#") || (len(text) != 4 && len(text) != 7) {
		return colorful.Color{}, cberrors.New(cberrors.ErrCodeInvalidColor, "invalid color: %q", s)
	}
	c, err := colorful.Hex(text)
	if err != nil {
		return colorful.Color{}, cberrors.Wrap(cberrors.ErrCodeInvalidColor, err, "invalid color: %q", s)
	}
	return c, nil
}

func parseRGB(text string) (colorful.Color, error) {
	compact := strings.ReplaceAll(text, " ", "")
	var r, g, b int
	if n, err := fmt.Sscanf(compact, "rgb(%d,%d,%d)", &r, &g, &b); err != nil || n != 3 {
		return colorful.Color{}, cberrors.New(cberrors.ErrCodeInvalidColor, "invalid color: %q", text)
	}
	for _, ch := range []int{r, g, b} {
		if ch < 0 || ch > 255 {
			return colorful.Color{}, cberrors.New(cberrors.ErrCodeInvalidColor, "invalid color: %q (channels must be 0-255)", text)
		}
	}
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}, nil
}

// Normalize parses s and returns it as lowercase #rrggbb.
func Normalize(s string) (string, error) {
	c, err := Parse(s)
	if err != nil {
		return "", err
	}
	return c.Clamped().Hex(), nil
}

// contrastThreshold is the relative luminance above which dark text reads
// better than light text.
const contrastThreshold = 0.179

// Contrast returns "#000000" or "#ffffff", whichever reads better on top of
// fill. Unparseable fills get black text.
func Contrast(fill string) string {
	c, err := Parse(fill)
	if err != nil {
		return "#000000"
	}
	r, g, b := c.LinearRgb()
	if 0.2126*r+0.7152*g+0.0722*b > contrastThreshold {
		return "#000000"
	}
	return "#ffffff"
}
