// Package palette maps normalized bar positions to fill colors.
//
// A [Gradient] is built from one or more CSS colors. With a single color
// every position maps to that color. With two or more, the colors are
// equally spaced stops over the gradient's domain and positions between
// stops are interpolated linearly per channel:
//
//   - [DomainUnit] spans [0,1], for plain bars
//   - [DomainSigned] spans [-1,1], for positive/negative bars; the middle
//     stop (or the midpoint between the two middle stops) sits at zero
//
// Colors are parsed and blended with go-colorful. Accepted notations are
// hex (#rgb, #rrggbb), rgb(r, g, b) and CSS color names.
//
//	g, err := palette.NewGradient([]string{"#ff3030", "#ffffff", "#1e90ff"},
//	    palette.WithDomain(palette.DomainSigned))
//	fill := g.At(-0.5) // halfway between red and white
package palette
