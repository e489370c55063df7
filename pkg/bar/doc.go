// Package bar implements the numeric core of cellbars: cell values, column
// extents, and the width normalizer that turns a value into a bar length.
//
// # Values
//
// A cell is a [Value], a tagged variant with three kinds:
//
//   - [KindNumber]: a finite number
//   - [KindMissing]: an absent entry (empty cell, NA, NaN)
//   - [KindInvalid]: text that is not a number in a numeric column
//
// [ParseValue] classifies raw text cells. The zero Value is Missing.
//
// # Extents and Scales
//
// Bars in one column must share a scale so they are visually comparable.
// [ComputeExtent] walks a [Column] once and records Min, Max, MaxAbs and
// Mean over the numeric entries only. [NewScale] turns an Extent into a
// [Scale] for one of two modes:
//
//   - [Unsigned]: width = |v| / MaxAbs, bars grow from one side
//   - [Signed]: same width, but negative values grow left and positive
//     values grow right from a shared zero axis
//
// A Scale is an immutable value; compute it once per column and pass it to
// every cell.
//
//	col := bar.Floats(100, 200, 300)
//	s := bar.NewScale(bar.ComputeExtent(col), bar.Unsigned)
//	m, _ := s.Measure(col[0]) // m.Width ≈ 33.33
//
// # Negative values in unsigned mode
//
// Unsigned bars have no room for a direction, so a [NegativePolicy] decides
// what a negative value does: [NegativeMagnitude] draws it as if positive,
// [NegativeClamp] draws nothing, [NegativeReject] reports a per-cell error.
package bar
