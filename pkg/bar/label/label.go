// Package label formats bar values for display next to (or inside) a bar.
//
// Formatting goes through shopspring/decimal so that scaling a fraction to
// percent points and rounding to fixed digits are exact: 0.29 formats as
// "29%", not "28.999999999999996%".
package label

import (
	"strings"

	"github.com/shopspring/decimal"

	cberrors "github.com/matzehuels/cellbars/pkg/errors"
)

// AutoDigits selects the shortest exact representation instead of a fixed
// number of decimal places.
const AutoDigits = -1

// PercentScale says what a value means when rendered as a percentage.
type PercentScale uint8

const (
	// Fraction values are shares of one: 0.25 renders as "25%".
	Fraction PercentScale = iota
	// Points values are already percent points: 0.25 renders as "0.25%".
	Points
)

// String returns "fraction" or "points".
func (s PercentScale) String() string {
	if s == Points {
		return "points"
	}
	return "fraction"
}

// ParsePercentScale parses "fraction" or "points". The empty string means
// fraction.
func ParsePercentScale(s string) (PercentScale, error) {
	switch s {
	case "", "fraction":
		return Fraction, nil
	case "points":
		return Points, nil
	}
	return Fraction, cberrors.New(cberrors.ErrCodeInvalidConfig, "invalid percent scale: %q (must be 'fraction' or 'points')", s)
}

// Format describes how a number becomes label text.
//
// Digits is the number of decimal places; use [AutoDigits] for the shortest
// exact form. Note that the zero Format rounds to whole numbers.
type Format struct {
	Commas  bool
	Percent bool
	Scale   PercentScale
	Digits  int
	Prefix  string
	Suffix  string
}

var hundred = decimal.NewFromInt(100)

// String formats v.
func (f Format) String(v float64) string {
	d := decimal.NewFromFloat(v)
	if f.Percent && f.Scale == Fraction {
		d = d.Mul(hundred)
	}

	var s string
	if f.Digits >= 0 {
		s = d.StringFixed(int32(f.Digits))
	} else {
		s = d.String()
	}
	if strings.HasPrefix(s, "-") && strings.Trim(s, "-0.") == "" {
		s = s[1:]
	}
	if f.Commas {
		s = groupThousands(s)
	}

	var b strings.Builder
	b.WriteString(f.Prefix)
	b.WriteString(s)
	if f.Percent {
		b.WriteByte('%')
	}
	b.WriteString(f.Suffix)
	return b.String()
}

// groupThousands inserts "," between groups of three integer digits.
func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, hasFrac := strings.Cut(s, ".")
	if len(intPart) <= 3 {
		return sign + s
	}

	var b strings.Builder
	b.WriteString(sign)
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}
