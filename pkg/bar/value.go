package bar

import (
	"math"
	"strconv"
	"strings"
)

// Kind tags the variant held by a [Value].
type Kind uint8

const (
	// KindMissing marks an absent cell. It is the zero Kind.
	KindMissing Kind = iota
	// KindNumber marks a finite numeric cell.
	KindNumber
	// KindInvalid marks a cell whose text is not a number.
	KindInvalid
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindInvalid:
		return "invalid"
	default:
		return "missing"
	}
}

// Value is a single table cell: a number, a missing entry, or invalid text.
// The zero Value is Missing.
type Value struct {
	kind Kind
	num  float64
	raw  string
}

// Number returns a numeric Value. NaN is treated as missing and ±Inf as
// invalid, so every KindNumber value is finite.
func Number(f float64) Value {
	switch {
	case math.IsNaN(f):
		return Value{kind: KindMissing}
	case math.IsInf(f, 0):
		return Value{kind: KindInvalid, raw: strconv.FormatFloat(f, 'g', -1, 64)}
	}
	return Value{kind: KindNumber, num: f}
}

// Missing returns a missing Value.
func Missing() Value { return Value{} }

// Invalid returns an invalid Value holding the offending text.
func Invalid(raw string) Value { return Value{kind: KindInvalid, raw: raw} }

// Kind reports which variant v holds.
func (v Value) Kind() Kind { return v.kind }

// IsNumber reports whether v holds a number.
func (v Value) IsNumber() bool { return v.kind == KindNumber }

// IsMissing reports whether v is missing.
func (v Value) IsMissing() bool { return v.kind == KindMissing }

// IsInvalid reports whether v holds non-numeric text.
func (v Value) IsInvalid() bool { return v.kind == KindInvalid }

// Float returns the number held by v and whether v is a number.
func (v Value) Float() (float64, bool) { return v.num, v.kind == KindNumber }

// Raw returns the original text of the cell, if it was parsed from text.
func (v Value) Raw() string { return v.raw }

// String renders v for diagnostics.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindInvalid:
		return strconv.Quote(v.raw)
	default:
		return "NA"
	}
}

var missingTokens = map[string]bool{
	"":     true,
	"na":   true,
	"n/a":  true,
	"nan":  true,
	"null": true,
	"none": true,
	"-":    true,
}

// ParseValue classifies a raw text cell.
//
// Empty text and the tokens NA, N/A, NaN, null, None and "-" (any case) are
// missing. Thousands separators, a leading "+" and a trailing "%" are
// accepted; the percent sign is dropped without rescaling. Anything else that
// does not parse as a finite number is invalid.
func ParseValue(s string) Value {
	text := strings.TrimSpace(s)
	if missingTokens[strings.ToLower(text)] {
		return Value{kind: KindMissing, raw: s}
	}

	text = strings.TrimSuffix(text, "%")
	text = strings.ReplaceAll(text, ",", "")
	text = strings.TrimSpace(text)

	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return Value{kind: KindInvalid, raw: s}
	}
	return Value{kind: KindNumber, num: f, raw: s}
}

// Column is an ordered sequence of cell values.
type Column []Value

// Floats builds a Column of numbers.
func Floats(fs ...float64) Column {
	col := make(Column, len(fs))
	for i, f := range fs {
		col[i] = Number(f)
	}
	return col
}

// ParseColumn parses every raw cell with [ParseValue].
func ParseColumn(raw []string) Column {
	col := make(Column, len(raw))
	for i, s := range raw {
		col[i] = ParseValue(s)
	}
	return col
}
