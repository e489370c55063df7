package bar

import "math"

// Extent summarizes the numeric entries of a column. Missing and invalid
// entries are counted but never contribute to Min, Max, MaxAbs or Mean.
type Extent struct {
	Count   int // numeric entries
	Missing int
	Invalid int
	Min     float64
	Max     float64
	MaxAbs  float64
	Sum     float64
	Mean    float64
}

// ComputeExtent walks col once.
func ComputeExtent(col Column) Extent {
	var e Extent
	for _, v := range col {
		switch v.kind {
		case KindMissing:
			e.Missing++
			continue
		case KindInvalid:
			e.Invalid++
			continue
		}
		f := v.num
		if e.Count == 0 {
			e.Min, e.Max = f, f
		} else {
			e.Min = min(e.Min, f)
			e.Max = max(e.Max, f)
		}
		e.MaxAbs = max(e.MaxAbs, math.Abs(f))
		e.Sum += f
		e.Count++
	}
	if e.Count > 0 {
		e.Mean = e.Sum / float64(e.Count)
	}
	return e
}

// Denominator is the width normalizer for the column: MaxAbs, or 1 when the
// column has no non-zero numbers.
func (e Extent) Denominator() float64 {
	if e.MaxAbs == 0 {
		return 1
	}
	return e.MaxAbs
}

// Empty reports whether the column has no numeric entries.
func (e Extent) Empty() bool { return e.Count == 0 }
