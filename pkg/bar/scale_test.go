package bar

import (
	"math"
	"math/rand/v2"
	"testing"

	cberrors "github.com/matzehuels/cellbars/pkg/errors"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 0.05 }

func TestUnsignedWidths(t *testing.T) {
	got := Widths(Floats(100, 200, 300), Unsigned)
	want := []float64{33.3, 66.7, 100}
	for i, m := range got {
		if !approx(m.Width, want[i]) {
			t.Errorf("width[%d] = %.2f, want %.1f", i, m.Width, want[i])
		}
		if m.Direction != DirRight {
			t.Errorf("direction[%d] = %v, want right", i, m.Direction)
		}
	}
}

func TestSignedWidths(t *testing.T) {
	got := Widths(Floats(-50, 0, 50), Signed)

	tests := []struct {
		width float64
		dir   Direction
		pos   float64
	}{
		{100, DirLeft, -1},
		{0, DirNone, 0},
		{100, DirRight, 1},
	}
	for i, tt := range tests {
		if got[i].Width != tt.width || got[i].Direction != tt.dir || got[i].Position != tt.pos {
			t.Errorf("measure[%d] = %+v, want width %v dir %v pos %v", i, got[i], tt.width, tt.dir, tt.pos)
		}
	}
}

func TestMeasureMissingAndInvalid(t *testing.T) {
	s := NewScale(ComputeExtent(Floats(1, 2)), Unsigned)

	m, err := s.Measure(Missing())
	if err != nil || !m.Missing || m.Width != 0 {
		t.Errorf("Measure(missing) = %+v, %v; want Missing with no error", m, err)
	}

	_, err = s.Measure(Invalid("abc"))
	if !cberrors.Is(err, cberrors.ErrCodeType) {
		t.Errorf("Measure(invalid) error = %v, want TYPE_ERROR", err)
	}
}

func TestAllMissingColumn(t *testing.T) {
	col := Column{Missing(), Missing(), Number(0)}
	for i, m := range Widths(col, Unsigned) {
		if m.Width != 0 {
			t.Errorf("width[%d] = %v, want 0", i, m.Width)
		}
	}
}

func TestNegativePolicies(t *testing.T) {
	col := Floats(-10, 5)
	ext := ComputeExtent(col)

	t.Run("magnitude", func(t *testing.T) {
		m, err := NewScale(ext, Unsigned).Measure(col[0])
		if err != nil || m.Width != 100 || m.Direction != DirRight {
			t.Errorf("Measure(-10) = %+v, %v; want full width", m, err)
		}
	})

	t.Run("clamp", func(t *testing.T) {
		m, err := NewScale(ext, Unsigned, WithNegativePolicy(NegativeClamp)).Measure(col[0])
		if err != nil || m.Width != 0 || m.Direction != DirNone {
			t.Errorf("Measure(-10) = %+v, %v; want zero width", m, err)
		}
	})

	t.Run("reject", func(t *testing.T) {
		_, err := NewScale(ext, Unsigned, WithNegativePolicy(NegativeReject)).Measure(col[0])
		if !cberrors.Is(err, cberrors.ErrCodeNegativeValue) {
			t.Errorf("Measure(-10) error = %v, want NEGATIVE_VALUE", err)
		}
		if _, err := NewScale(ext, Unsigned, WithNegativePolicy(NegativeReject)).Measure(col[1]); err != nil {
			t.Errorf("Measure(5) error = %v", err)
		}
	})

	t.Run("signed ignores policy", func(t *testing.T) {
		m, err := NewScale(ext, Signed, WithNegativePolicy(NegativeReject)).Measure(col[0])
		if err != nil || m.Direction != DirLeft {
			t.Errorf("Measure(-10) = %+v, %v; want left bar", m, err)
		}
	})
}

func TestWithDenominator(t *testing.T) {
	ext := ComputeExtent(Floats(10, 50))

	s := NewScale(ext, Unsigned, WithDenominator(25))
	if s.Denominator() != 25 {
		t.Fatalf("Denominator() = %v, want 25", s.Denominator())
	}
	m, _ := s.Measure(Number(50))
	if m.Width != 100 {
		t.Errorf("width beyond fixed max = %v, want clamped 100", m.Width)
	}
	m, _ = s.Measure(Number(10))
	if m.Width != 40 {
		t.Errorf("width = %v, want 40", m.Width)
	}

	if got := NewScale(ext, Unsigned, WithDenominator(0)).Denominator(); got != 50 {
		t.Errorf("zero override Denominator() = %v, want 50", got)
	}
}

func TestWidthProperties(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for round := 0; round < 50; round++ {
		col := make(Column, 20)
		for i := range col {
			switch rng.IntN(6) {
			case 0:
				col[i] = Missing()
			default:
				col[i] = Number((rng.Float64() - 0.5) * 2000)
			}
		}

		for _, mode := range []Mode{Unsigned, Signed} {
			s := NewScale(ComputeExtent(col), mode)
			for _, v := range col {
				m, err := s.Measure(v)
				if err != nil {
					t.Fatalf("Measure(%v) error: %v", v, err)
				}
				if m.Width < 0 || m.Width > 100 {
					t.Fatalf("width %v out of range for %v", m.Width, v)
				}
				f, ok := v.Float()
				if mode == Signed && ok {
					switch {
					case f < 0 && m.Direction != DirLeft:
						t.Fatalf("negative %v drawn %v", f, m.Direction)
					case f > 0 && m.Direction != DirRight:
						t.Fatalf("positive %v drawn %v", f, m.Direction)
					}
				}
			}
		}

		// Monotonic in |v| for unsigned bars.
		s := NewScale(ComputeExtent(col), Unsigned)
		for _, a := range col {
			for _, b := range col {
				fa, okA := a.Float()
				fb, okB := b.Float()
				if !okA || !okB || math.Abs(fa) > math.Abs(fb) {
					continue
				}
				ma, _ := s.Measure(a)
				mb, _ := s.Measure(b)
				if ma.Width > mb.Width {
					t.Fatalf("|%v| <= |%v| but width %v > %v", fa, fb, ma.Width, mb.Width)
				}
			}
		}
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", Unsigned, false},
		{"bars", Unsigned, false},
		{"pos_neg", Signed, false},
		{"pos-neg", Signed, false},
		{"pie", Unsigned, true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseMode(%q) = %v, %v; want %v, err %v", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestParseNegativePolicy(t *testing.T) {
	for _, p := range []NegativePolicy{NegativeMagnitude, NegativeClamp, NegativeReject} {
		got, err := ParseNegativePolicy(p.String())
		if err != nil || got != p {
			t.Errorf("ParseNegativePolicy(%q) = %v, %v", p.String(), got, err)
		}
	}
	if _, err := ParseNegativePolicy("abs"); !cberrors.Is(err, cberrors.ErrCodeInvalidConfig) {
		t.Errorf("ParseNegativePolicy(abs) error = %v, want INVALID_CONFIG", err)
	}
}
