package label

import "testing"

func TestFormatString(t *testing.T) {
	tests := []struct {
		name string
		f    Format
		v    float64
		want string
	}{
		{"plain shortest", Format{Digits: AutoDigits}, 1234.5, "1234.5"},
		{"commas", Format{Commas: true, Digits: AutoDigits}, 1234, "1,234"},
		{"commas millions", Format{Commas: true, Digits: AutoDigits}, -1234567.5, "-1,234,567.5"},
		{"commas small", Format{Commas: true, Digits: AutoDigits}, 999, "999"},
		{"commas exact thousand", Format{Commas: true, Digits: AutoDigits}, 100000, "100,000"},
		{"percent fraction", Format{Percent: true, Digits: AutoDigits}, 0.25, "25%"},
		{"percent fraction exact", Format{Percent: true, Digits: AutoDigits}, 0.29, "29%"},
		{"percent points", Format{Percent: true, Scale: Points, Digits: AutoDigits}, 0.25, "0.25%"},
		{"percent with digits", Format{Percent: true, Digits: 1}, 0.12345, "12.3%"},
		{"fixed digits", Format{Digits: 2}, 3.14159, "3.14"},
		{"fixed digits pad", Format{Digits: 2}, 3, "3.00"},
		{"round half away", Format{Digits: 1}, 5.45, "5.5"},
		{"zero format rounds", Format{}, 2.6, "3"},
		{"negative zero", Format{Digits: 1}, -0.01, "0.0"},
		{"prefix suffix", Format{Prefix: "$", Suffix: " USD", Commas: true, Digits: 2}, 1234.5, "$1,234.50 USD"},
		{"commas and percent", Format{Commas: true, Percent: true, Digits: AutoDigits}, 12.5, "1,250%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.f.String(tt.v); got != tt.want {
				t.Errorf("String(%v) = %q, want %q", tt.v, got, tt.want)
			}
		})
	}
}

func TestParsePercentScale(t *testing.T) {
	for _, s := range []PercentScale{Fraction, Points} {
		got, err := ParsePercentScale(s.String())
		if err != nil || got != s {
			t.Errorf("ParsePercentScale(%q) = %v, %v", s.String(), got, err)
		}
	}
	if _, err := ParsePercentScale("basis"); err == nil {
		t.Error("ParsePercentScale(basis) expected error")
	}
}
