package table

import (
	"strings"
	"testing"

	"github.com/matzehuels/cellbars/pkg/bar"
	cberrors "github.com/matzehuels/cellbars/pkg/errors"
)

const salesCSV = `region,sales,change,note
North,"1,200",0.12,ok
South,800,-0.05,
East,NA,0.30,late
West,1500,n/a,x
`

func TestReadCSV(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader(salesCSV))
	if err != nil {
		t.Fatalf("ReadCSV() error: %v", err)
	}
	if tbl.Rows() != 4 {
		t.Errorf("Rows() = %d, want 4", tbl.Rows())
	}
	if got := strings.Join(tbl.Names(), ","); got != "region,sales,change,note" {
		t.Errorf("Names() = %s", got)
	}

	sales, err := tbl.Column("sales")
	if err != nil {
		t.Fatal(err)
	}
	if f, ok := sales.Values[0].Float(); !ok || f != 1200 {
		t.Errorf("sales[0] = %v", sales.Values[0])
	}
	if !sales.Values[2].IsMissing() {
		t.Errorf("sales[2] = %v, want missing", sales.Values[2])
	}
	if sales.Raw[0] != "1,200" {
		t.Errorf("raw = %q", sales.Raw[0])
	}

	change, _ := tbl.Column("change")
	if !change.Values[3].IsMissing() {
		t.Errorf("n/a should be missing, got %v", change.Values[3])
	}
}

func TestReadCSVRaggedRows(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader("a,b\n1\n2,3\n"))
	if err != nil {
		t.Fatal(err)
	}
	b, _ := tbl.Column("b")
	if !b.Values[0].IsMissing() || b.Raw[0] != "" {
		t.Errorf("short row not padded: %v", b.Values[0])
	}

	_, err = ReadCSV(strings.NewReader("a,b\n1,2,3\n"))
	if !cberrors.Is(err, cberrors.ErrCodeInvalidInput) {
		t.Errorf("long row: err = %v", err)
	}
}

func TestReadCSVErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		opts  []CSVOption
		code  cberrors.Code
	}{
		{"empty", "", nil, cberrors.ErrCodeInvalidInput},
		{"duplicate header", "a,a\n1,2\n", nil, cberrors.ErrCodeInvalidInput},
		{"blank header", "a,\n1,2\n", nil, cberrors.ErrCodeInvalidColumn},
		{"too many rows", "a\n1\n2\n3\n", []CSVOption{WithMaxRows(2)}, cberrors.ErrCodeInvalidInput},
		{"bad quoting", "a\n\"1\n", nil, cberrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.input), tt.opts...)
			if got := cberrors.GetCode(err); got != tt.code {
				t.Errorf("code = %q, want %q (err %v)", got, tt.code, err)
			}
		})
	}
}

func TestReadCSVOptions(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader("\ufeffa;b\n 1 ;2\n"), WithDelimiter(';'), WithoutTrim())
	if err != nil {
		t.Fatal(err)
	}
	a, err := tbl.Column("a")
	if err != nil {
		t.Fatalf("BOM not stripped: %v", tbl.Names())
	}
	if a.Raw[0] != " 1 " {
		t.Errorf("raw = %q, want untrimmed", a.Raw[0])
	}
}

func TestHeaderOnly(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader("a,b\n"))
	if err != nil {
		t.Fatal(err)
	}
	if tbl.Rows() != 0 || len(tbl.NumericColumns()) != 0 {
		t.Errorf("rows = %d", tbl.Rows())
	}
}

func TestColumnNotFound(t *testing.T) {
	tbl, _ := ReadCSV(strings.NewReader(salesCSV))
	_, err := tbl.Column("profit")
	if !cberrors.Is(err, cberrors.ErrCodeColumnNotFound) {
		t.Errorf("err = %v", err)
	}
}

func TestNumericColumns(t *testing.T) {
	tbl, _ := ReadCSV(strings.NewReader(salesCSV))
	if got := strings.Join(tbl.NumericColumns(), ","); got != "sales,change" {
		t.Errorf("NumericColumns() = %s", got)
	}
}

func TestColumnNumeric(t *testing.T) {
	tests := []struct {
		name string
		raw  []string
		want bool
	}{
		{"all numbers", []string{"1", "2"}, true},
		{"all missing", []string{"", "NA"}, false},
		{"mostly text", []string{"a", "b", "1"}, false},
		{"tie", []string{"a", "1"}, true},
	}
	for _, tt := range tests {
		c := Column{Name: tt.name, Raw: tt.raw, Values: bar.ParseColumn(tt.raw)}
		if got := c.Numeric(); got != tt.want {
			t.Errorf("%s: Numeric() = %v, want %v", tt.name, got, tt.want)
		}
	}
}
