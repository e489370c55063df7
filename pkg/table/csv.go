package table

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/matzehuels/cellbars/pkg/bar"
	cberrors "github.com/matzehuels/cellbars/pkg/errors"
)

// MaxRows bounds the number of data rows ReadCSV accepts by default.
const MaxRows = 1_000_000

// CSVOption configures [ReadCSV].
type CSVOption func(*csvReader)

type csvReader struct {
	comma   rune
	maxRows int
	trim    bool
}

// WithDelimiter sets the field delimiter. Default: ','.
func WithDelimiter(r rune) CSVOption { return func(c *csvReader) { c.comma = r } }

// WithMaxRows sets the row limit. Non-positive n disables the limit.
func WithMaxRows(n int) CSVOption { return func(c *csvReader) { c.maxRows = n } }

// WithoutTrim keeps leading and trailing whitespace in raw cell text.
func WithoutTrim() CSVOption { return func(c *csvReader) { c.trim = false } }

// ReadCSV reads a CSV document whose first record is the header. Short
// records are padded with empty (missing) cells; long records are an error.
func ReadCSV(r io.Reader, opts ...CSVOption) (*Table, error) {
	cfg := csvReader{comma: ',', maxRows: MaxRows, trim: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	cr := csv.NewReader(r)
	cr.Comma = cfg.comma
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, cberrors.New(cberrors.ErrCodeInvalidInput, "empty CSV input")
	}
	if err != nil {
		return nil, cberrors.Wrap(cberrors.ErrCodeInvalidInput, err, "read CSV header")
	}

	cols := make([]Column, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		cols[i].Name = name
	}

	rows := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, cberrors.Wrap(cberrors.ErrCodeInvalidInput, err, "read CSV")
		}
		if len(rec) > len(cols) {
			line, _ := cr.FieldPos(0)
			return nil, cberrors.New(cberrors.ErrCodeInvalidInput, "line %d: %d fields, header has %d", line, len(rec), len(cols))
		}
		rows++
		if cfg.maxRows > 0 && rows > cfg.maxRows {
			return nil, cberrors.New(cberrors.ErrCodeInvalidInput, "CSV has more than %d rows", cfg.maxRows)
		}
		for i := range cols {
			cell := ""
			if i < len(rec) {
				cell = rec[i]
			}
			if cfg.trim {
				cell = strings.TrimSpace(cell)
			}
			cols[i].Raw = append(cols[i].Raw, cell)
			cols[i].Values = append(cols[i].Values, bar.ParseValue(cell))
		}
	}

	for i := range cols {
		if cols[i].Raw == nil {
			cols[i].Raw = []string{}
			cols[i].Values = bar.Column{}
		}
	}
	return New(cols)
}
