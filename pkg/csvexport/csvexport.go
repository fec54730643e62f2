// Package csvexport renders admin listings and reports as CSV downloads.
package csvexport

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/media2net-app/bloemenvandegier-sub001/pkg/errors"
)

// utf8BOM makes Excel detect UTF-8 instead of falling back to the locale
// codepage, which mangles customer names.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Options control the rendered CSV dialect.
type Options struct {
	// Delimiter defaults to comma. Dutch Excel expects semicolons.
	Delimiter rune
	// IncludeBOM prepends a UTF-8 byte order mark.
	IncludeBOM bool
	// DecimalComma renders amounts with a comma separator (12,34).
	DecimalComma bool
}

// Document is a header row plus data rows, all pre-stringified except
// amounts, which go through Amount so the locale option applies.
type Document struct {
	Header []string
	Rows   [][]string
}

// Writer builds a Document row by row.
type Writer struct {
	opts Options
	doc  Document
}

func NewWriter(header []string, opts Options) *Writer {
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}
	return &Writer{opts: opts, doc: Document{Header: header}}
}

// Append adds one data row. Row width is validated at render time by
// encoding/csv, not here.
func (w *Writer) Append(row []string) {
	w.doc.Rows = append(w.doc.Rows, row)
}

// Amount renders an integer cent value as a major-unit string honoring the
// locale option, e.g. 5335 becomes "53.35" or "53,35".
func (w *Writer) Amount(cents int64) string {
	value := decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)).StringFixed(2)
	if w.opts.DecimalComma {
		value = strings.Replace(value, ".", ",", 1)
	}
	return value
}

// Render produces the final CSV bytes with RFC 4180 quoting.
func (w *Writer) Render() ([]byte, error) {
	var buf bytes.Buffer
	if w.opts.IncludeBOM {
		buf.Write(utf8BOM)
	}

	cw := csv.NewWriter(&buf)
	cw.Comma = w.opts.Delimiter

	if err := cw.Write(w.doc.Header); err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "csvexport: write header")
	}
	for i, row := range w.doc.Rows {
		if err := cw.Write(row); err != nil {
			return nil, errors.Wrap(errors.CodeInternal, err, "csvexport: write row "+strconv.Itoa(i))
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "csvexport: flush")
	}
	return buf.Bytes(), nil
}

// Parse reads CSV bytes back into a Document, stripping a leading BOM when
// present. Used by the import path and by round-trip checks.
func Parse(data []byte, delimiter rune) (Document, error) {
	if delimiter == 0 {
		delimiter = ','
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	records, err := reader.ReadAll()
	if err != nil {
		return Document{}, errors.Wrap(errors.CodeValidation, err, "csvexport: parse")
	}
	if len(records) == 0 {
		return Document{}, errors.New(errors.CodeValidation, "csvexport: empty document")
	}
	return Document{Header: records[0], Rows: records[1:]}, nil
}
