package sheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/couchcryptid/order-dashboard/internal/domain"
	"github.com/xuri/excelize/v2"
)

// Format names a sheet export encoding.
type Format string

const (
	FormatAuto Format = "auto"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ErrEmptySheet is returned when an export has no header row.
var ErrEmptySheet = errors.New("sheet export is empty")

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatAuto, FormatCSV, FormatXLSX:
		return f, nil
	case "":
		return FormatAuto, nil
	default:
		return "", fmt.Errorf("unknown sheet format %q", s)
	}
}

// xlsxMagic is the ZIP local file header that starts every XLSX file.
var xlsxMagic = []byte("PK\x03\x04")

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Detect picks the concrete format of data. contentType may be empty.
func Detect(data []byte, contentType string) Format {
	if bytes.HasPrefix(data, xlsxMagic) || strings.HasPrefix(contentType, xlsxContentType) {
		return FormatXLSX
	}
	return FormatCSV
}

// Parse decodes a sheet export into a table. FormatAuto detects the format
// from the payload and content type.
func Parse(data []byte, format Format, contentType string) (domain.Table, error) {
	if format == FormatAuto || format == "" {
		format = Detect(data, contentType)
	}
	switch format {
	case FormatXLSX:
		return ParseXLSX(bytes.NewReader(data))
	case FormatCSV:
		return ParseCSV(bytes.NewReader(data))
	default:
		return domain.Table{}, fmt.Errorf("unknown sheet format %q", format)
	}
}

// ParseCSV reads a comma-separated export. Rows may have fewer or more cells
// than the header.
func ParseCSV(r io.Reader) (domain.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return domain.Table{}, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return domain.Table{}, ErrEmptySheet
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	return domain.Table{Columns: header, Rows: records[1:]}, nil
}

// ParseXLSX reads the first worksheet of an XLSX workbook.
func ParseXLSX(r io.Reader) (domain.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return domain.Table{}, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return domain.Table{}, ErrEmptySheet
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return domain.Table{}, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return domain.Table{}, ErrEmptySheet
	}
	return domain.Table{Columns: rows[0], Rows: rows[1:]}, nil
}
