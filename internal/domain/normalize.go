package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrMissingColumn is returned when a required column is absent from the sheet header.
var ErrMissingColumn = errors.New("required column missing")

// DropStats counts rows discarded during normalization, by reason.
type DropStats struct {
	MissingRequired  int `json:"missing_required"`
	InvalidTimestamp int `json:"invalid_timestamp"`
}

// Total returns the number of dropped rows.
func (d DropStats) Total() int {
	return d.MissingRequired + d.InvalidTimestamp
}

// NormalizeResult is the outcome of normalizing one sheet export.
type NormalizeResult struct {
	Records []OrderRecord
	// Columns is the trimmed header, in sheet order.
	Columns []string
	Dropped DropStats
}

// HasColumn reports whether the trimmed header contains column.
func (n NormalizeResult) HasColumn(column string) bool {
	return hasColumn(n.Columns, column)
}

// HasTimestamp reports whether the sheet has a Timestamp column, which gates
// the daily trend and forecasts.
func (n NormalizeResult) HasTimestamp() bool {
	return n.HasColumn(ColumnTimestamp)
}

// Normalize cleans a raw sheet export into order records. It trims the
// header, drops rows missing City or Order Status, title-cases both, and
// derives the order date when a Timestamp column exists. Rows with an
// unparseable timestamp are dropped and counted; an empty timestamp leaves the
// record undated.
func Normalize(table Table) (NormalizeResult, error) {
	columns := make([]string, len(table.Columns))
	index := make(map[string]int, len(table.Columns))
	for i, c := range table.Columns {
		c = strings.TrimSpace(c)
		columns[i] = c
		if _, dup := index[c]; !dup {
			index[c] = i
		}
	}

	for _, required := range []string{ColumnCity, ColumnOrderStatus} {
		if _, ok := index[required]; !ok {
			return NormalizeResult{}, fmt.Errorf("%w: %q", ErrMissingColumn, required)
		}
	}

	_, hasTimestamp := index[ColumnTimestamp]
	result := NormalizeResult{
		Records: make([]OrderRecord, 0, len(table.Rows)),
		Columns: columns,
	}

	for _, row := range table.Rows {
		cell := func(column string) string {
			i, ok := index[column]
			if !ok || i >= len(row) {
				return ""
			}
			return row[i]
		}

		city := NormalizeLabel(cell(ColumnCity))
		status := NormalizeLabel(cell(ColumnOrderStatus))
		if city == "" || status == "" {
			result.Dropped.MissingRequired++
			continue
		}

		rec := OrderRecord{
			CustomerName: cell(ColumnCustomerName),
			Email:        cell(ColumnEmail),
			City:         city,
			OrderStatus:  status,
			Extra:        extraColumns(columns, index, row),
		}

		if hasTimestamp {
			ts, ok, err := parseTimestamp(cell(ColumnTimestamp))
			if err != nil {
				result.Dropped.InvalidTimestamp++
				continue
			}
			if ok {
				rec.Timestamp = ts
				rec.OrderDate = ts.Format(orderDateLayout)
			}
		}

		result.Records = append(result.Records, rec)
	}

	return result, nil
}

// NormalizeLabel trims a City or Order Status value and title-cases it.
// It is idempotent.
func NormalizeLabel(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	// A Caser holds state and is not safe for concurrent use.
	return cases.Title(language.Und).String(s)
}

// parseTimestamp parses a form timestamp. It returns ok=false for an empty
// cell and an error when the value cannot be parsed.
func parseTimestamp(value string) (time.Time, bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false, nil
	}
	// Values without an offset read as UTC. An explicit offset is kept so the
	// order date is the submitter's calendar date.
	ts, err := dateparse.ParseIn(value, time.UTC)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse timestamp %q: %w", value, err)
	}
	return ts, true, nil
}

var knownColumns = map[string]bool{
	ColumnCity:         true,
	ColumnOrderStatus:  true,
	ColumnTimestamp:    true,
	ColumnCustomerName: true,
	ColumnEmail:        true,
}

func extraColumns(columns []string, index map[string]int, row []string) map[string]string {
	var extra map[string]string
	for i, c := range columns {
		if c == "" || knownColumns[c] || index[c] != i {
			continue
		}
		if extra == nil {
			extra = make(map[string]string)
		}
		if i < len(row) {
			extra[c] = row[i]
		} else {
			extra[c] = ""
		}
	}
	return extra
}

func hasColumn(columns []string, column string) bool {
	for _, c := range columns {
		if c == column {
			return true
		}
	}
	return false
}
