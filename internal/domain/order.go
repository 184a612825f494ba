package domain

import (
	"time"
)

// Sheet column names as they appear in the header after trimming.
const (
	ColumnCity         = "City"
	ColumnOrderStatus  = "Order Status"
	ColumnTimestamp    = "Timestamp"
	ColumnCustomerName = "Customer Name"
	ColumnEmail        = "Email"
)

// orderDateLayout is the calendar-date form used for OrderDate and trend keys.
// ISO dates sort lexically in chronological order.
const orderDateLayout = "2006-01-02"

// Table is one raw spreadsheet export: a header row and string cells.
// Rows may be shorter than the header; missing cells read as empty.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// OrderRecord is one normalized sheet row.
type OrderRecord struct {
	CustomerName string    `json:"customer_name,omitempty"`
	Email        string    `json:"email,omitempty"`
	City         string    `json:"city"`
	OrderStatus  string    `json:"order_status"`
	Timestamp    time.Time `json:"timestamp,omitzero"`
	OrderDate    string    `json:"order_date,omitempty"`

	// Location is set by geocoding; nil when the city did not resolve.
	Location *Geo `json:"location,omitempty"`

	// Extra holds every other sheet column verbatim.
	Extra map[string]string `json:"extra,omitempty"`
}

// Field returns the value of a sheet column for this record. Known columns map
// to their typed fields; anything else is looked up in Extra.
func (r OrderRecord) Field(column string) string {
	switch column {
	case ColumnCity:
		return r.City
	case ColumnOrderStatus:
		return r.OrderStatus
	case ColumnCustomerName:
		return r.CustomerName
	case ColumnEmail:
		return r.Email
	case ColumnTimestamp:
		if r.Timestamp.IsZero() {
			return ""
		}
		return r.Timestamp.Format(time.RFC3339)
	default:
		return r.Extra[column]
	}
}

// Dated reports whether the record carries an order date.
func (r OrderRecord) Dated() bool {
	return r.OrderDate != ""
}

// MapPoint is a record that resolved to coordinates, ready for map display.
type MapPoint struct {
	City        string  `json:"city"`
	OrderStatus string  `json:"order_status"`
	Lat         float64 `json:"latitude"`
	Lon         float64 `json:"longitude"`
}
