// Package domain models customer order submissions collected through a web
// form and exported from the backing spreadsheet.
//
// # Data Source
//
// Orders are entered through a Google Form. Each submission becomes one row of
// the linked Google Sheet, which is published to the web as CSV (or XLSX).
// The dashboard re-fetches the whole export on every refresh; rows carry no
// stable identity, so every refresh replaces the previous record set.
//
// # Sheet Conventions
//
// Columns:
//
//	"City", "Order Status"            required, rows without them are dropped
//	"Timestamp"                       optional, set by the form on submission
//	"Customer Name", "Email"          optional, used by keyword search
//
// Header cells are trimmed before matching. Matching is exact and
// case-sensitive ("city" is not "City"). Column order is irrelevant. Any other
// column is carried through untouched in [OrderRecord.Extra].
//
// Text normalization:
//
//	City and Order Status are trimmed and title-cased before any comparison
//	or grouping: " lahore " → "Lahore", "delivered " → "Delivered".
//	The status vocabulary is open; whatever labels appear in the sheet are
//	used as-is after normalization.
//	Title-casing follows Unicode word boundaries, so letters after an
//	apostrophe or an inner period stay lower case: "o'neil" → "O'neil",
//	"d.i. khan" → "D.i. Khan". A spreadsheet tool that capitalizes after
//	every non-letter would write "O'Neil" and "D.I. Khan"; either form is
//	stable under re-normalization, so grouping is unaffected.
//
// Timestamp format:
//
//	Google Forms writes "M/D/YYYY H:MM:SS" in the sheet's locale, e.g.
//	"4/26/2024 15:10:02". Parsing is month-first and assumes UTC when the
//	value has no offset; an explicit offset is kept. The order date is the
//	calendar date of the timestamp as written ("2024-04-26"), never shifted
//	to another zone. An empty cell leaves the record undated; an
//	unparseable value drops the row.
//
// # Aggregates
//
// Status summary and daily trend are plain group-by counts. The monthly
// forecast is deliberately naive: the mean of the last seven dated entries of
// the daily trend (fewer when less history exists) multiplied by 30 and
// truncated toward zero. The per-status forecast applies the same formula to
// the (date, status) grid with absent pairs counted as zero.
package domain
