package sheet

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/couchcryptid/order-dashboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const sampleCSV = "\ufeffTimestamp,Customer Name,Email,City,Order Status\n" +
	"4/26/2024 15:10:02,Ali,ali@example.com, lahore ,delivered\n" +
	"4/27/2024 09:00:00,Sara,,Karachi\n"

func buildXLSX(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParseCSV(t *testing.T) {
	table, err := ParseCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, []string{"Timestamp", "Customer Name", "Email", "City", "Order Status"}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, " lahore ", table.Rows[0][3])
	assert.Len(t, table.Rows[1], 4, "short rows are kept")
}

func TestParseCSV_Empty(t *testing.T) {
	_, err := ParseCSV(strings.NewReader(""))
	require.ErrorIs(t, err, ErrEmptySheet)
}

func TestParseXLSX(t *testing.T) {
	data := buildXLSX(t, [][]any{
		{"City", "Order Status"},
		{"Quetta", "Shipped"},
	})

	table, err := ParseXLSX(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, domain.Table{
		Columns: []string{"City", "Order Status"},
		Rows:    [][]string{{"Quetta", "Shipped"}},
	}, table)
}

func TestParse_AutoDetect(t *testing.T) {
	xlsx := buildXLSX(t, [][]any{{"City", "Order Status"}, {"Multan", "Pending"}})

	assert.Equal(t, FormatXLSX, Detect(xlsx, ""))
	assert.Equal(t, FormatXLSX, Detect(nil, xlsxContentType))
	assert.Equal(t, FormatCSV, Detect([]byte(sampleCSV), "text/csv"))

	table, err := Parse(xlsx, FormatAuto, "application/octet-stream")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Multan", "Pending"}}, table.Rows)
}

func TestParseFormat(t *testing.T) {
	for _, in := range []string{"", "auto", "CSV", " xlsx "} {
		_, err := ParseFormat(in)
		assert.NoError(t, err, in)
	}
	_, err := ParseFormat("ods")
	assert.Error(t, err)
}

func TestClient_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(sampleCSV))
	}))
	defer srv.Close()

	table, err := NewClient(srv.URL, FormatAuto, 5*time.Second, discardLogger()).Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, table.Rows, 2)
}

func TestClient_Fetch_Errors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
		maxBytes    int64
		wantErr     string
	}{
		{"non-2xx", http.StatusNotFound, "text/plain", "gone", 0, "status 404"},
		{"html sign-in page", http.StatusOK, "text/html; charset=utf-8", "<html>", 0, "unexpected content type"},
		{"malformed csv", http.StatusOK, "text/csv", "a,\"b\nc", 0, "parse csv"},
		// A cut at the cap would leave "Lahore,Del" as a valid-looking last row.
		{"oversized export", http.StatusOK, "text/csv", "City,Order Status\nLahore,Delivered\n", 28, "export exceeds 28 bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", tt.contentType)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewClient(srv.URL, FormatAuto, 5*time.Second, discardLogger())
			if tt.maxBytes > 0 {
				client.maxBytes = tt.maxBytes
			}
			table, err := client.Fetch(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Empty(t, table.Rows)
		})
	}
}

func TestClient_Fetch_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, FormatCSV, time.Second, discardLogger()).Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch sheet")
}
