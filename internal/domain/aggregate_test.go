package domain

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func datedRecords(date, status string, n int) []OrderRecord {
	out := make([]OrderRecord, n)
	for i := range out {
		out[i] = OrderRecord{City: "Lahore", OrderStatus: status, OrderDate: date}
	}
	return out
}

func TestSummarize(t *testing.T) {
	var records []OrderRecord
	records = append(records, datedRecords("2024-05-01", "Pending", 3)...)
	records = append(records, datedRecords("2024-05-01", "Delivered", 2)...)
	records = append(records, datedRecords("2024-05-02", "Cancelled", 2)...)

	got := Summarize(records)
	want := []StatusCount{
		{Status: "Pending", Count: 3},
		{Status: "Cancelled", Count: 2},
		{Status: "Delivered", Count: 2},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Summarize mismatch (-want +got):\n%s", diff)
	}

	total := 0
	for _, c := range got {
		total += c.Count
	}
	assert.Equal(t, len(records), total)
	assert.Empty(t, Summarize(nil))
}

func TestDailyTrend(t *testing.T) {
	var records []OrderRecord
	records = append(records, datedRecords("2024-05-03", "Pending", 1)...)
	records = append(records, datedRecords("2024-05-01", "Pending", 2)...)
	records = append(records, OrderRecord{City: "Lahore", OrderStatus: "Pending"})

	want := []DailyCount{
		{Date: "2024-05-01", Count: 2},
		{Date: "2024-05-03", Count: 1},
	}
	if diff := cmp.Diff(want, DailyTrend(records)); diff != "" {
		t.Errorf("DailyTrend mismatch (-want +got):\n%s", diff)
	}
}

func trendOf(counts ...int) []DailyCount {
	out := make([]DailyCount, len(counts))
	for i, c := range counts {
		out[i] = DailyCount{Date: fmt.Sprintf("2024-05-%02d", i+1), Count: c}
	}
	return out
}

func TestForecastMonthly(t *testing.T) {
	tests := []struct {
		name  string
		trend []DailyCount
		want  int
	}{
		{"seven days truncates", trendOf(10, 12, 11, 9, 13, 10, 11), 325},
		{"only last seven count", trendOf(100, 100, 10, 12, 11, 9, 13, 10, 11), 325},
		{"short history", trendOf(1, 2), 45},
		{"single day", trendOf(4), 120},
		{"empty", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ForecastMonthly(tt.trend))
		})
	}
}

func TestForecastByStatus(t *testing.T) {
	t.Run("absent pairs count as zero", func(t *testing.T) {
		var records []OrderRecord
		records = append(records, datedRecords("2024-05-01", "Pending", 2)...)
		records = append(records, datedRecords("2024-05-02", "Pending", 1)...)
		records = append(records, datedRecords("2024-05-02", "Delivered", 1)...)

		want := []StatusForecast{
			{Status: "Delivered", Expected: 15},
			{Status: "Pending", Expected: 45},
		}
		if diff := cmp.Diff(want, ForecastByStatus(records)); diff != "" {
			t.Errorf("ForecastByStatus mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("window is last seven dates overall", func(t *testing.T) {
		var records []OrderRecord
		records = append(records, datedRecords("2024-04-01", "Cancelled", 5)...)
		for d := 1; d <= 7; d++ {
			records = append(records, datedRecords(fmt.Sprintf("2024-05-%02d", d), "Pending", 1)...)
		}

		want := []StatusForecast{
			{Status: "Cancelled", Expected: 0},
			{Status: "Pending", Expected: 30},
		}
		if diff := cmp.Diff(want, ForecastByStatus(records)); diff != "" {
			t.Errorf("ForecastByStatus mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("undated records yield nothing", func(t *testing.T) {
		assert.Empty(t, ForecastByStatus([]OrderRecord{{City: "Lahore", OrderStatus: "Pending"}}))
	})
}
