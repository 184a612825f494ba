package domain

import (
	"sort"
)

const (
	// forecastWindow is how many of the most recent dated entries feed the average.
	forecastWindow = 7
	// forecastHorizonDays is the projection length.
	forecastHorizonDays = 30
)

// StatusCount is the number of records carrying one status.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// DailyCount is the number of records on one order date (YYYY-MM-DD).
type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// StatusForecast is the projected 30-day volume for one status.
type StatusForecast struct {
	Status   string `json:"status"`
	Expected int    `json:"expected"`
}

// Summarize counts records per status, largest count first; ties are ordered
// by label. The counts sum to len(records).
func Summarize(records []OrderRecord) []StatusCount {
	counts := make(map[string]int)
	for _, r := range records {
		counts[r.OrderStatus]++
	}

	out := make([]StatusCount, 0, len(counts))
	for status, n := range counts {
		out = append(out, StatusCount{Status: status, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Status < out[j].Status
	})
	return out
}

// DailyTrend counts dated records per order date, in chronological order.
// Undated records are ignored.
func DailyTrend(records []OrderRecord) []DailyCount {
	counts := make(map[string]int)
	for _, r := range records {
		if r.Dated() {
			counts[r.OrderDate]++
		}
	}

	out := make([]DailyCount, 0, len(counts))
	for date, n := range counts {
		out = append(out, DailyCount{Date: date, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// ForecastMonthly projects the next 30 days from the mean of the last seven
// entries of a chronological trend, truncated toward zero. An empty trend
// forecasts zero.
func ForecastMonthly(trend []DailyCount) int {
	window := trend[max(0, len(trend)-forecastWindow):]
	total := 0
	for _, d := range window {
		total += d.Count
	}
	return project(total, len(window))
}

// ForecastByStatus applies the monthly forecast to each status independently.
// The window is the last seven dates on which any record exists; a status with
// no records on one of those dates counts zero for it. Results are ordered by
// status label.
func ForecastByStatus(records []OrderRecord) []StatusForecast {
	trend := DailyTrend(records)
	window := trend[max(0, len(trend)-forecastWindow):]
	if len(window) == 0 {
		return nil
	}

	inWindow := make(map[string]bool, len(window))
	for _, d := range window {
		inWindow[d.Date] = true
	}

	totals := make(map[string]int)
	for _, r := range records {
		if !r.Dated() {
			continue
		}
		if _, ok := totals[r.OrderStatus]; !ok {
			totals[r.OrderStatus] = 0
		}
		if inWindow[r.OrderDate] {
			totals[r.OrderStatus]++
		}
	}

	out := make([]StatusForecast, 0, len(totals))
	for status, total := range totals {
		out = append(out, StatusForecast{Status: status, Expected: project(total, len(window))})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Status < out[j].Status })
	return out
}

// project scales a total observed over days to the forecast horizon. Integer
// division truncates toward zero for the non-negative counts involved.
func project(total, days int) int {
	if days == 0 {
		return 0
	}
	return total * forecastHorizonDays / days
}
