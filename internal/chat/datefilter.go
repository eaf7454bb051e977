package chat

import (
	"strings"
	"time"

	"hrchat/internal/vectordb"
)

type dateRange struct {
	start time.Time
	end   time.Time // exclusive
}

func (r dateRange) contains(t time.Time) bool {
	return !t.Before(r.start) && t.Before(r.end)
}

// datePhrases maps recognized relative time phrases to a window resolver.
// Extend per locale.
var datePhrases = []struct {
	phrases []string
	resolve func(now time.Time) dateRange
}{
	{
		phrases: []string{"hari ini", "today"},
		resolve: func(now time.Time) dateRange {
			start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
			return dateRange{start: start, end: start.AddDate(0, 0, 1)}
		},
	},
	{
		phrases: []string{"kemarin", "yesterday"},
		resolve: func(now time.Time) dateRange {
			start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -1)
			return dateRange{start: start, end: start.AddDate(0, 0, 1)}
		},
	},
	{
		phrases: []string{"minggu ini", "this week"},
		resolve: func(now time.Time) dateRange {
			// Week starts on Monday.
			weekday := int(now.Weekday())
			if weekday == 0 {
				weekday = 7
			}
			start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1-weekday)
			return dateRange{start: start, end: start.AddDate(0, 0, 7)}
		},
	},
	{
		phrases: []string{"bulan ini", "this month"},
		resolve: func(now time.Time) dateRange {
			start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
			return dateRange{start: start, end: start.AddDate(0, 1, 0)}
		},
	},
	{
		phrases: []string{"bulan lalu", "last month"},
		resolve: func(now time.Time) dateRange {
			start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -1, 0)
			return dateRange{start: start, end: start.AddDate(0, 1, 0)}
		},
	},
}

func parseDatePhrase(question string, now time.Time) (dateRange, bool) {
	q := strings.ToLower(question)
	for _, entry := range datePhrases {
		for _, phrase := range entry.phrases {
			if strings.Contains(q, phrase) {
				return entry.resolve(now), true
			}
		}
	}
	return dateRange{}, false
}

// FilterByDate narrows results to the time window implied by the question.
// A phrase match that would filter out everything is treated as a weak
// signal: the unfiltered list is returned instead, so relevant documents are
// not hidden behind an over-eager date heuristic.
func FilterByDate(results []vectordb.SearchResult, question string, now time.Time) []vectordb.SearchResult {
	window, ok := parseDatePhrase(question, now)
	if !ok {
		return results
	}

	var filtered []vectordb.SearchResult
	for _, r := range results {
		if !r.Document.Metadata.Date.IsZero() && window.contains(r.Document.Metadata.Date) {
			filtered = append(filtered, r)
		}
	}
	if len(filtered) == 0 {
		return results
	}
	return filtered
}
