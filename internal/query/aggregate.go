// Package query holds the pure search and aggregation functions used over a
// store's current records. Nothing here mutates its input.
package query

import (
	"cmp"
	"math"
	"slices"
	"time"

	"alumni-connect-backend/internal/domain"
)

// Filter returns the items matching pred, in order.
func Filter[T any](items []T, pred func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, v := range items {
		if pred(v) {
			out = append(out, v)
		}
	}
	return out
}

// GroupBy counts items per key.
func GroupBy[T any, K comparable](items []T, key func(T) K) map[K]int {
	out := make(map[K]int)
	for _, v := range items {
		out[key(v)]++
	}
	return out
}

// GroupBySum sums value per key.
func GroupBySum[T any, K comparable](items []T, key func(T) K, value func(T) float64) map[K]float64 {
	out := make(map[K]float64)
	for _, v := range items {
		out[key(v)] += value(v)
	}
	return out
}

// Sum adds value over items.
func Sum[T any](items []T, value func(T) float64) float64 {
	var total float64
	for _, v := range items {
		total += value(v)
	}
	return total
}

// Bucket is one group with its count and, when a value function was given, its sum.
type Bucket[K comparable] struct {
	Key   K       `json:"key"`
	Count int     `json:"count"`
	Sum   float64 `json:"sum"`
}

// Group buckets items by key in order of first appearance. value may be nil.
func Group[T any, K comparable](items []T, key func(T) K, value func(T) float64) []Bucket[K] {
	var out []Bucket[K]
	pos := make(map[K]int)
	for _, v := range items {
		k := key(v)
		i, ok := pos[k]
		if !ok {
			i = len(out)
			pos[k] = i
			out = append(out, Bucket[K]{Key: k})
		}
		out[i].Count++
		if value != nil {
			out[i].Sum += value(v)
		}
	}
	return out
}

// TopN ranks buckets by score, highest first, and keeps the first n. Ties keep
// their input order. n <= 0 keeps every bucket.
func TopN[K comparable](buckets []Bucket[K], n int, score func(Bucket[K]) float64) []Bucket[K] {
	ranked := slices.Clone(buckets)
	slices.SortStableFunc(ranked, func(a, b Bucket[K]) int {
		return cmp.Compare(score(b), score(a))
	})
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// ByCount and BySum are TopN scores.
func ByCount[K comparable](b Bucket[K]) float64 { return float64(b.Count) }
func BySum[K comparable](b Bucket[K]) float64   { return b.Sum }

// SortByKey orders buckets by ascending key.
func SortByKey[K cmp.Ordered](buckets []Bucket[K]) []Bucket[K] {
	sorted := slices.Clone(buckets)
	slices.SortStableFunc(sorted, func(a, b Bucket[K]) int {
		return cmp.Compare(a.Key, b.Key)
	})
	return sorted
}

func parseDate(date string) (time.Time, bool) {
	if len(date) < len(domain.DateLayout) {
		return time.Time{}, false
	}
	t, err := time.Parse(domain.DateLayout, date[:len(domain.DateLayout)])
	return t, err == nil
}

// MonthKey returns the YYYY-MM bucket of a YYYY-MM-DD date, or "" when unparseable.
func MonthKey(date string) string {
	t, ok := parseDate(date)
	if !ok {
		return ""
	}
	return t.Format("2006-01")
}

// YearKey returns the YYYY bucket of a date, or "" when unparseable.
func YearKey(date string) string {
	t, ok := parseDate(date)
	if !ok {
		return ""
	}
	return t.Format("2006")
}

// WeekdayKey returns the weekday name of a date, or "" when unparseable.
func WeekdayKey(date string) string {
	t, ok := parseDate(date)
	if !ok {
		return ""
	}
	return t.Weekday().String()
}

// Weekdays lists weekday names Sunday first, for ordering WeekdayKey buckets.
var Weekdays = []string{
	time.Sunday.String(), time.Monday.String(), time.Tuesday.String(), time.Wednesday.String(),
	time.Thursday.String(), time.Friday.String(), time.Saturday.String(),
}

// Percentage is part of total rounded to the nearest integer, 0 when total is 0.
func Percentage(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) * 100 / float64(total)))
}

// Average is sum / count, 0 when count is 0.
func Average(sum float64, count int) float64 {
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
