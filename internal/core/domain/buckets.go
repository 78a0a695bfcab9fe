package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// HourWindow is the number of hourly slots shown on the dashboard: the
// current hour and the 24 before it.
const HourWindow = 25

const bucketDateLayout = "2006-01-02"

// HourBucket is one fixed hourly slot. Hour is "HH:00", Date "YYYY-MM-DD".
type HourBucket struct {
	Hour  string `json:"hour"`
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// DailyOrderRecord is an order count for one calendar day.
type DailyOrderRecord struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// BucketStats describes what happened to the input of BucketHourlyCounts.
type BucketStats struct {
	Matched     int
	Unparseable int
	OutOfWindow int
}

// Dropped is the number of input records that did not land in a bucket.
func (s BucketStats) Dropped() int {
	return s.Unparseable + s.OutOfWindow
}

// BuildHourlyBuckets overlays counts onto the 25 hourly slots ending at
// the hour containing now. Records that are unparseable or fall outside
// the window are dropped without error.
func BuildHourlyBuckets(now time.Time, counts []HourlyCount) []HourBucket {
	buckets, _ := BucketHourlyCounts(now, counts)
	return buckets
}

// BucketHourlyCounts is BuildHourlyBuckets that also reports how many
// records were matched or dropped.
func BucketHourlyCounts(now time.Time, counts []HourlyCount) ([]HourBucket, BucketStats) {
	buckets := emptyHourBuckets(now)

	index := make(map[string]int, len(buckets))
	for i, b := range buckets {
		index[bucketKey(b.Date, b.Hour)] = i
	}

	today := now.Format(bucketDateLayout)

	var stats BucketStats
	for _, c := range counts {
		var date string
		switch c.Stamp.Kind {
		case StampDated:
			date = c.Stamp.Date
		case StampToday:
			date = today
		default:
			stats.Unparseable++
			continue
		}

		i, ok := index[bucketKey(date, formatBucketHour(c.Stamp.Hour))]
		if !ok {
			stats.OutOfWindow++
			continue
		}
		buckets[i].Count += c.Count
		stats.Matched++
	}

	return buckets, stats
}

// emptyHourBuckets returns the window oldest first. Slot i is exactly
// 24-i hours before the start of now's hour, labelled in now's location.
// The anchor is taken on the absolute instant, so a repeated DST hour
// anchors on the occurrence now is actually in.
func emptyHourBuckets(now time.Time) []HourBucket {
	anchor := startOfHour(now)

	buckets := make([]HourBucket, 0, HourWindow)
	for i := HourWindow - 1; i >= 0; i-- {
		slot := anchor.Add(-time.Duration(i) * time.Hour)
		buckets = append(buckets, HourBucket{
			Hour: formatBucketHour(slot.Hour()),
			Date: slot.Format(bucketDateLayout),
		})
	}
	return buckets
}

// startOfHour drops the minutes within now's local hour. Unlike
// Time.Truncate it respects half-hour offsets.
func startOfHour(now time.Time) time.Time {
	within := time.Duration(now.Minute())*time.Minute +
		time.Duration(now.Second())*time.Second +
		time.Duration(now.Nanosecond())
	return now.Add(-within)
}

func formatBucketHour(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}

func bucketKey(date, hour string) string {
	return date + " " + hour
}

// AggregateDailyOrders sums counts sharing the same date string and returns
// one record per date, ordered by calendar date. Dates that cannot be
// parsed sort after all parseable ones.
func AggregateDailyOrders(records []DailyOrderRecord) []DailyOrderRecord {
	if len(records) == 0 {
		return []DailyOrderRecord{}
	}

	totals := make(map[string]int64, len(records))
	order := make([]string, 0, len(records))
	for _, r := range records {
		if _, seen := totals[r.Date]; !seen {
			order = append(order, r.Date)
		}
		totals[r.Date] += r.Count
	}

	type keyed struct {
		record DailyOrderRecord
		at     time.Time
		ok     bool
	}

	rows := make([]keyed, 0, len(order))
	for _, date := range order {
		at, ok := ParseCalendarDate(date)
		rows = append(rows, keyed{
			record: DailyOrderRecord{Date: date, Count: totals[date]},
			at:     at,
			ok:     ok,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.ok != b.ok {
			return a.ok
		}
		if a.ok && !a.at.Equal(b.at) {
			return a.at.Before(b.at)
		}
		return a.record.Date < b.record.Date
	})

	out := make([]DailyOrderRecord, len(rows))
	for i, row := range rows {
		out[i] = row.record
	}
	return out
}

var calendarLayouts = []string{
	"2006-01-02",
	"2006-1-2",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseCalendarDate accepts ISO dates with or without zero padding and full
// ISO timestamps. Parsing is done in UTC.
func ParseCalendarDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range calendarLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
