package domain

import (
	"strconv"
	"strings"
)

// StampKind tags which upstream encoding an hourly record used.
type StampKind int

const (
	// StampUnparseable marks a value in neither known encoding.
	StampUnparseable StampKind = iota
	// StampDated is "YYYY-MM-DD HH:MM:SS".
	StampDated
	// StampToday is "HH:MM", meaning the given hour of the current day.
	StampToday
)

func (k StampKind) String() string {
	switch k {
	case StampDated:
		return "dated"
	case StampToday:
		return "today"
	default:
		return "unparseable"
	}
}

// HourStamp is the canonical form of an upstream hour value. Date is only
// set for StampDated; StampToday is resolved against the clock when the
// buckets are built, not when the record was fetched.
type HourStamp struct {
	Kind StampKind
	Date string
	Hour int
	Raw  string
}

// HourlyCount is a visit count for a single hour.
type HourlyCount struct {
	Stamp HourStamp
	Count int64
}

// ParseHourStamp resolves a raw upstream hour string. A space selects the
// dated form (date before the first space, hour before the first colon of
// the remainder); otherwise a colon selects the today form. Anything else,
// including a non-numeric or out-of-range hour, is StampUnparseable.
func ParseHourStamp(raw string) HourStamp {
	if datePart, timePart, ok := strings.Cut(raw, " "); ok {
		hour, ok := leadingHour(timePart)
		if !ok {
			return HourStamp{Kind: StampUnparseable, Raw: raw}
		}
		return HourStamp{Kind: StampDated, Date: datePart, Hour: hour, Raw: raw}
	}

	if strings.Contains(raw, ":") {
		hour, ok := leadingHour(raw)
		if !ok {
			return HourStamp{Kind: StampUnparseable, Raw: raw}
		}
		return HourStamp{Kind: StampToday, Hour: hour, Raw: raw}
	}

	return HourStamp{Kind: StampUnparseable, Raw: raw}
}

func leadingHour(value string) (int, bool) {
	head, _, _ := strings.Cut(value, ":")
	hour, err := strconv.Atoi(strings.TrimSpace(head))
	if err != nil || hour < 0 || hour > 23 {
		return 0, false
	}
	return hour, true
}
