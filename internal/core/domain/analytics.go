package domain

import (
	"time"

	apperrors "github.com/lorrc/ventsite/internal/core/errors"
)

// TimeRange scopes which upstream records an analytics fetch returns.
type TimeRange string

const (
	RangeToday TimeRange = "today"
	RangeWeek  TimeRange = "week"
	RangeMonth TimeRange = "month"
	RangeAll   TimeRange = "all"
)

// DefaultTimeRange is used when the caller does not pick one.
const DefaultTimeRange = RangeWeek

// TimeRanges lists every accepted range in display order.
func TimeRanges() []TimeRange {
	return []TimeRange{RangeToday, RangeWeek, RangeMonth, RangeAll}
}

func (r TimeRange) String() string {
	return string(r)
}

func (r TimeRange) IsValid() bool {
	switch r {
	case RangeToday, RangeWeek, RangeMonth, RangeAll:
		return true
	}
	return false
}

// ParseTimeRange converts a query value into a TimeRange. An empty value
// yields DefaultTimeRange.
func ParseTimeRange(value string) (TimeRange, error) {
	if value == "" {
		return DefaultTimeRange, nil
	}
	r := TimeRange(value)
	if !r.IsValid() {
		return "", apperrors.ErrInvalidTimeRange
	}
	return r, nil
}

// OrderStatus mirrors the order lifecycle reported by the backend.
type OrderStatus string

const (
	OrderNew        OrderStatus = "NEW"
	OrderInProgress OrderStatus = "IN_PROGRESS"
	OrderCompleted  OrderStatus = "COMPLETED"
	OrderCancelled  OrderStatus = "CANCELLED"
)

func (s OrderStatus) String() string {
	return string(s)
}

type TrafficTotals struct {
	TotalPageviews int64 `json:"totalPageviews"`
	TotalEvents    int64 `json:"totalEvents"`
	UniqueVisitors int64 `json:"uniqueVisitors"`
}

type PageViewStat struct {
	Page  string `json:"page"`
	Count int64  `json:"count"`
}

// DeviceStat counts visits per device class. Device is nil when the
// tracker could not classify the client.
type DeviceStat struct {
	Device *string `json:"device"`
	Count  int64   `json:"count"`
}

type BrowserStat struct {
	Browser *string `json:"browser"`
	Count   int64   `json:"count"`
}

type DevicePages struct {
	Device     string `json:"device"`
	Pages      string `json:"pages"`
	TotalViews int64  `json:"totalViews"`
}

type DailyVisit struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type OrderStatusCount struct {
	Status OrderStatus `json:"status"`
	Count  int64       `json:"count"`
}

type OrderStats struct {
	TotalOrders     int64              `json:"totalOrders"`
	StatusStats     []OrderStatusCount `json:"statusStats"`
	DailyOrderStats []DailyOrderRecord `json:"dailyOrderStats"`
	TotalAmount     float64            `json:"totalAmount"`
}

// ConversionStats is computed by the backend; ConversionRate is a percentage.
type ConversionStats struct {
	TotalOrders      int64   `json:"totalOrders"`
	CompletedOrders  int64   `json:"completedOrders"`
	InProgressOrders int64   `json:"inProgressOrders"`
	NewOrders        int64   `json:"newOrders"`
	ConversionRate   float64 `json:"conversionRate"`
}

// TrafficReport is the result of the traffic fetch batch.
type TrafficReport struct {
	Totals      TrafficTotals  `json:"totals"`
	PageViews   []PageViewStat `json:"pageViews"`
	Devices     []DeviceStat   `json:"devices"`
	Browsers    []BrowserStat  `json:"browsers"`
	DevicePages []DevicePages  `json:"devicePages"`
	Hourly      []HourBucket   `json:"hourly"`
	Daily       []DailyVisit   `json:"daily"`
}

// OrderReport is the result of the order fetch batch. DailyOrders is
// already aggregated.
type OrderReport struct {
	Stats       OrderStats         `json:"stats"`
	DailyOrders []DailyOrderRecord `json:"dailyOrders"`
	Conversion  ConversionStats    `json:"conversion"`
}

// BatchState reports whether a fetch batch was committed.
type BatchState struct {
	Loaded bool   `json:"loaded"`
	Error  string `json:"error,omitempty"`
}

// Dashboard is the admin analytics view. A batch that failed has a nil
// report and Loaded=false in its state.
type Dashboard struct {
	TimeRange    TimeRange      `json:"timeRange"`
	GeneratedAt  time.Time      `json:"generatedAt"`
	Traffic      *TrafficReport `json:"traffic"`
	TrafficState BatchState     `json:"trafficState"`
	Orders       *OrderReport   `json:"orders"`
	OrdersState  BatchState     `json:"ordersState"`
}
