package upstream

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/lorrc/ventsite/internal/core/domain"
)

// number accepts a JSON number or a numeric string. Aggregates computed
// with raw SQL come back from the backend as strings.
type number float64

func (n *number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*n = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			*n = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid numeric string %q", s)
		}
		*n = number(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*n = number(f)
	return nil
}

func (n number) int() int64 {
	return int64(math.Round(float64(n)))
}

type countWire struct {
	ID number `json:"id"`
}

type totalsWire struct {
	TotalStats struct {
		TotalPageviews number `json:"totalPageviews"`
		TotalEvents    number `json:"totalEvents"`
		UniqueVisitors number `json:"uniqueVisitors"`
	} `json:"totalStats"`
}

func (w totalsWire) toDomain() domain.TrafficTotals {
	return domain.TrafficTotals{
		TotalPageviews: w.TotalStats.TotalPageviews.int(),
		TotalEvents:    w.TotalStats.TotalEvents.int(),
		UniqueVisitors: w.TotalStats.UniqueVisitors.int(),
	}
}

type pageViewWire struct {
	Page  string    `json:"page"`
	Count countWire `json:"_count"`
}

type deviceWire struct {
	Device *string   `json:"device"`
	Count  countWire `json:"_count"`
}

type browserWire struct {
	Browser *string   `json:"browser"`
	Count   countWire `json:"_count"`
}

type devicePagesWire struct {
	Device     string `json:"device"`
	Pages      string `json:"pages"`
	TotalViews number `json:"totalViews"`
}

type hourlyWire struct {
	Hour  string `json:"hour"`
	Count number `json:"count"`
}

type dailyWire struct {
	Date  string `json:"date"`
	Count number `json:"count"`
}

type orderStatsWire struct {
	TotalOrders number `json:"totalOrders"`
	StatusStats []struct {
		Status string    `json:"status"`
		Count  countWire `json:"_count"`
	} `json:"statusStats"`
	DailyOrderStats []dailyWire `json:"dailyOrderStats"`
	TotalAmount     number      `json:"totalAmount"`
}

func (w orderStatsWire) toDomain() domain.OrderStats {
	stats := domain.OrderStats{
		TotalOrders:     w.TotalOrders.int(),
		StatusStats:     make([]domain.OrderStatusCount, 0, len(w.StatusStats)),
		DailyOrderStats: make([]domain.DailyOrderRecord, 0, len(w.DailyOrderStats)),
		TotalAmount:     float64(w.TotalAmount),
	}
	for _, s := range w.StatusStats {
		stats.StatusStats = append(stats.StatusStats, domain.OrderStatusCount{
			Status: domain.OrderStatus(s.Status),
			Count:  s.Count.ID.int(),
		})
	}
	for _, d := range w.DailyOrderStats {
		stats.DailyOrderStats = append(stats.DailyOrderStats, domain.DailyOrderRecord{
			Date:  d.Date,
			Count: d.Count.int(),
		})
	}
	return stats
}

type conversionWire struct {
	TotalOrders      number `json:"totalOrders"`
	CompletedOrders  number `json:"completedOrders"`
	InProgressOrders number `json:"inProgressOrders"`
	NewOrders        number `json:"newOrders"`
	ConversionRate   number `json:"conversionRate"`
}

func (w conversionWire) toDomain() domain.ConversionStats {
	return domain.ConversionStats{
		TotalOrders:      w.TotalOrders.int(),
		CompletedOrders:  w.CompletedOrders.int(),
		InProgressOrders: w.InProgressOrders.int(),
		NewOrders:        w.NewOrders.int(),
		ConversionRate:   float64(w.ConversionRate),
	}
}
