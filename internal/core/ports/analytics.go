package ports

import (
	"context"
	"time"

	"github.com/lorrc/ventsite/internal/core/domain"
)

// AnalyticsSource is the backend analytics API. Every method except
// FetchConversion is scoped by a time range. Hour values are resolved to
// domain.HourStamp before they leave the adapter.
type AnalyticsSource interface {
	FetchTotals(ctx context.Context, r domain.TimeRange) (domain.TrafficTotals, error)
	FetchPageViews(ctx context.Context, r domain.TimeRange) ([]domain.PageViewStat, error)
	FetchDevices(ctx context.Context, r domain.TimeRange) ([]domain.DeviceStat, error)
	FetchBrowsers(ctx context.Context, r domain.TimeRange) ([]domain.BrowserStat, error)
	FetchDevicePages(ctx context.Context, r domain.TimeRange) ([]domain.DevicePages, error)
	FetchHourly(ctx context.Context, r domain.TimeRange) ([]domain.HourlyCount, error)
	FetchDaily(ctx context.Context, r domain.TimeRange) ([]domain.DailyVisit, error)
	FetchOrderStats(ctx context.Context, r domain.TimeRange) (domain.OrderStats, error)
	FetchConversion(ctx context.Context) (domain.ConversionStats, error)
}

// AnalyticsRecorder receives observations about dashboard builds.
type AnalyticsRecorder interface {
	ObserveBuckets(stats domain.BucketStats)
	ObserveBatch(batch string, loaded bool, elapsed time.Duration)
}

// EventBroadcaster defines the port for broadcasting real-time events.
type EventBroadcaster interface {
	Broadcast(event domain.Event) error
}

// DashboardRooms reports which time ranges currently have live subscribers.
type DashboardRooms interface {
	ActiveTimeRanges() []domain.TimeRange
}
