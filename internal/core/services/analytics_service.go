package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lorrc/ventsite/internal/core/domain"
	apperrors "github.com/lorrc/ventsite/internal/core/errors"
	"github.com/lorrc/ventsite/internal/core/ports"
)

const (
	batchTraffic = "traffic"
	batchOrders  = "orders"
)

// Clock returns the current time in the location buckets are labelled in.
type Clock func() time.Time

// ClockIn returns a Clock reading the wall clock in loc.
func ClockIn(loc *time.Location) Clock {
	return func() time.Time { return time.Now().In(loc) }
}

// AnalyticsService builds the admin dashboard from the backend analytics API.
type AnalyticsService struct {
	source   ports.AnalyticsSource
	recorder ports.AnalyticsRecorder
	clock    Clock
	logger   *slog.Logger
}

var _ ports.AnalyticsService = (*AnalyticsService)(nil)

func NewAnalyticsService(
	source ports.AnalyticsSource,
	recorder ports.AnalyticsRecorder,
	clock Clock,
	logger *slog.Logger,
) ports.AnalyticsService {
	if recorder == nil {
		recorder = noopRecorder{}
	}
	return &AnalyticsService{
		source:   source,
		recorder: recorder,
		clock:    clock,
		logger:   logger.With("component", "analytics_service"),
	}
}

// GetDashboard runs the traffic and order batches in parallel. Each batch
// commits all of its fetches or none; a failed batch is reported in the
// dashboard state rather than as an error.
func (s *AnalyticsService) GetDashboard(ctx context.Context, principal domain.Principal, r domain.TimeRange) (*domain.Dashboard, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}

	dashboard := &domain.Dashboard{
		TimeRange:   r,
		GeneratedAt: s.clock(),
	}

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		started := time.Now()
		report, err := s.loadTraffic(ctx, r)
		s.recorder.ObserveBatch(batchTraffic, err == nil, time.Since(started))
		if err != nil {
			s.logger.ErrorContext(ctx, "traffic batch failed", "time_range", r, "error", err)
			dashboard.TrafficState = domain.BatchState{Error: "failed to load traffic statistics"}
			return
		}
		dashboard.Traffic = report
		dashboard.TrafficState = domain.BatchState{Loaded: true}
	}()

	go func() {
		defer wg.Done()
		started := time.Now()
		report, err := s.loadOrders(ctx, r)
		s.recorder.ObserveBatch(batchOrders, err == nil, time.Since(started))
		if err != nil {
			s.logger.ErrorContext(ctx, "orders batch failed", "time_range", r, "error", err)
			dashboard.OrdersState = domain.BatchState{Error: "failed to load order statistics"}
			return
		}
		dashboard.Orders = report
		dashboard.OrdersState = domain.BatchState{Loaded: true}
	}()

	wg.Wait()
	return dashboard, nil
}

// GetHourlyBuckets returns the 25 hourly slots for the range.
func (s *AnalyticsService) GetHourlyBuckets(ctx context.Context, principal domain.Principal, r domain.TimeRange) ([]domain.HourBucket, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}

	counts, err := s.source.FetchHourly(ctx, r)
	if err != nil {
		return nil, apperrors.NewUpstreamError(err, "hourly")
	}
	return s.buildBuckets(ctx, counts), nil
}

// GetDailyOrders returns the order feed collapsed to one record per day.
func (s *AnalyticsService) GetDailyOrders(ctx context.Context, principal domain.Principal, r domain.TimeRange) ([]domain.DailyOrderRecord, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}

	stats, err := s.source.FetchOrderStats(ctx, r)
	if err != nil {
		return nil, apperrors.NewUpstreamError(err, "orders")
	}
	return domain.AggregateDailyOrders(stats.DailyOrderStats), nil
}

func (s *AnalyticsService) loadTraffic(ctx context.Context, r domain.TimeRange) (*domain.TrafficReport, error) {
	var (
		report domain.TrafficReport
		hourly []domain.HourlyCount
	)

	g, gctx := errgroup.WithContext(ctx)
	fetchInto(g, "stats", &report.Totals, func() (domain.TrafficTotals, error) {
		return s.source.FetchTotals(gctx, r)
	})
	fetchInto(g, "pageviews", &report.PageViews, func() ([]domain.PageViewStat, error) {
		return s.source.FetchPageViews(gctx, r)
	})
	fetchInto(g, "devices", &report.Devices, func() ([]domain.DeviceStat, error) {
		return s.source.FetchDevices(gctx, r)
	})
	fetchInto(g, "browsers", &report.Browsers, func() ([]domain.BrowserStat, error) {
		return s.source.FetchBrowsers(gctx, r)
	})
	fetchInto(g, "device-pages", &report.DevicePages, func() ([]domain.DevicePages, error) {
		return s.source.FetchDevicePages(gctx, r)
	})
	fetchInto(g, "hourly", &hourly, func() ([]domain.HourlyCount, error) {
		return s.source.FetchHourly(gctx, r)
	})
	fetchInto(g, "daily", &report.Daily, func() ([]domain.DailyVisit, error) {
		return s.source.FetchDaily(gctx, r)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// "Today" stamps resolve against the clock after the fetch completes.
	report.Hourly = s.buildBuckets(ctx, hourly)
	return &report, nil
}

func (s *AnalyticsService) loadOrders(ctx context.Context, r domain.TimeRange) (*domain.OrderReport, error) {
	var report domain.OrderReport

	g, gctx := errgroup.WithContext(ctx)
	fetchInto(g, "orders", &report.Stats, func() (domain.OrderStats, error) {
		return s.source.FetchOrderStats(gctx, r)
	})
	fetchInto(g, "orders/conversion", &report.Conversion, func() (domain.ConversionStats, error) {
		return s.source.FetchConversion(gctx)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	report.DailyOrders = domain.AggregateDailyOrders(report.Stats.DailyOrderStats)
	return &report, nil
}

func (s *AnalyticsService) buildBuckets(ctx context.Context, counts []domain.HourlyCount) []domain.HourBucket {
	buckets, stats := domain.BucketHourlyCounts(s.clock(), counts)
	s.recorder.ObserveBuckets(stats)
	if stats.Dropped() > 0 {
		s.logger.DebugContext(ctx, "hourly records dropped",
			"matched", stats.Matched,
			"unparseable", stats.Unparseable,
			"out_of_window", stats.OutOfWindow,
		)
	}
	return buckets
}

// fetchInto schedules fn on g and stores its result in dst on success.
func fetchInto[T any](g *errgroup.Group, endpoint string, dst *T, fn func() (T, error)) {
	g.Go(func() error {
		v, err := fn()
		if err != nil {
			return fmt.Errorf("fetch %s: %w", endpoint, err)
		}
		*dst = v
		return nil
	})
}

func requireAdmin(principal domain.Principal) error {
	if !principal.IsAdmin() {
		return apperrors.ErrForbidden
	}
	return nil
}

type noopRecorder struct{}

func (noopRecorder) ObserveBuckets(domain.BucketStats) {}
func (noopRecorder) ObserveBatch(string, bool, time.Duration) {}
