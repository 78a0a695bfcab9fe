package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/lorrc/ventsite/internal/core/domain"
	"github.com/lorrc/ventsite/internal/core/ports"
)

// DashboardPublisher periodically rebuilds the dashboard for every time
// range that has live subscribers and broadcasts it to that room.
type DashboardPublisher struct {
	analytics   ports.AnalyticsService
	rooms       ports.DashboardRooms
	broadcaster ports.EventBroadcaster
	interval    time.Duration
	logger      *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

var _ ports.DashboardPublisher = (*DashboardPublisher)(nil)

func NewDashboardPublisher(
	analytics ports.AnalyticsService,
	rooms ports.DashboardRooms,
	broadcaster ports.EventBroadcaster,
	interval time.Duration,
	logger *slog.Logger,
) *DashboardPublisher {
	return &DashboardPublisher{
		analytics:   analytics,
		rooms:       rooms,
		broadcaster: broadcaster,
		interval:    interval,
		logger:      logger.With("component", "dashboard_publisher"),
	}
}

// Start launches the publish loop. Calling Start twice is a no-op.
func (p *DashboardPublisher) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.run(ctx)
	}()
}

// Shutdown stops the loop and waits for an in-flight publish to finish.
func (p *DashboardPublisher) Shutdown() {
	p.mu.Lock()
	cancel := p.cancel
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	p.wg.Wait()
}

func (p *DashboardPublisher) run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.Info("dashboard publisher started", "interval", p.interval)
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("dashboard publisher stopped")
			return
		case <-ticker.C:
			p.PublishOnce(ctx)
		}
	}
}

// PublishOnce builds and broadcasts one dashboard per subscribed range and
// returns how many were sent.
func (p *DashboardPublisher) PublishOnce(ctx context.Context) int {
	sent := 0
	for _, r := range p.rooms.ActiveTimeRanges() {
		if ctx.Err() != nil {
			return sent
		}

		dashboard, err := p.analytics.GetDashboard(ctx, domain.SystemPrincipal, r)
		if err != nil {
			p.logger.Warn("failed to build dashboard", "time_range", r, "error", err)
			continue
		}

		event := domain.Event{
			Type:      domain.EventDashboardUpdated,
			Payload:   dashboard,
			TimeRange: r,
		}
		if err := p.broadcaster.Broadcast(event); err != nil {
			p.logger.Warn("failed to broadcast dashboard", "time_range", r, "error", err)
			continue
		}
		sent++
	}
	return sent
}
