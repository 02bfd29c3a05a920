/*
scheduler.go - Automated period provisioning

PURPOSE:
  Periodically opens the next accrual period for every active employee
  whose current period has ended, so nobody waits on a manual
  "provision" call after their admission anniversary.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Delegates the work to Service.BulkProvision, which skips employees
    whose next period has not started yet
  - Keeps the outcome of the last run for the admin UI

CONFIGURATION:
  - CheckInterval: How often to check (SCHEDULER_INTERVAL, default: 24h)
  - Enabled: Whether scheduler is active (SCHEDULER_ENABLED, default: true)

USAGE:
  scheduler := NewProvisionScheduler(svc, logger)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: BulkProvision endpoint (manual trigger) and the
    /api/admin/scheduler status endpoints
  - ferias/service.go: BulkProvision
*/
package api

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/warp/ferias-engine/ferias"
)

// Provisioner is the part of the service the scheduler drives.
type Provisioner interface {
	BulkProvision(ctx context.Context) (*ferias.BulkResult, error)
}

// ProvisionRun records one scheduler pass.
type ProvisionRun struct {
	StartedAt   time.Time
	CompletedAt time.Time
	Created     int
	Skipped     int
	Error       string
}

// ProvisionScheduler handles automated period provisioning.
type ProvisionScheduler struct {
	Provisioner   Provisioner
	Logger        *slog.Logger
	CheckInterval time.Duration
	Enabled       bool

	ticker  *time.Ticker
	stop    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	lastRun *ProvisionRun
}

// NewProvisionScheduler creates a new scheduler.
func NewProvisionScheduler(p Provisioner, logger *slog.Logger) *ProvisionScheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProvisionScheduler{
		Provisioner:   p,
		Logger:        logger.With(slog.String("component", "scheduler")),
		CheckInterval: 24 * time.Hour,
		Enabled:       true,
	}
}

// Start begins the scheduler.
func (ps *ProvisionScheduler) Start() {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if !ps.Enabled {
		ps.Logger.Info("scheduler disabled, not starting")
		return
	}
	if ps.ticker != nil {
		return
	}

	ps.ticker = time.NewTicker(ps.CheckInterval)
	ps.stop = make(chan struct{})
	ps.wg.Add(1)

	go ps.run(ps.ticker, ps.stop)

	ps.Logger.Info("scheduler started", slog.Duration("interval", ps.CheckInterval))
}

// Stop stops the scheduler and waits for an in-flight run.
func (ps *ProvisionScheduler) Stop() {
	ps.mu.Lock()
	ticker, stop := ps.ticker, ps.stop
	ps.ticker, ps.stop = nil, nil
	ps.mu.Unlock()

	if ticker == nil {
		return
	}
	ticker.Stop()
	close(stop)
	ps.wg.Wait()
	ps.Logger.Info("scheduler stopped")
}

func (ps *ProvisionScheduler) run(ticker *time.Ticker, stop <-chan struct{}) {
	defer ps.wg.Done()

	// Run immediately on start
	ps.RunNow(context.Background())

	for {
		select {
		case <-ticker.C:
			ps.RunNow(context.Background())
		case <-stop:
			return
		}
	}
}

// RunNow triggers an immediate provisioning pass (for testing/admin).
func (ps *ProvisionScheduler) RunNow(ctx context.Context) ProvisionRun {
	run := ProvisionRun{StartedAt: time.Now()}

	res, err := ps.Provisioner.BulkProvision(ctx)
	if res != nil {
		run.Created = len(res.Created)
		run.Skipped = len(res.Skipped)
	}
	if err != nil {
		run.Error = err.Error()
		ps.Logger.Error("provisioning failed", slog.Any("error", err))
	}
	run.CompletedAt = time.Now()

	if run.Created > 0 {
		ps.Logger.Info("provisioning completed",
			slog.Int("created", run.Created), slog.Int("skipped", run.Skipped))
	}

	ps.mu.Lock()
	ps.lastRun = &run
	ps.mu.Unlock()
	return run
}

// LastRun returns the most recent pass, or nil before the first one.
func (ps *ProvisionScheduler) LastRun() *ProvisionRun {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.lastRun == nil {
		return nil
	}
	run := *ps.lastRun
	return &run
}

// GetNextRunTime returns when the next scheduled check will occur.
func (ps *ProvisionScheduler) GetNextRunTime() time.Time {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	last := time.Now()
	if ps.lastRun != nil {
		last = ps.lastRun.StartedAt
	}
	return last.Add(ps.CheckInterval)
}
