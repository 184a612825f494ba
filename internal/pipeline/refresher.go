package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/order-dashboard/internal/domain"
	"github.com/jonboulle/clockwork"
)

// DefaultInterval is the dashboard refresh period.
const DefaultInterval = 60 * time.Second

// Runner executes one pipeline pass.
type Runner interface {
	Run(ctx context.Context, spec domain.FilterSpec) (*DashboardData, error)
}

// Publisher receives every successful scheduled snapshot.
type Publisher interface {
	Publish(ctx context.Context, data *DashboardData) error
}

// Snapshot is the outcome of one scheduled run. Exactly one of Data and Err
// is set; a failed run carries no data.
type Snapshot struct {
	Data       *DashboardData
	Err        error
	Spec       domain.FilterSpec
	StartedAt  time.Time
	FinishedAt time.Time
}

// Refresher re-runs the pipeline on a fixed interval and keeps the latest
// snapshot. Runs never overlap.
type Refresher struct {
	runner    Runner
	interval  time.Duration
	clock     clockwork.Clock
	logger    *slog.Logger
	publisher Publisher

	mu     sync.RWMutex
	latest *Snapshot
	spec   domain.FilterSpec

	kick  chan struct{}
	ready atomic.Bool
}

// NewRefresher creates a Refresher running runner every interval.
func NewRefresher(runner Runner, interval time.Duration, clock clockwork.Clock, logger *slog.Logger) *Refresher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Refresher{
		runner:   runner,
		interval: interval,
		clock:    clock,
		logger:   logger,
		kick:     make(chan struct{}, 1),
	}
}

// WithPublisher attaches a sink for successful snapshots.
func (r *Refresher) WithPublisher(p Publisher) *Refresher {
	r.publisher = p
	return r
}

// Start runs the pipeline immediately and then on every tick until ctx is
// cancelled. It also runs whenever the filter spec changes.
func (r *Refresher) Start(ctx context.Context) error {
	ticker := r.clock.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("refresher started", "interval", r.interval)
	r.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("refresher stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
			r.tick(ctx)
		case <-r.kick:
			r.tick(ctx)
		}
	}
}

// Latest returns the most recent snapshot, or false before the first run
// completes.
func (r *Refresher) Latest() (Snapshot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.latest == nil {
		return Snapshot{}, false
	}
	return *r.latest, true
}

// Spec returns the filter selection used by scheduled runs.
func (r *Refresher) Spec() domain.FilterSpec {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneSpec(r.spec)
}

// SetSpec replaces the filter selection and requests an early run.
func (r *Refresher) SetSpec(spec domain.FilterSpec) {
	r.mu.Lock()
	r.spec = cloneSpec(spec)
	r.mu.Unlock()

	select {
	case r.kick <- struct{}{}:
	default:
	}
}

// CheckReadiness returns nil when the most recent run succeeded.
func (r *Refresher) CheckReadiness(_ context.Context) error {
	if !r.ready.Load() {
		return errors.New("dashboard has no successful refresh")
	}
	return nil
}

func (r *Refresher) tick(ctx context.Context) {
	spec := r.Spec()
	started := r.clock.Now()

	data, err := r.runner.Run(ctx, spec)
	if err != nil && ctx.Err() != nil {
		return
	}

	snap := &Snapshot{
		Data:       data,
		Err:        err,
		Spec:       spec,
		StartedAt:  started,
		FinishedAt: r.clock.Now(),
	}
	r.mu.Lock()
	r.latest = snap
	r.mu.Unlock()
	r.ready.Store(err == nil)

	if err != nil {
		r.logger.Error("dashboard refresh failed", "error", err)
		return
	}

	r.logger.Info("dashboard refreshed",
		"records", len(data.Records),
		"total_records", data.TotalRecords,
		"map_points", len(data.MapPoints),
		"warnings", len(data.Warnings),
		"duration", snap.FinishedAt.Sub(started),
	)

	if r.publisher != nil {
		if err := r.publisher.Publish(ctx, data); err != nil {
			r.logger.Warn("snapshot publish failed", "error", err)
		}
	}
}

func cloneSpec(s domain.FilterSpec) domain.FilterSpec {
	s.Statuses = slices.Clone(s.Statuses)
	s.Cities = slices.Clone(s.Cities)
	return s
}
