// Package daemon runs the dashboard without a terminal UI: it keeps the
// controller fed with fresh snapshots and logs what would be on screen.
package daemon

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/priYanshURaj-ai/performance-dashboard/internal/snapshot"
	"github.com/priYanshURaj-ai/performance-dashboard/internal/view"
)

type Loader interface {
	Load(ctx context.Context) (*snapshot.Snapshot, string, error)
}

// ReportFunc receives every update that changed something, together with the
// render model it produced.
type ReportFunc func(view.Update, view.RenderModel)

type Daemon struct {
	loader       Loader
	ctrl         *view.Controller
	pollInterval time.Duration
	fetchTimeout time.Duration
	changes      <-chan struct{}
	logger       *slog.Logger
	report       ReportFunc

	refresh chan struct{}
	results chan view.FetchResult
	wg      sync.WaitGroup
}

type Option func(*Daemon)

// WithChanges triggers a refresh whenever ch fires, typically a file watcher.
func WithChanges(ch <-chan struct{}) Option {
	return func(d *Daemon) { d.changes = ch }
}

func WithReporter(fn ReportFunc) Option {
	return func(d *Daemon) { d.report = fn }
}

func WithFetchTimeout(t time.Duration) Option {
	return func(d *Daemon) { d.fetchTimeout = t }
}

func New(ld Loader, ctrl *view.Controller, pollInterval time.Duration, logger *slog.Logger, opts ...Option) *Daemon {
	d := &Daemon{
		loader:       ld,
		ctrl:         ctrl,
		pollInterval: pollInterval,
		fetchTimeout: 30 * time.Second,
		logger:       logger,
		refresh:      make(chan struct{}, 1),
		results:      make(chan view.FetchResult, 4),
	}
	d.report = d.logRender
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Refresh requests a manual refresh. Requests made while one is pending are
// merged.
func (d *Daemon) Refresh() {
	select {
	case d.refresh <- struct{}{}:
	default:
	}
}

// Run owns the controller until ctx is done. Fetches run concurrently; their
// results are applied here, one at a time, in arrival order, and the
// controller drops any that lost the race to a newer fetch.
func (d *Daemon) Run(ctx context.Context) error {
	d.logger.Info("dashboard daemon started", "poll_interval", d.pollInterval)

	d.fetch(ctx, false)

	ticker := time.NewTicker(d.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("shutting down, waiting for fetches")
			d.wg.Wait()
			return nil
		case <-ticker.C:
			d.fetch(ctx, false)
		case <-d.changes:
			d.logger.Debug("snapshot file changed, refreshing")
			d.fetch(ctx, false)
		case <-d.refresh:
			d.fetch(ctx, true)
		case res := <-d.results:
			d.apply(res)
		}
	}
}

func (d *Daemon) fetch(ctx context.Context, manual bool) {
	seq := d.ctrl.BeginFetch()
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		fetchCtx, cancel := context.WithTimeout(ctx, d.fetchTimeout)
		defer cancel()

		snap, origin, err := d.loader.Load(fetchCtx)
		res := view.FetchResult{Seq: seq, Manual: manual, Snapshot: snap, Origin: origin, Err: err}
		select {
		case d.results <- res:
		case <-ctx.Done():
		}
	}()
}

func (d *Daemon) apply(res view.FetchResult) {
	u := d.ctrl.Apply(res)
	if u.Notice != "" {
		if u.NoticeError {
			d.logger.Warn(u.Notice)
		} else {
			d.logger.Info(u.Notice)
		}
	}
	if u.Dirty == 0 {
		return
	}
	d.report(u, d.ctrl.Render())
}

func (d *Daemon) logRender(u view.Update, rm view.RenderModel) {
	d.logger.Info("dashboard",
		"board", rm.Header.BoardName,
		"period", rm.Header.PeriodLabel,
		"last_updated", rm.Header.LastUpdated,
		"members", len(rm.Table.Rows),
		"total", rm.Summary.Total,
		"done", rm.Summary.Done,
		"completion", rm.Summary.DonePercent)

	if rm.Overview.Awaiting {
		d.logger.Info("sprint data not loaded yet")
		return
	}
	for _, e := range rm.Overview.HighUtilization {
		d.logger.Info("high utilization", "rank", e.Rank, "name", e.Name, "percent", e.Percent, "detail", e.Detail)
	}
	for _, e := range rm.Overview.MostAvailable {
		d.logger.Info("most available", "rank", e.Rank, "name", e.Name, "percent", e.Percent, "detail", e.Detail)
	}
}
