package data

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"dayahead-procurement/internal/store"
)

// downloadBatch caps a single API request's range. The platform rejects
// requests spanning more than a year.
const downloadBatch = 365 * 24 * time.Hour

// Refresher keeps the local price store in sync with the Transparency
// Platform: each zone resumes from its latest stored sample, so restarting a
// long download never re-fetches finished history.
type Refresher struct {
	client *Client
	store  *store.Store
	zones  []Zone
	start  time.Time
	logger *zap.Logger
	cron   *cron.Cron
	now    func() time.Time
}

func NewRefresher(client *Client, st *store.Store, zones []Zone, start time.Time, logger *zap.Logger) *Refresher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Refresher{
		client: client,
		store:  st,
		zones:  zones,
		start:  start,
		logger: logger,
		cron:   cron.New(),
		now:    time.Now,
	}
}

// RefreshAll downloads every configured zone up to now. A failing zone does
// not stop the others; all failures are reported together at the end.
func (r *Refresher) RefreshAll(ctx context.Context) error {
	end := r.now().UTC().Truncate(time.Hour)

	var errs error
	for i, zone := range r.zones {
		r.logger.Info("refreshing zone",
			zap.String("zone", zone.Code),
			zap.Int("index", i+1),
			zap.Int("total", len(r.zones)))

		n, err := r.refreshZone(ctx, zone, end)
		if err != nil {
			r.logger.Error("zone refresh failed", zap.String("zone", zone.Code), zap.Error(err))
			errs = multierr.Append(errs, fmt.Errorf("zone %s: %w", zone.Code, err))
			continue
		}
		r.logger.Info("zone refreshed", zap.String("zone", zone.Code), zap.Int("samples", n))
	}
	return errs
}

func (r *Refresher) refreshZone(ctx context.Context, zone Zone, end time.Time) (int, error) {
	from := r.start
	if latest, ok, err := r.store.LatestTimestamp(ctx, zone.Code); err != nil {
		return 0, err
	} else if ok {
		// Re-fetch the latest sample too; the upsert is idempotent and the
		// overlap spares us resolution bookkeeping at the resume point.
		from = latest
	}
	if !from.Before(end) {
		r.logger.Debug("zone already up to date", zap.String("zone", zone.Code))
		return 0, nil
	}

	total := 0
	for from.Before(end) {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		to := from.Add(downloadBatch)
		if to.After(end) {
			to = end
		}

		series, err := r.client.DayAheadPrices(ctx, zone, from, to)
		if err != nil {
			return total, err
		}
		if err := r.store.UpsertPrices(ctx, zone.Code, series.Points); err != nil {
			return total, err
		}
		total += series.Len()
		from = to
	}
	return total, nil
}

// Schedule registers a periodic RefreshAll on a cron spec and starts the
// scheduler. Stop must be called on shutdown.
func (r *Refresher) Schedule(spec string) error {
	_, err := r.cron.AddFunc(spec, func() {
		if err := r.RefreshAll(context.Background()); err != nil {
			r.logger.Error("scheduled refresh failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("register refresh schedule %q: %w", spec, err)
	}
	r.cron.Start()
	r.logger.Info("refresh schedule registered", zap.String("cron", spec))
	return nil
}

// Stop halts the periodic refresh and waits for a running job to finish.
func (r *Refresher) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
}
