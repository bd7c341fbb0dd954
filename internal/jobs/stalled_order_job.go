package jobs

import (
	"context"
	"time"

	"orderservice/internal/core/application/usecases/queries"
	"orderservice/internal/core/domain/model/order"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// StalledOrdersFinder runs the stalled-orders query.
type StalledOrdersFinder interface {
	Handle(ctx context.Context, query queries.GetStalledOrdersQuery) ([]queries.StalledOrderResponse, error)
}

// StalledOrderJob periodically reports orders waiting on a reply for too long.
type StalledOrderJob struct {
	finder   StalledOrdersFinder
	query    queries.GetStalledOrdersQuery
	schedule string
	timeout  time.Duration
	cron     *cron.Cron
	logger   *zap.Logger
	now      func() time.Time
}

// NewStalledOrderJob watches in-flight orders (NEW, VALIDATION_PENDING, VALIDATED and
// ALLOCATION_PENDING) older than threshold.
func NewStalledOrderJob(
	finder StalledOrdersFinder,
	schedule string,
	threshold time.Duration,
	logger *zap.Logger,
) (*StalledOrderJob, error) {
	query, err := queries.NewGetStalledOrdersQuery(
		order.InFlight(),
		threshold,
	)
	if err != nil {
		return nil, err
	}

	return &StalledOrderJob{
		finder:   finder,
		query:    query,
		schedule: schedule,
		timeout:  10 * time.Second,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With(zap.String("component", "stalled_order_job")),
		now:      time.Now,
	}, nil
}

// Start schedules the sweep. An invalid schedule is reported here.
func (j *StalledOrderJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, j.run); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("Stalled order job started", zap.String("schedule", j.schedule))
	return nil
}

// Stop waits for a running sweep to finish.
func (j *StalledOrderJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Stalled order job stopped")
}

func (j *StalledOrderJob) run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	if _, err := j.Sweep(ctx); err != nil {
		j.logger.Error("Stalled order job failed", zap.Error(err))
	}
}

// Sweep runs one pass and returns how many stalled orders it found.
func (j *StalledOrderJob) Sweep(ctx context.Context) (int, error) {
	stalled, err := j.finder.Handle(ctx, j.query)
	if err != nil {
		return 0, err
	}

	now := j.now()
	for _, o := range stalled {
		j.logger.Warn("order is stalled",
			zap.String("order_id", o.ID.String()),
			zap.Stringer("status", o.Status),
			zap.Duration("stalled_for", now.Sub(o.UpdatedAt).Round(time.Second)),
		)
	}
	return len(stalled), nil
}
