package jobs

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vishalvishwakarma6688/diamond-hands-llp-assignment/internal/price"
)

// PriceSyncJob periodically appends a fresh price point per known symbol.
// The valuation side only ever reads the series this job grows.
type PriceSyncJob struct {
	interval time.Duration
	feed     *price.Feed
	log      *logrus.Logger
}

func NewPriceSyncJob(interval time.Duration, feed *price.Feed, log *logrus.Logger) *PriceSyncJob {
	return &PriceSyncJob{
		interval: interval,
		feed:     feed,
		log:      log,
	}
}

// Start runs one refresh immediately, then one per tick until ctx ends.
func (j *PriceSyncJob) Start(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.run(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.run(ctx)
		}
	}
}

func (j *PriceSyncJob) run(ctx context.Context) {
	points, err := j.feed.RefreshAll(ctx)
	if err != nil {
		j.log.WithError(err).Warn("price sync failed")
		return
	}
	j.log.WithField("symbols", len(points)).Info("price series refreshed")
}
