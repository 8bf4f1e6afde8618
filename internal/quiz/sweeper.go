package quiz

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cleverbadge/cleverbadge/internal/events"
)

// RunSweeper periodically flips started assessments whose attempt window
// lapsed to abandoned. The lazy check on answer writes catches most cases;
// the sweeper handles candidates who simply walked away. Blocks until ctx is
// done.
func RunSweeper(ctx context.Context, store Store, ttl, interval time.Duration, ev *events.Log, log *logrus.Entry) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-ttl)
			ids, err := store.AbandonStale(ctx, cutoff)
			if err != nil {
				log.WithError(err).Warn("abandon sweep failed")
				continue
			}
			for _, id := range ids {
				if ev != nil {
					_ = ev.Append(ctx, events.TypeAssessmentAbandoned, id, nil)
				}
			}
			if len(ids) > 0 {
				log.WithField("count", len(ids)).Info("abandoned stale assessments")
			}
		}
	}
}
