package room

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Janitor periodically reclaims idle rooms and stale disconnected seats.
type Janitor struct {
	mgr      *Manager
	interval time.Duration
	log      *logrus.Entry
}

func NewJanitor(mgr *Manager, interval time.Duration) *Janitor {
	return &Janitor{
		mgr:      mgr,
		interval: interval,
		log:      logrus.WithField("component", "janitor"),
	}
}

// Run sweeps on a fixed interval until ctx is cancelled. An in-progress
// sweep finishes before Run returns to its select, so shutdown never leaves
// a half-evicted room behind.
func (j *Janitor) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.log.WithField("interval", j.interval).Info("janitor running")
	for {
		select {
		case <-ctx.Done():
			j.log.Info("janitor stopped")
			return
		case <-ticker.C:
			if n := j.mgr.Cleanup(); n > 0 {
				j.log.WithField("rooms_removed", n).Info("swept idle rooms")
			}
		}
	}
}
