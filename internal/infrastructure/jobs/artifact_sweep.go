package jobs

import (
	"context"
	"time"

	"github.com/usaidgithub/QuickShare/internal/infrastructure/storage"
	"go.uber.org/zap"
)

// ArtifactSweepJob periodically removes artifacts that outlived their
// retention window. Each upload already arms its own deletion timer;
// the sweep exists for files orphaned by an earlier process.
type ArtifactSweepJob struct {
	store    *storage.LocalStorage
	logger   *zap.SugaredLogger
	interval time.Duration
	stopChan chan struct{}
}

func NewArtifactSweepJob(store *storage.LocalStorage, logger *zap.SugaredLogger, interval time.Duration) *ArtifactSweepJob {
	return &ArtifactSweepJob{
		store:    store,
		logger:   logger,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

func (j *ArtifactSweepJob) Start(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.logger.Infow("artifact sweep job started", "interval", j.interval)

	j.runSweep()

	for {
		select {
		case <-ticker.C:
			j.runSweep()
		case <-j.stopChan:
			j.logger.Infow("artifact sweep job stopped")
			return
		case <-ctx.Done():
			j.logger.Infow("artifact sweep job context cancelled")
			return
		}
	}
}

func (j *ArtifactSweepJob) Stop() {
	close(j.stopChan)
}

func (j *ArtifactSweepJob) runSweep() {
	startTime := time.Now()

	removed, err := j.store.CleanupExpired()
	if err != nil {
		j.logger.Errorw("artifact sweep failed",
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	if removed > 0 {
		j.logger.Infow("artifact sweep completed",
			"removed", removed,
			"duration", time.Since(startTime),
		)
	}
}
