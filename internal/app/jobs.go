package app

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// sweepGrace keeps freshly written uploads out of reach of the sweeper:
// a file exists on disk before the product record referencing it does.
const sweepGrace = time.Hour

func (a *Application) initJobs() {
	a.sched = cron.New()
	if _, err := a.sched.AddFunc("30 3 * * *", a.runAssetSweep); err != nil {
		zap.L().Error("failed to schedule asset sweep", zap.Error(err))
		return
	}
	a.sched.Start()
}

// runAssetSweep reclaims stored files no product references anymore, e.g.
// after a crash between a filesystem write and the matching store write.
func (a *Application) runAssetSweep() {
	ctx := context.Background()

	products, err := a.catalog.List(ctx, "")
	if err != nil {
		zap.L().Warn("asset sweep skipped, product listing failed", zap.Error(err))
		return
	}

	referenced := make(map[string]struct{})
	for _, p := range products {
		for _, ref := range p.ImageUrls {
			referenced[ref] = struct{}{}
		}
	}

	removed, err := a.assets.Sweep(referenced, sweepGrace)
	if err != nil {
		zap.L().Warn("asset sweep failed", zap.Error(err))
		return
	}
	if removed > 0 {
		zap.L().Info("asset sweep finished", zap.Int("removed", removed))
	}
}
