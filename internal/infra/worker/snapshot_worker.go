package worker

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/ligue-crm/internal/infra/memory"
)

type Snapshotter interface {
	Snapshot() memory.Snapshot
}

type SnapshotSaver interface {
	Save(ctx context.Context, snap memory.Snapshot) error
}

// SnapshotWorker periodically saves the in-memory store and once more on shutdown.
type SnapshotWorker struct {
	store        Snapshotter
	saver        SnapshotSaver
	tickInterval time.Duration
	log          logrus.FieldLogger
}

func NewSnapshotWorker(store Snapshotter, saver SnapshotSaver, interval time.Duration, log logrus.FieldLogger) *SnapshotWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	return &SnapshotWorker{
		store:        store,
		saver:        saver,
		tickInterval: interval,
		log:          log.WithField("component", "snapshot-worker"),
	}
}

func (w *SnapshotWorker) Start(ctx context.Context) {
	w.log.WithField("interval", w.tickInterval).Info("snapshot worker started")

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// ctx is already cancelled, the final save gets its own deadline
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			w.save(flushCtx)
			cancel()
			w.log.Info("snapshot worker stopped")
			return
		case <-ticker.C:
			w.save(ctx)
		}
	}
}

func (w *SnapshotWorker) save(ctx context.Context) {
	snap := w.store.Snapshot()
	if err := w.saver.Save(ctx, snap); err != nil {
		w.log.WithError(err).Error("snapshot save failed")
		return
	}
	w.log.WithFields(logrus.Fields{
		"customers": len(snap.Customers),
		"leads":     len(snap.Leads),
		"users":     len(snap.Users),
	}).Debug("snapshot saved")
}
