// internal/app/system/workers/counterreconcile.go
package workers

import (
	"context"
	"sync"
	"time"

	"github.com/dalemusser/mindhub/internal/app/store/queries/counterqueries"
	"github.com/dalemusser/mindhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ReconcileFunc recomputes cached counters. counterqueries.ReconcileAll in production.
type ReconcileFunc func(ctx context.Context, db *mongo.Database, log *zap.Logger) (counterqueries.Result, error)

// CounterReconcile periodically repairs post and comment counters that drifted
// from their live child counts.
type CounterReconcile struct {
	db        *mongo.Database
	log       *zap.Logger
	interval  time.Duration
	reconcile ReconcileFunc
	stopCh    chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
}

// NewCounterReconcile creates the worker. interval must be positive.
func NewCounterReconcile(db *mongo.Database, logger *zap.Logger, interval time.Duration) *CounterReconcile {
	return &CounterReconcile{
		db:        db,
		log:       logger,
		interval:  interval,
		reconcile: counterqueries.ReconcileAll,
		stopCh:    make(chan struct{}),
	}
}

// WithReconcileFunc swaps the reconciliation routine. Used by tests.
func (w *CounterReconcile) WithReconcileFunc(fn ReconcileFunc) *CounterReconcile {
	w.reconcile = fn
	return w
}

// Start begins the background loop.
func (w *CounterReconcile) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("counter reconcile worker started", zap.Duration("interval", w.interval))
}

// Stop signals the worker to stop and waits for an in-flight pass to finish.
// Safe to call more than once.
func (w *CounterReconcile) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.wg.Wait()
		w.log.Info("counter reconcile worker stopped")
	})
}

func (w *CounterReconcile) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.RunOnce()
		}
	}
}

// RunOnce performs a single reconciliation pass under the batch timeout.
func (w *CounterReconcile) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Batch())
	defer cancel()

	res, err := w.reconcile(ctx, w.db, w.log)
	if err != nil {
		w.log.Error("counter reconciliation failed", zap.Error(err))
		return
	}
	if res.PostsFixed > 0 || res.CommentsFixed > 0 {
		w.log.Info("repaired drifted counters",
			zap.Int("posts_fixed", res.PostsFixed),
			zap.Int("comments_fixed", res.CommentsFixed))
	}
}
