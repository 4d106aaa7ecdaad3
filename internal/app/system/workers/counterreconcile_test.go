package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dalemusser/mindhub/internal/app/store/queries/counterqueries"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func TestCounterReconcile_RunsOnTicker(t *testing.T) {
	var calls atomic.Int32
	w := NewCounterReconcile(nil, zap.NewNop(), 10*time.Millisecond).
		WithReconcileFunc(func(ctx context.Context, db *mongo.Database, log *zap.Logger) (counterqueries.Result, error) {
			calls.Add(1)
			return counterqueries.Result{PostsFixed: 1}, nil
		})

	w.Start()
	require.Eventually(t, func() bool { return calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	w.Stop()

	after := calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, calls.Load(), "no passes after Stop")
}

func TestCounterReconcile_ErrorDoesNotStopLoop(t *testing.T) {
	var calls atomic.Int32
	w := NewCounterReconcile(nil, zap.NewNop(), 10*time.Millisecond).
		WithReconcileFunc(func(ctx context.Context, db *mongo.Database, log *zap.Logger) (counterqueries.Result, error) {
			calls.Add(1)
			return counterqueries.Result{}, errors.New("boom")
		})

	w.Start()
	defer w.Stop()
	require.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
}

func TestCounterReconcile_StopIsIdempotent(t *testing.T) {
	w := NewCounterReconcile(nil, zap.NewNop(), time.Hour)
	w.Start()
	w.Stop()
	assert.NotPanics(t, w.Stop)
}
