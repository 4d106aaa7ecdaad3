// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/mindhub/internal/app/store/queries/counterqueries"
	"github.com/dalemusser/mindhub/internal/app/system/indexes"
	"github.com/dalemusser/mindhub/internal/app/system/timeouts"
	"github.com/dalemusser/mindhub/internal/app/system/validators"
	"github.com/dalemusser/mindhub/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB applies the configured deadlines, opens the MongoDB client,
// verifies it with a ping and prepares the background worker when
// reconcile_interval is set.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	timeouts.Configure(timeoutsFrom(appCfg))

	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(appCfg.MongoDatabase)
	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase),
		zap.Uint64("max_pool", appCfg.MongoMaxPoolSize))

	bgCtx, stop := context.WithCancel(context.Background())
	deps := DBDeps{
		MongoClient:    client,
		MongoDatabase:  db,
		bgCtx:          bgCtx,
		stopBackground: stop,
	}
	if appCfg.ReconcileInterval > 0 {
		deps.Reconciler = workers.NewCounterReconcile(db, logger, appCfg.ReconcileInterval)
	}
	return deps, nil
}

// EnsureSchema creates indexes and collection validators, then optionally
// repairs drifted counters.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.MongoDatabase

	if err := indexes.EnsureAll(ctx, db); err != nil {
		logger.Error("ensure indexes failed", zap.Error(err))
		return err
	}
	if err := validators.EnsureAll(ctx, db); err != nil {
		// Validators are advisory; a server without collMod support still runs.
		logger.Warn("ensure validators incomplete", zap.Error(err))
	}

	if appCfg.ReconcileCountersOnStart {
		rctx, cancel := context.WithTimeout(ctx, timeouts.Batch())
		defer cancel()
		res, err := counterqueries.ReconcileAll(rctx, db, logger)
		if err != nil {
			logger.Error("startup counter reconciliation failed", zap.Error(err))
			return err
		}
		logger.Info("startup counter reconciliation done",
			zap.Int("posts_scanned", res.PostsScanned),
			zap.Int("posts_fixed", res.PostsFixed),
			zap.Int("comments_scanned", res.CommentsScanned),
			zap.Int("comments_fixed", res.CommentsFixed))
	}
	return nil
}
