// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/mindhub/internal/app/system/workers"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Reconciler is the background counter worker; nil when disabled.
	Reconciler *workers.CounterReconcile

	// bgCtx scopes background loops (rate-limit sweepers); stopBackground ends them.
	bgCtx          context.Context
	stopBackground context.CancelFunc
}
