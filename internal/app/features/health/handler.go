// internal/app/features/health/handler.go
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/mindhub/internal/app/system/jsonio"
	"github.com/dalemusser/mindhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Pinger is satisfied by *mongo.Client.
type Pinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

type Handler struct {
	DB  Pinger
	Log *zap.Logger
}

func NewHandler(db Pinger, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger}
}

type status struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	LatencyMS int64  `json:"latencyMs"`
}

// Serve handles GET /health. It pings the primary under timeouts.Ping and
// answers 503 with database "disconnected" when the ping fails.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	start := time.Now()
	err := h.DB.Ping(ctx, readpref.Primary())
	took := time.Since(start).Milliseconds()

	if err != nil {
		h.Log.Error("health check: mongo ping failed", zap.Error(err), zap.Int64("latency_ms", took))
		jsonio.Write(w, http.StatusServiceUnavailable, status{Status: "error", Database: "disconnected", LatencyMS: took})
		return
	}
	jsonio.OK(w, status{Status: "ok", Database: "connected", LatencyMS: took})
}
