// internal/app/features/admin/reconcile.go
package admin

import (
	"context"
	"net/http"

	"github.com/dalemusser/mindhub/internal/app/store/queries/counterqueries"
	"github.com/dalemusser/mindhub/internal/app/system/jsonio"
	"github.com/dalemusser/mindhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// HandleReconcileCounters handles POST /admin/reconcile-counters. It recounts
// comments, reactions and shares on every post and comment and fixes drift.
func (h *Handler) HandleReconcileCounters(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	res, err := counterqueries.ReconcileAll(ctx, h.DB, h.Log)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "counter reconcile failed", err)
		return
	}
	h.Log.Info("counters reconciled on request",
		zap.Int("posts_fixed", res.PostsFixed),
		zap.Int("comments_fixed", res.CommentsFixed))
	jsonio.OK(w, res)
}
