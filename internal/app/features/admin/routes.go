// internal/app/features/admin/routes.go
package admin

import (
	"github.com/dalemusser/mindhub/internal/app/system/auth"
	"github.com/dalemusser/mindhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireRole(models.RoleAdmin))
	r.Post("/reconcile-counters", h.HandleReconcileCounters)
	return r
}
