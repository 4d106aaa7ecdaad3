// internal/app/features/reports/routes.go
package reports

import (
	"github.com/dalemusser/mindhub/internal/app/system/auth"
	"github.com/dalemusser/mindhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)

	r.Post("/", h.HandleCreate)

	r.Group(func(mr chi.Router) {
		mr.Use(auth.RequireRole(models.RoleAdmin, models.RoleTherapist))
		mr.Get("/", h.HandleList)
		mr.Get("/{id}", h.HandleGet)
		mr.Patch("/{id}", h.HandleUpdateStatus)
	})
	r.With(auth.RequireRole(models.RoleAdmin)).Delete("/{id}", h.HandleDelete)

	return r
}
