// internal/app/features/notifications/routes.go
package notifications

import (
	"github.com/dalemusser/mindhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)

	r.Get("/", h.HandleList)
	r.Patch("/", h.HandleMarkAllRead)
	r.Delete("/", h.HandleDeleteAll)

	r.Get("/{id}", h.HandleGet)
	r.Patch("/{id}", h.HandleSetRead)
	r.Delete("/{id}", h.HandleDelete)
	return r
}
