// internal/app/features/memberships/routes.go
package memberships

import (
	"github.com/dalemusser/mindhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.HandleList)
	r.Get("/{id}", h.HandleGet)

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Post("/", h.HandleJoin)
		pr.Patch("/{id}", h.HandleChangeRole)
		pr.Delete("/{id}", h.HandleDelete)
	})
	return r
}
