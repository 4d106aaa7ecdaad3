// internal/app/features/userprofiles/routes.go
package userprofiles

import (
	"github.com/dalemusser/mindhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)

	r.Post("/", h.HandleSave)
	r.Put("/", h.HandleSave)
	r.Post("/upload-image", h.HandleUploadImage)
	r.Delete("/image", h.HandleDeleteImage)
	r.Get("/{userId}", h.HandleGet)

	return r
}
