// internal/app/features/journal/routes.go
package journal

import (
	"github.com/dalemusser/mindhub/internal/app/system/auth"
	"github.com/dalemusser/mindhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

func CheckInRoutes(h *Handler) chi.Router    { return mount(h.checkIns(), false) }
func AssessmentRoutes(h *Handler) chi.Router { return mount(h.assessments(), false) }
func ChatRoutes(h *Handler) chi.Router       { return mount(h.chats(), false) }

// AiLogRoutes and FeedbackRoutes list only for admins.
func AiLogRoutes(h *Handler) chi.Router    { return mount(h.aiLogs(), true) }
func FeedbackRoutes(h *Handler) chi.Router { return mount(h.feedback(), true) }

func mount[T any](res *resource[T], adminList bool) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)

	if adminList {
		r.With(auth.RequireRole(models.RoleAdmin)).Get("/", res.list)
	} else {
		r.Get("/", res.list)
	}
	r.Post("/", res.create)
	r.Get("/{id}", res.get)
	r.Patch("/{id}", res.update)
	r.Delete("/{id}", res.remove)
	return r
}
