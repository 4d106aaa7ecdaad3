// internal/app/features/login/routes.go
package login

import (
	"github.com/dalemusser/mindhub/internal/app/system/ratelimit"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted under /auth. The limiter is keyed by client IP.
func Routes(h *Handler, limiter *ratelimit.Limiter) chi.Router {
	r := chi.NewRouter()
	r.With(limiter.Middleware).Post("/login", h.HandleLogin)
	return r
}
