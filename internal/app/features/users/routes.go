// internal/app/features/users/routes.go
package users

import (
	"github.com/dalemusser/mindhub/internal/app/system/auth"
	"github.com/dalemusser/mindhub/internal/app/system/ratelimit"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, resendLimiter *ratelimit.Limiter) chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.HandleCreate)
	r.Get("/verify/{token}", h.HandleVerify)
	r.With(resendLimiter.Middleware).Post("/resend-verification", h.HandleResend)

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Get("/", h.HandleList)
		pr.Get("/profile", h.HandleProfile)
	})

	return r
}
