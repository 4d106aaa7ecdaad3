// internal/app/features/users/list.go
package users

import (
	"context"
	"errors"
	"net/http"

	profilestore "github.com/dalemusser/mindhub/internal/app/store/profiles"
	userstore "github.com/dalemusser/mindhub/internal/app/store/users"
	"github.com/dalemusser/mindhub/internal/app/system/apperr"
	"github.com/dalemusser/mindhub/internal/app/system/authz"
	"github.com/dalemusser/mindhub/internal/app/system/jsonio"
	"github.com/dalemusser/mindhub/internal/app/system/paging"
	"github.com/dalemusser/mindhub/internal/app/system/timeouts"
	"github.com/dalemusser/mindhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

// HandleList handles GET /users.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	p := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	items, total, err := userstore.New(h.DB).List(ctx, p)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list users failed", err)
		return
	}
	jsonio.OK(w, paging.NewPage(items, total, p))
}

// profileView is the caller's account with its profile folded in.
type profileView struct {
	models.User
	Profile *models.UserProfile `json:"profile"`
}

// HandleProfile handles GET /users/profile.
func (h *Handler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserID(r)
	if !ok {
		h.ErrLog.Write(w, r, apperr.Unauthorizedf("missing or invalid bearer token"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := userstore.New(h.DB).GetByID(ctx, uid)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	prof, err := profilestore.New(h.DB).GetByUser(ctx, uid)
	if errors.Is(err, mongo.ErrNoDocuments) {
		prof = nil
	} else if err != nil {
		h.ErrLog.LogServerError(w, r, "load profile failed", err)
		return
	}

	jsonio.OK(w, profileView{User: *u, Profile: prof})
}
