// internal/app/features/comments/edit.go
package comments

import (
	"context"
	"net/http"

	"github.com/dalemusser/mindhub/internal/app/policy/ownerpolicy"
	commentstore "github.com/dalemusser/mindhub/internal/app/store/comments"
	poststore "github.com/dalemusser/mindhub/internal/app/store/posts"
	"github.com/dalemusser/mindhub/internal/app/system/apperr"
	"github.com/dalemusser/mindhub/internal/app/system/authz"
	"github.com/dalemusser/mindhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/mindhub/internal/app/system/jsonio"
	"github.com/dalemusser/mindhub/internal/app/system/timeouts"
	"github.com/dalemusser/mindhub/internal/app/system/txn"
	"github.com/dalemusser/mindhub/internal/app/system/urlparam"
	"github.com/dalemusser/mindhub/internal/domain/models"
)

type updateCommentRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

func (h *Handler) loadOwned(ctx context.Context, r *http.Request) (*models.Comment, error) {
	uid, ok := authz.UserID(r)
	if !ok {
		return nil, apperr.Unauthorizedf("missing or invalid bearer token")
	}
	id, err := urlparam.ObjectID(r, "id")
	if err != nil {
		return nil, err
	}
	c, err := commentstore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ownerpolicy.AssertOwner(c.AuthorID, uid); err != nil {
		return nil, err
	}
	return c, nil
}

// HandleUpdate handles PATCH /comments/{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateCommentRequest
	if err := jsonio.DecodeValid(w, r, &req); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	content := htmlsanitize.Sanitize(req.Content)
	if content == "" {
		h.ErrLog.Write(w, r, errEmptyContent)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	c, err := h.loadOwned(ctx, r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	updated, err := commentstore.New(h.DB).UpdateContent(ctx, c.ID, content)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	jsonio.OK(w, updated)
}

// HandleDelete handles DELETE /comments/{id}. Replies are left in place.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	c, err := h.loadOwned(ctx, r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	err = txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		deleted, err := commentstore.New(h.DB).Delete(ctx, c.ID)
		if err != nil || !deleted {
			return err
		}
		return poststore.New(h.DB).Inc(ctx, c.PostID, poststore.FieldComments, -1)
	})
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	jsonio.OK(w, c)
}
