// internal/app/features/shares/shares.go
package shares

import (
	"context"
	"net/http"

	"github.com/dalemusser/mindhub/internal/app/policy/ownerpolicy"
	poststore "github.com/dalemusser/mindhub/internal/app/store/posts"
	sharestore "github.com/dalemusser/mindhub/internal/app/store/shares"
	"github.com/dalemusser/mindhub/internal/app/system/apperr"
	"github.com/dalemusser/mindhub/internal/app/system/authz"
	"github.com/dalemusser/mindhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/mindhub/internal/app/system/jsonio"
	"github.com/dalemusser/mindhub/internal/app/system/notify"
	"github.com/dalemusser/mindhub/internal/app/system/paging"
	"github.com/dalemusser/mindhub/internal/app/system/timeouts"
	"github.com/dalemusser/mindhub/internal/app/system/txn"
	"github.com/dalemusser/mindhub/internal/app/system/urlparam"
	"github.com/dalemusser/mindhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type createShareRequest struct {
	PostID  primitive.ObjectID `json:"postId" validate:"required"`
	Content string             `json:"content" validate:"max=1000"`
}

// HandleCreate handles POST /shares.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserID(r)
	if !ok {
		h.ErrLog.Write(w, r, apperr.Unauthorizedf("missing or invalid bearer token"))
		return
	}
	var req createShareRequest
	if err := jsonio.DecodeValid(w, r, &req); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	posts := poststore.New(h.DB)
	post, err := posts.GetByID(ctx, req.PostID)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	store := sharestore.New(h.DB)
	exists, err := store.Exists(ctx, uid, post.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "share lookup failed", err)
		return
	}
	if exists {
		h.ErrLog.Write(w, r, sharestore.ErrDuplicateShare)
		return
	}

	var created models.Share
	err = txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		sh, err := store.Create(ctx, models.Share{
			UserID:  uid,
			PostID:  post.ID,
			Content: htmlsanitize.StripTags(req.Content),
		})
		if err != nil {
			return err
		}
		created = sh
		return posts.Inc(ctx, post.ID, poststore.FieldShares, 1)
	})
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	h.Notify.Send(r.Context(), notify.Event{
		Recipient: post.AuthorID,
		Actor:     uid,
		Type:      models.NotifyShare,
		Ref:       models.TargetRef{TargetType: models.TargetPost, TargetID: post.ID},
	})
	jsonio.Created(w, created)
}

// HandleList handles GET /shares?userId&postId.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	var f sharestore.Filter
	if id, err := urlparam.QueryObjectID(r, "userId"); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	} else if id != nil {
		f.UserID = *id
	}
	if id, err := urlparam.QueryObjectID(r, "postId"); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	} else if id != nil {
		f.PostID = *id
	}
	p := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	items, total, err := sharestore.New(h.DB).List(ctx, f, p)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list shares failed", err)
		return
	}
	jsonio.OK(w, paging.NewPage(items, total, p))
}

// HandleGet handles GET /shares/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := urlparam.ObjectID(r, "id")
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	sh, err := sharestore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	jsonio.OK(w, sh)
}

// HandleDelete handles DELETE /shares/{id} and decrements the post's sharesCount.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserID(r)
	if !ok {
		h.ErrLog.Write(w, r, apperr.Unauthorizedf("missing or invalid bearer token"))
		return
	}
	id, err := urlparam.ObjectID(r, "id")
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := sharestore.New(h.DB)
	sh, err := store.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	if err := ownerpolicy.AssertOwner(sh.UserID, uid); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	err = txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		deleted, err := store.Delete(ctx, sh.ID)
		if err != nil || !deleted {
			return err
		}
		return poststore.New(h.DB).Inc(ctx, sh.PostID, poststore.FieldShares, -1)
	})
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	jsonio.OK(w, sh)
}
