// internal/app/features/posts/edit.go
package posts

import (
	"context"
	"net/http"

	"github.com/dalemusser/mindhub/internal/app/policy/ownerpolicy"
	commentstore "github.com/dalemusser/mindhub/internal/app/store/comments"
	poststore "github.com/dalemusser/mindhub/internal/app/store/posts"
	reactionstore "github.com/dalemusser/mindhub/internal/app/store/reactions"
	sharestore "github.com/dalemusser/mindhub/internal/app/store/shares"
	"github.com/dalemusser/mindhub/internal/app/system/apperr"
	"github.com/dalemusser/mindhub/internal/app/system/authz"
	"github.com/dalemusser/mindhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/mindhub/internal/app/system/jsonio"
	"github.com/dalemusser/mindhub/internal/app/system/normalize"
	"github.com/dalemusser/mindhub/internal/app/system/timeouts"
	"github.com/dalemusser/mindhub/internal/app/system/txn"
	"github.com/dalemusser/mindhub/internal/app/system/urlparam"
	"github.com/dalemusser/mindhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type updatePostRequest struct {
	Content   *string  `json:"content" validate:"omitempty,max=5000"`
	MediaURLs []string `json:"mediaUrls" validate:"omitempty,max=10,dive,max=2048"`
	Tags      []string `json:"tags" validate:"omitempty,max=20,dive,max=50"`
}

// loadOwned fetches the post and checks the caller wrote it.
func (h *Handler) loadOwned(ctx context.Context, r *http.Request) (*models.Post, error) {
	uid, ok := authz.UserID(r)
	if !ok {
		return nil, apperr.Unauthorizedf("missing or invalid bearer token")
	}
	id, err := urlparam.ObjectID(r, "id")
	if err != nil {
		return nil, err
	}
	p, err := poststore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ownerpolicy.AssertOwner(p.AuthorID, uid); err != nil {
		return nil, err
	}
	return p, nil
}

// HandleUpdate handles PATCH /posts/{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updatePostRequest
	if err := jsonio.DecodeValid(w, r, &req); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	upd := poststore.Update{}
	if req.Content != nil {
		c := htmlsanitize.Sanitize(*req.Content)
		if c == "" {
			h.ErrLog.Write(w, r, errEmptyContent)
			return
		}
		upd.Content = &c
	}
	if req.MediaURLs != nil {
		upd.MediaURLs = htmlsanitize.SanitizeAll(req.MediaURLs)
	}
	if req.Tags != nil {
		upd.Tags = normalize.TagList(req.Tags)
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := h.loadOwned(ctx, r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	updated, err := poststore.New(h.DB).Update(ctx, p.ID, upd)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	jsonio.OK(w, updated)
}

// HandleDelete handles DELETE /posts/{id}. Comments, reactions on the post
// and its comments, and shares are removed in the same transaction.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	p, err := h.loadOwned(ctx, r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	var removed cascadeResult
	err = txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		res, err := h.cascadeDelete(ctx, p.ID)
		removed = res
		return err
	})
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	h.Log.Info("post deleted",
		zap.String("post_id", p.ID.Hex()),
		zap.Int64("comments", removed.comments),
		zap.Int64("reactions", removed.reactions),
		zap.Int64("shares", removed.shares))
	jsonio.OK(w, p)
}

type cascadeResult struct {
	comments, reactions, shares int64
}

func (h *Handler) cascadeDelete(ctx context.Context, postID primitive.ObjectID) (cascadeResult, error) {
	var res cascadeResult

	comments := commentstore.New(h.DB)
	reactions := reactionstore.New(h.DB)

	commentIDs, err := comments.IDsByPost(ctx, postID)
	if err != nil {
		return res, err
	}
	n, err := reactions.DeleteByTargets(ctx, models.TargetComment, commentIDs)
	if err != nil {
		return res, err
	}
	res.reactions += n
	if n, err = reactions.DeleteByTargets(ctx, models.TargetPost, []primitive.ObjectID{postID}); err != nil {
		return res, err
	}
	res.reactions += n
	if res.comments, err = comments.DeleteByPost(ctx, postID); err != nil {
		return res, err
	}
	if res.shares, err = sharestore.New(h.DB).DeleteByPost(ctx, postID); err != nil {
		return res, err
	}
	_, err = poststore.New(h.DB).Delete(ctx, postID)
	return res, err
}
