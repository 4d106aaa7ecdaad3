// internal/app/features/comments/create.go
package comments

import (
	"context"
	"net/http"

	commentstore "github.com/dalemusser/mindhub/internal/app/store/comments"
	poststore "github.com/dalemusser/mindhub/internal/app/store/posts"
	"github.com/dalemusser/mindhub/internal/app/system/apperr"
	"github.com/dalemusser/mindhub/internal/app/system/authz"
	"github.com/dalemusser/mindhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/mindhub/internal/app/system/jsonio"
	"github.com/dalemusser/mindhub/internal/app/system/notify"
	"github.com/dalemusser/mindhub/internal/app/system/timeouts"
	"github.com/dalemusser/mindhub/internal/app/system/txn"
	"github.com/dalemusser/mindhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type createCommentRequest struct {
	PostID          primitive.ObjectID  `json:"postId" validate:"required"`
	Content         string              `json:"content" validate:"required,max=2000"`
	ParentCommentID *primitive.ObjectID `json:"parentCommentId"`
}

var (
	errEmptyContent    = apperr.BadRequestf("content is required")
	errParentMissing   = apperr.NotFoundf("parent comment not found")
	errParentOtherPost = apperr.BadRequestf("parent comment belongs to a different post")
)

// HandleCreate handles POST /comments.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserID(r)
	if !ok {
		h.ErrLog.Write(w, r, apperr.Unauthorizedf("missing or invalid bearer token"))
		return
	}
	var req createCommentRequest
	if err := jsonio.DecodeValid(w, r, &req); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	content := htmlsanitize.Sanitize(req.Content)
	if content == "" {
		h.ErrLog.Write(w, r, errEmptyContent)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	post, err := poststore.New(h.DB).GetByID(ctx, req.PostID)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	store := commentstore.New(h.DB)
	if req.ParentCommentID != nil {
		parent, err := store.GetByID(ctx, *req.ParentCommentID)
		if err == mongo.ErrNoDocuments {
			h.ErrLog.Write(w, r, errParentMissing)
			return
		}
		if err != nil {
			h.ErrLog.LogServerError(w, r, "parent comment lookup failed", err)
			return
		}
		if parent.PostID != post.ID {
			h.ErrLog.Write(w, r, errParentOtherPost)
			return
		}
	}

	var created models.Comment
	err = txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		c, err := store.Create(ctx, models.Comment{
			PostID:          post.ID,
			AuthorID:        uid,
			ParentCommentID: req.ParentCommentID,
			Content:         content,
		})
		if err != nil {
			return err
		}
		created = c
		return poststore.New(h.DB).Inc(ctx, post.ID, poststore.FieldComments, 1)
	})
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	h.Notify.Send(r.Context(), notify.Event{
		Recipient: post.AuthorID,
		Actor:     uid,
		Type:      models.NotifyComment,
		Ref:       models.TargetRef{TargetType: models.TargetPost, TargetID: post.ID},
	})
	jsonio.Created(w, created)
}
