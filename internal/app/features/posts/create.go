// internal/app/features/posts/create.go
package posts

import (
	"context"
	"net/http"

	groupstore "github.com/dalemusser/mindhub/internal/app/store/groups"
	membershipstore "github.com/dalemusser/mindhub/internal/app/store/memberships"
	poststore "github.com/dalemusser/mindhub/internal/app/store/posts"
	"github.com/dalemusser/mindhub/internal/app/system/apperr"
	"github.com/dalemusser/mindhub/internal/app/system/authz"
	"github.com/dalemusser/mindhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/mindhub/internal/app/system/jsonio"
	"github.com/dalemusser/mindhub/internal/app/system/normalize"
	"github.com/dalemusser/mindhub/internal/app/system/timeouts"
	"github.com/dalemusser/mindhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type createPostRequest struct {
	Content   string              `json:"content" validate:"required,max=5000"`
	GroupID   *primitive.ObjectID `json:"groupId"`
	MediaURLs []string            `json:"mediaUrls" validate:"max=10,dive,max=2048"`
	Tags      []string            `json:"tags" validate:"max=20,dive,max=50"`
}

var errEmptyContent = apperr.BadRequestf("content is required")

// HandleCreate handles POST /posts.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserID(r)
	if !ok {
		h.ErrLog.Write(w, r, apperr.Unauthorizedf("missing or invalid bearer token"))
		return
	}
	var req createPostRequest
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

	if req.GroupID != nil {
		if _, err := groupstore.New(h.DB).GetByID(ctx, *req.GroupID); err != nil {
			h.ErrLog.Write(w, r, err)
			return
		}
		member, err := membershipstore.New(h.DB).Exists(ctx, *req.GroupID, uid)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "membership lookup failed", err)
			return
		}
		if !member {
			h.ErrLog.Write(w, r, apperr.Forbiddenf("you must be a member of this group to post in it"))
			return
		}
	}

	p, err := poststore.New(h.DB).Create(ctx, models.Post{
		AuthorID:  uid,
		GroupID:   req.GroupID,
		Content:   content,
		MediaURLs: htmlsanitize.SanitizeAll(req.MediaURLs),
		Tags:      normalize.TagList(req.Tags),
	})
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	h.Log.Debug("post created", zap.String("post_id", p.ID.Hex()), zap.String("author_id", uid.Hex()))
	jsonio.Created(w, p)
}
