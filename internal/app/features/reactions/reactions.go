// internal/app/features/reactions/reactions.go
package reactions

import (
	"context"
	"net/http"

	"github.com/dalemusser/mindhub/internal/app/policy/ownerpolicy"
	reactionstore "github.com/dalemusser/mindhub/internal/app/store/reactions"
	"github.com/dalemusser/mindhub/internal/app/system/apperr"
	"github.com/dalemusser/mindhub/internal/app/system/authz"
	"github.com/dalemusser/mindhub/internal/app/system/jsonio"
	"github.com/dalemusser/mindhub/internal/app/system/notify"
	"github.com/dalemusser/mindhub/internal/app/system/paging"
	"github.com/dalemusser/mindhub/internal/app/system/targets"
	"github.com/dalemusser/mindhub/internal/app/system/timeouts"
	"github.com/dalemusser/mindhub/internal/app/system/txn"
	"github.com/dalemusser/mindhub/internal/app/system/urlparam"
	"github.com/dalemusser/mindhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type createReactionRequest struct {
	TargetType string             `json:"targetType" validate:"required,oneof=Post Comment"`
	TargetID   primitive.ObjectID `json:"targetId" validate:"required"`
	Type       string             `json:"type" validate:"required,oneof=like love support insightful hug sad"`
}

var errUnauthenticated = apperr.Unauthorizedf("missing or invalid bearer token")

// HandleCreate handles POST /reactions.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserID(r)
	if !ok {
		h.ErrLog.Write(w, r, errUnauthenticated)
		return
	}
	var req createReactionRequest
	if err := jsonio.DecodeValid(w, r, &req); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	ref := models.TargetRef{TargetType: req.TargetType, TargetID: req.TargetID}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	author, err := targets.Author(ctx, h.DB, ref)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	store := reactionstore.New(h.DB)
	exists, err := store.Exists(ctx, uid, ref)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "reaction lookup failed", err)
		return
	}
	if exists {
		h.ErrLog.Write(w, r, reactionstore.ErrDuplicateReaction)
		return
	}

	var created models.Reaction
	err = txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		rx, err := store.Create(ctx, models.Reaction{
			UserID:     uid,
			TargetType: ref.TargetType,
			TargetID:   ref.TargetID,
			Type:       req.Type,
		})
		if err != nil {
			return err
		}
		created = rx
		return targets.IncReactions(ctx, h.DB, ref, 1)
	})
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	h.Notify.Send(r.Context(), notify.Event{
		Recipient: author,
		Actor:     uid,
		Type:      models.NotifyReaction,
		Ref:       ref,
		Message:   req.Type,
	})
	jsonio.Created(w, created)
}

// HandleList handles GET /reactions?userId&targetType&targetId.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	var f reactionstore.Filter
	if id, err := urlparam.QueryObjectID(r, "userId"); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	} else if id != nil {
		f.UserID = *id
	}
	if id, err := urlparam.QueryObjectID(r, "targetId"); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	} else if id != nil {
		f.TargetID = *id
	}
	f.TargetType = query.Get(r, "targetType")
	p := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	items, total, err := reactionstore.New(h.DB).List(ctx, f, p)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list reactions failed", err)
		return
	}
	jsonio.OK(w, paging.NewPage(items, total, p))
}

// HandleGet handles GET /reactions/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := urlparam.ObjectID(r, "id")
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	rx, err := reactionstore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	jsonio.OK(w, rx)
}

// HandleDelete handles DELETE /reactions/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserID(r)
	if !ok {
		h.ErrLog.Write(w, r, errUnauthenticated)
		return
	}
	id, err := urlparam.ObjectID(r, "id")
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rx, err := reactionstore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	if err := ownerpolicy.AssertOwner(rx.UserID, uid); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	if err := h.remove(ctx, rx); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	jsonio.OK(w, rx)
}

// HandleDeleteByTarget handles DELETE /reactions?targetType&targetId, removing
// the caller's own reaction on that target.
func (h *Handler) HandleDeleteByTarget(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserID(r)
	if !ok {
		h.ErrLog.Write(w, r, errUnauthenticated)
		return
	}
	targetType := query.Get(r, "targetType")
	if !models.IsReactable(targetType) {
		h.ErrLog.Write(w, r, apperr.BadRequestf(`targetType must be "Post" or "Comment"`))
		return
	}
	targetID, err := urlparam.QueryObjectID(r, "targetId")
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	if targetID == nil {
		h.ErrLog.Write(w, r, apperr.BadRequestf("targetId is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rx, err := reactionstore.New(h.DB).GetByUserTarget(ctx, uid, models.TargetRef{TargetType: targetType, TargetID: *targetID})
	if err == mongo.ErrNoDocuments {
		h.ErrLog.Write(w, r, apperr.NotFoundf("reaction not found"))
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "reaction lookup failed", err)
		return
	}
	if err := h.remove(ctx, rx); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	jsonio.OK(w, rx)
}

func (h *Handler) remove(ctx context.Context, rx *models.Reaction) error {
	return txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		deleted, err := reactionstore.New(h.DB).Delete(ctx, rx.ID)
		if err != nil || !deleted {
			return err
		}
		return targets.IncReactions(ctx, h.DB, rx.Target(), -1)
	})
}
