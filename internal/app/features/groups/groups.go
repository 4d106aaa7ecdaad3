// internal/app/features/groups/groups.go
package groups

import (
	"context"
	"net/http"

	"github.com/dalemusser/mindhub/internal/app/policy/grouppolicy"
	groupstore "github.com/dalemusser/mindhub/internal/app/store/groups"
	membershipstore "github.com/dalemusser/mindhub/internal/app/store/memberships"
	"github.com/dalemusser/mindhub/internal/app/system/apperr"
	"github.com/dalemusser/mindhub/internal/app/system/authz"
	"github.com/dalemusser/mindhub/internal/app/system/jsonio"
	"github.com/dalemusser/mindhub/internal/app/system/paging"
	"github.com/dalemusser/mindhub/internal/app/system/timeouts"
	"github.com/dalemusser/mindhub/internal/app/system/txn"
	"github.com/dalemusser/mindhub/internal/app/system/urlparam"
	"github.com/dalemusser/mindhub/internal/domain/models"
	"go.uber.org/zap"
)

type createGroupRequest struct {
	Name          string `json:"name" validate:"required,max=100"`
	Description   string `json:"description" validate:"max=2000"`
	CoverImageURL string `json:"coverImageUrl" validate:"omitempty,max=2048"`
}

type updateGroupRequest struct {
	Name          *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description   *string `json:"description" validate:"omitempty,max=2000"`
	CoverImageURL *string `json:"coverImageUrl" validate:"omitempty,max=2048"`
}

// HandleCreate handles POST /groups. The creator becomes the group's first admin.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserID(r)
	if !ok {
		h.ErrLog.Write(w, r, apperr.Unauthorizedf("missing or invalid bearer token"))
		return
	}
	var req createGroupRequest
	if err := jsonio.DecodeValid(w, r, &req); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	var created models.Group
	err := txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		g, err := groupstore.New(h.DB).Create(ctx, models.Group{
			Name:          req.Name,
			Description:   req.Description,
			CoverImageURL: req.CoverImageURL,
			CreatedBy:     uid,
		})
		if err != nil {
			return err
		}
		if _, err := membershipstore.New(h.DB).Add(ctx, g.ID, uid, models.MemberRoleAdmin); err != nil {
			return err
		}
		created = g
		return nil
	})
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	h.Log.Info("group created", zap.String("group_id", created.ID.Hex()), zap.String("created_by", uid.Hex()))
	jsonio.Created(w, created)
}

// HandleList handles GET /groups.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	p := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	items, total, err := groupstore.New(h.DB).List(ctx, p)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list groups failed", err)
		return
	}
	jsonio.OK(w, paging.NewPage(items, total, p))
}

// HandleGet handles GET /groups/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := urlparam.ObjectID(r, "id")
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g, err := groupstore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	jsonio.OK(w, g)
}

// HandleUpdate handles PATCH /groups/{id}. Group admins and moderators only.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
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
	var req updateGroupRequest
	if err := jsonio.DecodeValid(w, r, &req); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	store := groupstore.New(h.DB)
	if _, err := store.GetByID(ctx, id); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	if err := grouppolicy.AuthorizeModify(ctx, membershipstore.New(h.DB), id, uid); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	g, err := store.Update(ctx, id, groupstore.Update{
		Name:          req.Name,
		Description:   req.Description,
		CoverImageURL: req.CoverImageURL,
	})
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	jsonio.OK(w, g)
}

// HandleDelete handles DELETE /groups/{id}. Creator only; memberships go with it.
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

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	store := groupstore.New(h.DB)
	g, err := store.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	if err := grouppolicy.AuthorizeDelete(*g, uid); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	var removed int64
	err = txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		if _, err := store.Delete(ctx, id); err != nil {
			return err
		}
		n, err := membershipstore.New(h.DB).DeleteByGroup(ctx, id)
		removed = n
		return err
	})
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	h.Log.Info("group deleted",
		zap.String("group_id", id.Hex()),
		zap.Int64("memberships_removed", removed))
	jsonio.OK(w, g)
}
