// internal/app/features/memberships/manage.go
package memberships

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
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type roleRequest struct {
	Role string `json:"role" validate:"required,oneof=member moderator admin"`
}

// HandleList handles GET /memberships?groupId&userId.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	var f membershipstore.Filter
	if id, err := urlparam.QueryObjectID(r, "groupId"); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	} else if id != nil {
		f.GroupID = *id
	}
	if id, err := urlparam.QueryObjectID(r, "userId"); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	} else if id != nil {
		f.UserID = *id
	}
	p := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	items, total, err := membershipstore.New(h.DB).List(ctx, f, p)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list memberships failed", err)
		return
	}
	jsonio.OK(w, paging.NewPage(items, total, p))
}

// HandleGet handles GET /memberships/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := urlparam.ObjectID(r, "id")
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	m, err := membershipstore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	jsonio.OK(w, m)
}

// HandleChangeRole handles PATCH /memberships/{id}.
func (h *Handler) HandleChangeRole(w http.ResponseWriter, r *http.Request) {
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
	var req roleRequest
	if err := jsonio.DecodeValid(w, r, &req); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := membershipstore.New(h.DB)
	var before models.Membership
	var after *models.Membership
	err = h.guarded(ctx, id, func(ctx context.Context, target models.Membership) error {
		if err := grouppolicy.CanChangeRole(ctx, store, uid, target, req.Role); err != nil {
			return err
		}
		m, err := store.UpdateRole(ctx, id, req.Role)
		if err != nil {
			return err
		}
		if target.Role == models.MemberRoleAdmin && req.Role != models.MemberRoleAdmin {
			if err := grouppolicy.VerifyAdminRemains(ctx, store, target.GroupID); err != nil {
				if _, rerr := store.UpdateRole(ctx, id, target.Role); rerr != nil {
					h.Log.Error("restore admin role failed", zap.String("membership_id", id.Hex()), zap.Error(rerr))
				}
				return err
			}
		}
		before, after = target, m
		return nil
	})
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	h.Log.Info("membership role changed",
		zap.String("membership_id", id.Hex()),
		zap.String("from", before.Role),
		zap.String("to", req.Role),
		zap.String("actor_id", uid.Hex()))
	jsonio.OK(w, after)
}

// HandleDelete handles DELETE /memberships/{id}: leaving, or an admin removing someone.
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

	store := membershipstore.New(h.DB)
	var removed models.Membership
	err = h.guarded(ctx, id, func(ctx context.Context, target models.Membership) error {
		if err := grouppolicy.CanLeaveOrRemove(ctx, store, target, uid); err != nil {
			return err
		}
		found, err := store.Delete(ctx, id)
		if err != nil {
			return err
		}
		if !found {
			return mongo.ErrNoDocuments
		}
		if target.Role == models.MemberRoleAdmin {
			if err := grouppolicy.VerifyAdminRemains(ctx, store, target.GroupID); err != nil {
				if rerr := store.Restore(ctx, target); rerr != nil {
					h.Log.Error("restore admin membership failed", zap.String("membership_id", id.Hex()), zap.Error(rerr))
				}
				return err
			}
		}
		removed = target
		return nil
	})
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	jsonio.OK(w, removed)
}

// guarded loads membership id and runs fn in a transaction that first bumps
// the group's admin guard, so two requests dropping admins from one group
// cannot both commit. Without transactions, fn's recount and undo are all
// that keep the group from ending with no admin.
func (h *Handler) guarded(ctx context.Context, id primitive.ObjectID, fn func(ctx context.Context, target models.Membership) error) error {
	store := membershipstore.New(h.DB)
	first, err := store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		if err := groupstore.New(h.DB).BumpAdminGuard(ctx, first.GroupID); err != nil {
			return err
		}
		target, err := store.GetByID(ctx, id)
		if err != nil {
			return err
		}
		return fn(ctx, *target)
	})
}
