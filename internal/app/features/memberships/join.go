// internal/app/features/memberships/join.go
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
	"github.com/dalemusser/mindhub/internal/app/system/timeouts"
	"github.com/dalemusser/mindhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type joinRequest struct {
	GroupID primitive.ObjectID `json:"groupId" validate:"required"`
	Role    string             `json:"role" validate:"omitempty,oneof=member moderator admin"`
}

// HandleJoin handles POST /memberships. The member is always the caller and
// the role is always member; asking for any other role is Forbidden.
func (h *Handler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserID(r)
	if !ok {
		h.ErrLog.Write(w, r, apperr.Unauthorizedf("missing or invalid bearer token"))
		return
	}
	var req joinRequest
	if err := jsonio.DecodeValid(w, r, &req); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	if err := grouppolicy.CanJoinAs(req.Role); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	role := models.MemberRoleMember

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if _, err := groupstore.New(h.DB).GetByID(ctx, req.GroupID); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	store := membershipstore.New(h.DB)
	exists, err := store.Exists(ctx, req.GroupID, uid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "membership lookup failed", err)
		return
	}
	if exists {
		h.ErrLog.Write(w, r, membershipstore.ErrDuplicateMembership)
		return
	}
	m, err := store.Add(ctx, req.GroupID, uid, role)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	h.Log.Info("group joined",
		zap.String("group_id", req.GroupID.Hex()),
		zap.String("user_id", uid.Hex()),
		zap.String("role", role))
	jsonio.Created(w, m)
}
