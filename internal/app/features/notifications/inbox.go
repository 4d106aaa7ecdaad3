// internal/app/features/notifications/inbox.go
package notifications

import (
	"context"
	"net/http"

	"github.com/dalemusser/mindhub/internal/app/policy/ownerpolicy"
	notificationstore "github.com/dalemusser/mindhub/internal/app/store/notifications"
	"github.com/dalemusser/mindhub/internal/app/system/apperr"
	"github.com/dalemusser/mindhub/internal/app/system/authz"
	"github.com/dalemusser/mindhub/internal/app/system/jsonio"
	"github.com/dalemusser/mindhub/internal/app/system/paging"
	"github.com/dalemusser/mindhub/internal/app/system/timeouts"
	"github.com/dalemusser/mindhub/internal/app/system/urlparam"
	"github.com/dalemusser/mindhub/internal/domain/models"
)

// listResponse is a page plus unreadCount, which is present only when the
// list is not filtered by isRead.
type listResponse struct {
	paging.Page[models.Notification]
	UnreadCount *int64 `json:"unreadCount,omitempty"`
}

type readRequest struct {
	IsRead *bool `json:"isRead" validate:"required"`
}

var errUnauthenticated = apperr.Unauthorizedf("missing or invalid bearer token")

// HandleList handles GET /notifications?isRead.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserID(r)
	if !ok {
		h.ErrLog.Write(w, r, errUnauthenticated)
		return
	}
	isRead, err := urlparam.QueryBool(r, "isRead")
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	p := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := notificationstore.New(h.DB)
	items, total, err := store.List(ctx, uid, isRead, p)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list notifications failed", err)
		return
	}
	resp := listResponse{Page: paging.NewPage(items, total, p)}
	if isRead == nil {
		n, err := store.UnreadCount(ctx, uid)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "count unread notifications failed", err)
			return
		}
		resp.UnreadCount = &n
	}
	jsonio.OK(w, resp)
}

func (h *Handler) loadOwned(ctx context.Context, r *http.Request) (*models.Notification, error) {
	uid, ok := authz.UserID(r)
	if !ok {
		return nil, errUnauthenticated
	}
	id, err := urlparam.ObjectID(r, "id")
	if err != nil {
		return nil, err
	}
	n, err := notificationstore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ownerpolicy.AssertOwner(n.UserID, uid); err != nil {
		return nil, err
	}
	return n, nil
}

// HandleGet handles GET /notifications/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	n, err := h.loadOwned(ctx, r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	jsonio.OK(w, n)
}

// HandleSetRead handles PATCH /notifications/{id}.
func (h *Handler) HandleSetRead(w http.ResponseWriter, r *http.Request) {
	var req readRequest
	if err := jsonio.DecodeValid(w, r, &req); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	n, err := h.loadOwned(ctx, r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	updated, err := notificationstore.New(h.DB).SetRead(ctx, n.ID, *req.IsRead)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	jsonio.OK(w, updated)
}

// HandleDelete handles DELETE /notifications/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	n, err := h.loadOwned(ctx, r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	if _, err := notificationstore.New(h.DB).Delete(ctx, n.ID); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	jsonio.OK(w, n)
}

// HandleMarkAllRead handles PATCH /notifications.
func (h *Handler) HandleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserID(r)
	if !ok {
		h.ErrLog.Write(w, r, errUnauthenticated)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	n, err := notificationstore.New(h.DB).MarkAllRead(ctx, uid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "mark notifications read failed", err)
		return
	}
	jsonio.OK(w, map[string]int64{"modified": n})
}

// HandleDeleteAll handles DELETE /notifications.
func (h *Handler) HandleDeleteAll(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserID(r)
	if !ok {
		h.ErrLog.Write(w, r, errUnauthenticated)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	n, err := notificationstore.New(h.DB).DeleteAll(ctx, uid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "delete notifications failed", err)
		return
	}
	jsonio.OK(w, map[string]int64{"deleted": n})
}
