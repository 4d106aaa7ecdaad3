// internal/app/features/journal/resource.go
package journal

import (
	"context"
	"net/http"

	"github.com/dalemusser/mindhub/internal/app/policy/ownerpolicy"
	"github.com/dalemusser/mindhub/internal/app/system/apperr"
	"github.com/dalemusser/mindhub/internal/app/system/authz"
	"github.com/dalemusser/mindhub/internal/app/system/jsonio"
	"github.com/dalemusser/mindhub/internal/app/system/paging"
	"github.com/dalemusser/mindhub/internal/app/system/timeouts"
	"github.com/dalemusser/mindhub/internal/app/system/urlparam"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Store is the CRUD surface shared by every journaling store.
type Store[T any] interface {
	Create(ctx context.Context, v T) (T, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*T, error)
	List(ctx context.Context, userID primitive.ObjectID, p paging.Params) ([]T, int64, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*T, error)
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
}

// resource binds one user-owned entity to the shared handlers.
type resource[T any] struct {
	h     *Handler
	name  string
	store Store[T]

	// getOwner and setOwner access the entity's user_id.
	getOwner func(v *T) primitive.ObjectID
	setOwner func(v *T, id primitive.ObjectID)

	// build decodes a create body. A zero owner means "the caller".
	build func(w http.ResponseWriter, r *http.Request) (T, error)
	// patch decodes an update body into a $set.
	patch func(w http.ResponseWriter, r *http.Request) (bson.M, error)
	// created runs after a successful insert. Optional.
	created func(ctx context.Context, v T)
}

var errUnauthenticated = apperr.Unauthorizedf("missing or invalid bearer token")

func (res *resource[T]) create(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserID(r)
	if !ok {
		res.h.ErrLog.Write(w, r, errUnauthenticated)
		return
	}
	doc, err := res.build(w, r)
	if err != nil {
		res.h.ErrLog.Write(w, r, err)
		return
	}
	owner := res.getOwner(&doc)
	if owner.IsZero() {
		owner = uid
	}
	if err := ownerpolicy.AssertOwnerOrAdmin(r, owner); err != nil {
		res.h.ErrLog.Write(w, r, err)
		return
	}
	res.setOwner(&doc, owner)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	created, err := res.store.Create(ctx, doc)
	if err != nil {
		res.h.ErrLog.Write(w, r, err)
		return
	}
	if res.created != nil {
		res.created(r.Context(), created)
	}
	res.h.Log.Debug(res.name+" created", zap.String("user_id", owner.Hex()))
	jsonio.Created(w, created)
}

// list scopes non-admins to their own entries. Admins see everyone's
// unless they pass ?userId.
func (res *resource[T]) list(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserID(r)
	if !ok {
		res.h.ErrLog.Write(w, r, errUnauthenticated)
		return
	}
	filter, err := urlparam.QueryObjectID(r, "userId")
	if err != nil {
		res.h.ErrLog.Write(w, r, err)
		return
	}
	var userID primitive.ObjectID
	switch {
	case authz.IsAdmin(r):
		if filter != nil {
			userID = *filter
		}
	case filter == nil || *filter == uid:
		userID = uid
	default:
		res.h.ErrLog.Write(w, r, apperr.Forbiddenf("you can only list your own "+res.name))
		return
	}
	p := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	items, total, err := res.store.List(ctx, userID, p)
	if err != nil {
		res.h.ErrLog.LogServerError(w, r, "list "+res.name+" failed", err)
		return
	}
	jsonio.OK(w, paging.NewPage(items, total, p))
}

func (res *resource[T]) load(ctx context.Context, r *http.Request) (primitive.ObjectID, *T, error) {
	id, err := urlparam.ObjectID(r, "id")
	if err != nil {
		return id, nil, err
	}
	v, err := res.store.GetByID(ctx, id)
	if err != nil {
		return id, nil, err
	}
	if err := ownerpolicy.AssertOwnerOrAdmin(r, res.getOwner(v)); err != nil {
		return id, nil, err
	}
	return id, v, nil
}

func (res *resource[T]) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	_, v, err := res.load(ctx, r)
	if err != nil {
		res.h.ErrLog.Write(w, r, err)
		return
	}
	jsonio.OK(w, v)
}

func (res *resource[T]) update(w http.ResponseWriter, r *http.Request) {
	set, err := res.patch(w, r)
	if err != nil {
		res.h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id, _, err := res.load(ctx, r)
	if err != nil {
		res.h.ErrLog.Write(w, r, err)
		return
	}
	updated, err := res.store.Update(ctx, id, set)
	if err != nil {
		res.h.ErrLog.Write(w, r, err)
		return
	}
	jsonio.OK(w, updated)
}

// remove answers with the deleted document.
func (res *resource[T]) remove(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id, v, err := res.load(ctx, r)
	if err != nil {
		res.h.ErrLog.Write(w, r, err)
		return
	}
	if _, err := res.store.Delete(ctx, id); err != nil {
		res.h.ErrLog.Write(w, r, err)
		return
	}
	jsonio.OK(w, v)
}
